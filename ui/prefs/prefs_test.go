package prefs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", prefsFile)

	p := LoadFrom(path)
	p.SetString(KeyLastDir, "/data/parcels")
	p.SetInt(KeyLastIndex, 7)
	p.SetFloat(KeyZoom, 1.5)
	if err := p.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	q := LoadFrom(path)
	if got := q.String(KeyLastDir); got != "/data/parcels" {
		t.Errorf("String() = %q", got)
	}
	if got := q.Int(KeyLastIndex, -1); got != 7 {
		t.Errorf("Int() = %d, want 7", got)
	}
	if got := q.FloatWithFallback(KeyZoom, 1); got != 1.5 {
		t.Errorf("FloatWithFallback() = %v, want 1.5", got)
	}
}

func TestFallbacks(t *testing.T) {
	path := filepath.Join(t.TempDir(), prefsFile)
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	p := LoadFrom(path)
	if got := p.Int(KeyCategory, 3); got != 3 {
		t.Errorf("Int() on corrupt file = %d, want fallback 3", got)
	}
	if got := p.String(KeyLastDir); got != "" {
		t.Errorf("String() on corrupt file = %q", got)
	}

	p.SetString(KeyLastDir, "x")
	if got := p.Int(KeyLastDir, 9); got != 9 {
		t.Errorf("Int() of a string value = %d, want fallback 9", got)
	}
}
