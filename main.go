// Package main provides the entry point for the Parcel Labeler application.
package main

import (
	"flag"
	"log"

	"parcel-labeler/internal/annotation"
	"parcel-labeler/internal/app"
	"parcel-labeler/internal/config"
	"parcel-labeler/internal/version"
	"parcel-labeler/ui/mainwindow"
	"parcel-labeler/ui/prefs"

	fyneapp "fyne.io/fyne/v2/app"
)

const appID = "com.parcellabeler.app"

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	configPath := flag.String("config", config.GetConfigPath(), "path to the JSON config file")
	flag.Parse()

	log.Printf("Starting Parcel Labeler %s", version.String())

	cfg, err := config.LoadOrDefault(*configPath)
	if err != nil {
		log.Printf("Using default config: %v", err)
		cfg = config.Default()
	}

	appPrefs := prefs.Load()

	a := fyneapp.NewWithID(appID)
	a.Settings().SetTheme(&app.LabelerTheme{})

	win := mainwindow.New(a, annotation.NewStore(), cfg, *configPath, appPrefs)

	// An image directory on the command line wins over the last one used.
	dir, start := flag.Arg(0), 0
	if dir == "" {
		dir = appPrefs.String(prefs.KeyLastDir)
		start = appPrefs.Int(prefs.KeyLastIndex, 0)
	}
	if dir != "" {
		if err := win.OpenDir(dir, start); err != nil {
			log.Printf("Failed to open %s: %v", dir, err)
		}
	}

	win.ShowAndRun()
}
