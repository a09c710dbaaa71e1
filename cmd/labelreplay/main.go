// Command labelreplay replays a labeling script without a display and
// prints the resulting annotations.
package main

import (
	"flag"
	"fmt"
	"os"

	"parcel-labeler/internal/annotation"
	"parcel-labeler/internal/app"
	"parcel-labeler/internal/config"
	"parcel-labeler/internal/replay"
	"parcel-labeler/internal/version"
)

func main() {
	scriptPath := flag.String("script", "", "Path to the replay script")
	configPath := flag.String("config", "", "Path to a JSON config file (defaults if empty)")
	outPath := flag.String("out", "", "Write annotations as JSON to this file")
	flag.Parse()

	if *scriptPath == "" {
		fmt.Printf("labelreplay %s\n", version.String())
		fmt.Println("Usage: labelreplay -script <path> [-config config.json] [-out result.json]")
		os.Exit(1)
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.LoadFromFile(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}

	f, err := os.Open(*scriptPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open script: %v\n", err)
		os.Exit(1)
	}
	cmds, err := replay.Parse(f)
	f.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to parse script: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Parsed %d commands\n", len(cmds))

	opts := cfg.SessionOptions()
	store := annotation.NewStore()
	session := app.NewSession(store, &annotation.NopRenderer{}, opts)

	if err := replay.Run(session, cmds); err != nil {
		fmt.Fprintf(os.Stderr, "Replay stopped: %v\n", err)
		os.Exit(1)
	}
	// Whatever is on display counts, as it would when the window closes.
	session.CommitCurrentAndClear()

	fmt.Printf("\nAnnotated images: %d\n", len(store.Images()))
	fmt.Printf("%-24s %-12s %6s %7s %12s %12s\n", "Image", "Category", "Count", "Convex", "Mean area", "Std area")
	for _, id := range store.Images() {
		for _, cs := range annotation.Summarize(store.Load(id)) {
			name := opts.Palette.Name(cs.Category)
			if name == "" {
				name = fmt.Sprintf("#%d", cs.Category)
			}
			fmt.Printf("%-24s %-12s %6d %7d %12.1f %12.1f\n",
				id, name, cs.Count, cs.Convex, cs.MeanArea, cs.StdArea)
		}
	}

	if *outPath == "" {
		return
	}
	out, err := os.Create(*outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create output: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()
	if err := replay.WriteJSON(out, store, opts.Palette); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	fmt.Printf("\nWrote %s\n", *outPath)
}
