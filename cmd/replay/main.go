package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	persistlog "gemgrid.ai/internal/persistence/log"
	"gemgrid.ai/internal/sim/episode"
	"gemgrid.ai/internal/sim/tuning"
)

func main() {
	var (
		dataDir    = flag.String("data", "./data", "runtime data directory")
		stepsDir   = flag.String("steps", "", "dir containing steps-*.jsonl.zst (default: <data>/steps)")
		tuningPath = flag.String("tuning", "./configs/tuning.yaml", "path to the tuning.yaml the logs were written with")
		episodeID  = flag.String("episode", "", "verify only this episode (optional)")
	)
	flag.Parse()

	dir := *stepsDir
	if dir == "" {
		dir = filepath.Join(*dataDir, "steps")
	}

	tune, err := tuning.Load(*tuningPath)
	if err != nil {
		if !os.IsNotExist(err) {
			fmt.Fprintln(os.Stderr, "load tuning:", err)
			os.Exit(1)
		}
		tune = tuning.Defaults()
	}

	files, err := persistlog.ListStepFiles(dir)
	if err != nil {
		fmt.Fprintln(os.Stderr, "list steps:", err)
		os.Exit(1)
	}
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "no step files found in", dir)
		os.Exit(1)
	}

	v := episode.NewVerifier(tune.Rewards)
	for _, path := range files {
		err := persistlog.ReadSteps(path, func(rec episode.StepRecord) error {
			if *episodeID != "" && rec.EpisodeID != *episodeID {
				return nil
			}
			return v.Check(rec)
		})
		if err != nil {
			fmt.Fprintln(os.Stderr, "replay:", err)
			os.Exit(1)
		}
	}
	fmt.Printf("replay ok: checked=%d steps across %d episodes (%d files)\n", v.Checked, v.Episodes, len(files))
}
