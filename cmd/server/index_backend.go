package main

import (
	"fmt"
	"log"
	"path/filepath"

	"gemgrid.ai/internal/persistence/indexdb"
	"gemgrid.ai/internal/sim/episode"
	"gemgrid.ai/internal/sim/tuning"
)

type runtimeIndex interface {
	episode.Sink
	Close() error
	UpsertTuning(t tuning.Tuning) error
	Stats() indexdb.Stats
}

func openRuntimeIndex(dataDir string, disableDB bool, logger *log.Logger) (runtimeIndex, error) {
	if disableDB {
		logger.Printf("index disabled")
		return nil, nil
	}
	dbPath := filepath.Join(dataDir, "index", "episodes.sqlite")
	idx, err := indexdb.OpenSQLite(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", dbPath, err)
	}
	return idx, nil
}
