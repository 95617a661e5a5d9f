package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"

	"gemgrid.ai/internal/persistence/indexdb"
)

func newEpisodesCmd() *cobra.Command {
	var (
		dataDir string
		dbPath  string
		limit   int
		asJSON  bool
	)
	cmd := &cobra.Command{
		Use:   "episodes",
		Short: "List recently finished episodes from the sqlite index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := strings.TrimSpace(dbPath)
			if path == "" {
				path = filepath.Join(dataDir, "index", "episodes.sqlite")
			}
			db, err := sql.Open("sqlite", path)
			if err != nil {
				return err
			}
			defer db.Close()

			eps, err := indexdb.ListEpisodes(cmd.Context(), db, limit)
			if err != nil {
				return fmt.Errorf("query %s: %w", path, err)
			}
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(eps)
			}
			for _, e := range eps {
				fmt.Fprintf(out, "%s level=%s steps=%d reward=%d gems=%d arrived=%d/%d reason=%s ended=%s\n",
					e.EpisodeID, e.Level, e.Steps, e.TotalReward, e.GemsCollected, e.AgentsArrived, e.NAgents, e.Reason,
					e.EndedAt.Format("2006-01-02T15:04:05Z07:00"))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dataDir, "data", "./data", "runtime data directory")
	cmd.Flags().StringVar(&dbPath, "db", "", "sqlite db path (default: <data>/index/episodes.sqlite)")
	cmd.Flags().IntVar(&limit, "limit", 20, "result limit")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}
