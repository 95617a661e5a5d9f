package indexdb

import (
	"context"
	"database/sql"
	"time"

	"gemgrid.ai/internal/sim/episode"
)

// ListEpisodes returns the most recently finished episodes first.
func (s *SQLiteIndex) ListEpisodes(ctx context.Context, limit int) ([]episode.Summary, error) {
	return ListEpisodes(ctx, s.db, limit)
}

// ListEpisodes reads an index opened elsewhere (e.g. read-only by the admin tool).
func ListEpisodes(ctx context.Context, db *sql.DB, limit int) ([]episode.Summary, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.QueryContext(ctx, `SELECT episode_id,level,n_agents,steps,total_reward,gems,arrived,reason,started_at,ended_at
		FROM episodes ORDER BY ended_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []episode.Summary
	for rows.Next() {
		var (
			e              episode.Summary
			steps          int64
			reason         string
			started, ended string
		)
		if err := rows.Scan(&e.EpisodeID, &e.Level, &e.NAgents, &steps, &e.TotalReward, &e.GemsCollected, &e.AgentsArrived, &reason, &started, &ended); err != nil {
			return nil, err
		}
		e.Steps = uint64(steps)
		e.Reason = episode.DoneReason(reason)
		e.StartedAt, _ = time.Parse(time.RFC3339Nano, started)
		e.EndedAt, _ = time.Parse(time.RFC3339Nano, ended)
		out = append(out, e)
	}
	return out, rows.Err()
}

// StepRewards returns the per-step rewards of one episode in step order.
func (s *SQLiteIndex) StepRewards(ctx context.Context, episodeID string) ([]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT reward FROM steps WHERE episode_id=? ORDER BY step`, episodeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []int
	for rows.Next() {
		var r int
		if err := rows.Scan(&r); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
