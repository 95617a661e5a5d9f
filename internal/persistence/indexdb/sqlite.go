package indexdb

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite"

	"gemgrid.ai/internal/sim/episode"
	"gemgrid.ai/internal/sim/tuning"
)

// SQLiteIndex is a queryable read model of steps and episodes. Writes are
// queued to a single writer goroutine and dropped when the queue is full; the
// JSONL step logs remain the source of truth.
type SQLiteIndex struct {
	db *sql.DB

	ch   chan req
	wg   sync.WaitGroup
	once sync.Once

	closed atomic.Bool

	dropStep    atomic.Uint64
	dropEpisode atomic.Uint64
}

type reqKind int

const (
	reqStep reqKind = iota + 1
	reqEpisode
)

type req struct {
	kind reqKind

	step    episode.StepRecord
	episode episode.Summary
}

type Stats struct {
	QueueDepth       int    `json:"queue_depth"`
	QueueCapacity    int    `json:"queue_capacity"`
	DropStepTotal    uint64 `json:"drop_step_total"`
	DropEpisodeTotal uint64 `json:"drop_episode_total"`
}

func OpenSQLite(path string) (*SQLiteIndex, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initPragmas(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &SQLiteIndex{
		db: db,
		ch: make(chan req, 65536),
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loop()
	}()
	return s, nil
}

func initPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA temp_store=MEMORY;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return err
		}
	}
	return nil
}

func initSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS episodes (
			episode_id TEXT PRIMARY KEY,
			level TEXT NOT NULL,
			n_agents INTEGER NOT NULL,
			steps INTEGER NOT NULL,
			total_reward INTEGER NOT NULL,
			gems INTEGER NOT NULL,
			arrived INTEGER NOT NULL,
			reason TEXT NOT NULL,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_episodes_level ON episodes(level, ended_at);`,
		`CREATE TABLE IF NOT EXISTS steps (
			episode_id TEXT NOT NULL,
			step INTEGER NOT NULL,
			reward INTEGER NOT NULL,
			events INTEGER NOT NULL,
			digest TEXT NOT NULL,
			raw_json TEXT NOT NULL,
			PRIMARY KEY (episode_id, step)
		);`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteIndex) Close() error {
	var err error
	s.once.Do(func() {
		s.closed.Store(true)
		close(s.ch)
		s.wg.Wait()
		err = s.db.Close()
	})
	return err
}

func (s *SQLiteIndex) WriteStep(rec episode.StepRecord) error {
	if s == nil || s.closed.Load() {
		return nil
	}
	select {
	case s.ch <- req{kind: reqStep, step: rec}:
	default:
		s.dropStep.Add(1)
	}
	return nil
}

func (s *SQLiteIndex) RecordEpisode(sum episode.Summary) {
	if s == nil || s.closed.Load() {
		return
	}
	select {
	case s.ch <- req{kind: reqEpisode, episode: sum}:
	default:
		s.dropEpisode.Add(1)
	}
}

func (s *SQLiteIndex) Stats() Stats {
	if s == nil {
		return Stats{}
	}
	return Stats{
		QueueDepth:       len(s.ch),
		QueueCapacity:    cap(s.ch),
		DropStepTotal:    s.dropStep.Load(),
		DropEpisodeTotal: s.dropEpisode.Load(),
	}
}

// UpsertTuning stores the tuning actually applied, keyed by its digest.
func (s *SQLiteIndex) UpsertTuning(t tuning.Tuning) error {
	if s == nil {
		return nil
	}
	b, err := json.Marshal(t)
	if err != nil {
		return err
	}
	sum := sha256.Sum256(b)

	tx, err := s.db.BeginTx(context.Background(), nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	kv := [][2]string{
		{"schema_version", "1"},
		{"tuning", string(b)},
		{"tuning_digest", hex.EncodeToString(sum[:])},
	}
	for _, p := range kv {
		if _, err := tx.Exec(`INSERT OR REPLACE INTO meta(key,value) VALUES(?,?)`, p[0], p[1]); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *SQLiteIndex) loop() {
	ctx := context.Background()

	insertStep, _ := s.db.Prepare(`INSERT OR REPLACE INTO steps(episode_id,step,reward,events,digest,raw_json) VALUES(?,?,?,?,?,?)`)
	insertEpisode, _ := s.db.Prepare(`INSERT OR REPLACE INTO episodes(episode_id,level,n_agents,steps,total_reward,gems,arrived,reason,started_at,ended_at) VALUES(?,?,?,?,?,?,?,?,?,?)`)
	defer func() {
		if insertStep != nil {
			_ = insertStep.Close()
		}
		if insertEpisode != nil {
			_ = insertEpisode.Close()
		}
	}()

	var (
		tx            *sql.Tx
		opCount       int
		lastCommit    = time.Now()
		commitEvery   = 2000
		commitMaxWait = 2 * time.Second
	)

	begin := func() {
		if tx != nil {
			return
		}
		txx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			time.Sleep(50 * time.Millisecond)
			return
		}
		tx = txx
		opCount = 0
		lastCommit = time.Now()
	}
	commit := func() {
		if tx == nil {
			return
		}
		_ = tx.Commit()
		tx = nil
		opCount = 0
		lastCommit = time.Now()
	}
	rollback := func() {
		if tx == nil {
			return
		}
		_ = tx.Rollback()
		tx = nil
		opCount = 0
		lastCommit = time.Now()
	}

	for r := range s.ch {
		begin()
		if tx == nil {
			continue
		}
		switch r.kind {
		case reqStep:
			if insertStep == nil {
				continue
			}
			b, _ := json.Marshal(r.step)
			if _, err := tx.Stmt(insertStep).Exec(
				r.step.EpisodeID,
				int64(r.step.Step),
				r.step.Reward,
				len(r.step.Events),
				r.step.Digest,
				string(b),
			); err != nil {
				rollback()
				continue
			}
			opCount++

		case reqEpisode:
			if insertEpisode == nil {
				continue
			}
			e := r.episode
			if _, err := tx.Stmt(insertEpisode).Exec(
				e.EpisodeID,
				e.Level,
				e.NAgents,
				int64(e.Steps),
				e.TotalReward,
				e.GemsCollected,
				e.AgentsArrived,
				string(e.Reason),
				e.StartedAt.Format(time.RFC3339Nano),
				e.EndedAt.Format(time.RFC3339Nano),
			); err != nil {
				rollback()
				continue
			}
			opCount++
			// Commit at every episode end.
			commit()
			continue
		}
		if opCount >= commitEvery || time.Since(lastCommit) >= commitMaxWait {
			commit()
		}
	}

	commit()
}
