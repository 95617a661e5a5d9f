package observer

import (
	"encoding/json"
	"sync"
	"sync/atomic"

	"gemgrid.ai/internal/observerproto"
	"gemgrid.ai/internal/sim/episode"
)

// Hub fans step records out to observer sessions. It never blocks the
// stepping loop: a session whose buffer is full misses the message.
type Hub struct {
	mu   sync.Mutex
	subs map[string]*subscriber
	last *episode.StepRecord

	dropped atomic.Uint64
}

type subscriber struct {
	episodeID string
	out       chan []byte
}

func NewHub() *Hub {
	return &Hub{subs: map[string]*subscriber{}}
}

func (h *Hub) Subscribe(id, episodeID string, buf int) <-chan []byte {
	if buf <= 0 {
		buf = 64
	}
	ch := make(chan []byte, buf)
	h.mu.Lock()
	h.subs[id] = &subscriber{episodeID: episodeID, out: ch}
	h.mu.Unlock()
	return ch
}

func (h *Hub) Unsubscribe(id string) {
	h.mu.Lock()
	delete(h.subs, id)
	h.mu.Unlock()
}

func (h *Hub) WriteStep(rec episode.StepRecord) error {
	b, err := json.Marshal(observerproto.StepMsg{
		Type:            observerproto.TypeStep,
		ProtocolVersion: observerproto.Version,
		Record:          rec,
	})
	if err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.last = &rec
	h.broadcastLocked(rec.EpisodeID, b)
	return nil
}

func (h *Hub) RecordEpisode(sum episode.Summary) {
	b, err := json.Marshal(observerproto.EpisodeEndMsg{
		Type:            observerproto.TypeEpisodeEnd,
		ProtocolVersion: observerproto.Version,
		Summary:         sum,
	})
	if err != nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.broadcastLocked(sum.EpisodeID, b)
}

func (h *Hub) broadcastLocked(episodeID string, b []byte) {
	for _, s := range h.subs {
		if s.episodeID != "" && s.episodeID != episodeID {
			continue
		}
		select {
		case s.out <- b:
		default:
			h.dropped.Add(1)
		}
	}
}

// Last returns a copy of the most recent step record.
func (h *Hub) Last() (episode.StepRecord, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.last == nil {
		return episode.StepRecord{}, false
	}
	rec := *h.last
	rec.State = rec.State.Clone()
	return rec, true
}

func (h *Hub) Dropped() uint64 { return h.dropped.Load() }

func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
