package observerproto

import "gemgrid.ai/internal/sim/episode"

// Version is the observer protocol version (separate from the driver WS protocol).
const Version = "0.1"

const (
	TypeSubscribe  = "SUBSCRIBE"
	TypeStep       = "STEP"
	TypeEpisodeEnd = "EPISODE_END"
)

// Client -> Server. First message on the observer WS connection.
type SubscribeMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	// EpisodeID limits the feed to one episode; empty means all.
	EpisodeID string `json:"episode_id,omitempty"`
}

// HTTP response for GET /v1/observe/bootstrap.
type BootstrapResponse struct {
	ProtocolVersion string `json:"protocol_version"`
	Level           string `json:"level"`
	Width           int    `json:"width"`
	Height          int    `json:"height"`
	NAgents         int    `json:"n_agents"`
	NGems           int    `json:"n_gems"`
	Grid            string `json:"grid"`

	// Last is the most recent step seen, if any.
	Last *episode.StepRecord `json:"last,omitempty"`
}

// Server -> Client. Sent for every step.
type StepMsg struct {
	Type            string             `json:"type"`
	ProtocolVersion string             `json:"protocol_version"`
	Record          episode.StepRecord `json:"record"`
}

// Server -> Client. Sent when an episode ends.
type EpisodeEndMsg struct {
	Type            string          `json:"type"`
	ProtocolVersion string          `json:"protocol_version"`
	Summary         episode.Summary `json:"summary"`
}
