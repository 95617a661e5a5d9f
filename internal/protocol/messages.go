package protocol

import (
	"gemgrid.ai/internal/sim/reward"
	"gemgrid.ai/internal/sim/world"
)

// HELLO (driver -> server)
type HelloMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	DriverName      string `json:"driver_name"`
}

// WELCOME (server -> driver)
type WelcomeMsg struct {
	Type            string      `json:"type"`
	ProtocolVersion string      `json:"protocol_version"`
	SessionID       string      `json:"session_id"`
	EpisodeID       string      `json:"episode_id"`
	Level           LevelInfo   `json:"level"`
	State           world.State `json:"state"`
}

type LevelInfo struct {
	Name    string `json:"name"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	NAgents int    `json:"n_agents"`
	NGems   int    `json:"n_gems"`
	// Grid is the level text as the server parsed it.
	Grid string `json:"grid"`
}

// STEP (driver -> server)
type StepMsg struct {
	Type            string         `json:"type"`
	ProtocolVersion string         `json:"protocol_version"`
	ReqID           string         `json:"req_id,omitempty"`
	State           world.State    `json:"state"`
	Events          []reward.Event `json:"events"`
}

// STEP_RESULT (server -> driver)
type StepResultMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	ReqID           string `json:"req_id,omitempty"`
	EpisodeID       string `json:"episode_id"`
	Step            uint64 `json:"step"`
	Reward          int    `json:"reward"`
	GemsCollected   int    `json:"gems_collected"`
	AgentsArrived   int    `json:"agents_arrived"`
	Digest          string `json:"digest"`
	Done            bool   `json:"done"`
	Reason          string `json:"reason,omitempty"`
}

// RESET (driver -> server); the server answers with a fresh WELCOME.
type ResetMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
}

// ERROR (server -> driver)
type ErrorMsg struct {
	Type            string `json:"type"`
	ProtocolVersion string `json:"protocol_version"`
	ReqID           string `json:"req_id,omitempty"`
	Code            string `json:"code"`
	Message         string `json:"message"`
}

func NewError(reqID, code, msg string) ErrorMsg {
	return ErrorMsg{Type: TypeError, ProtocolVersion: Version, ReqID: reqID, Code: code, Message: msg}
}
