package ws

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"gemgrid.ai/internal/protocol"
	"gemgrid.ai/internal/sim/episode"
)

// Server lets one external driver at a time step the episode runner.
type Server struct {
	runner *episode.Runner
	log    *log.Logger

	// mu guards runner; busy marks that a driver session owns it.
	mu     sync.Mutex
	busy   atomic.Bool
	nextID atomic.Uint64

	upgrader websocket.Upgrader
}

func NewServer(r *episode.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		runner: r,
		log:    logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  64 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true }, // dev default
		},
	}
}

func (s *Server) Handler() http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		conn, err := s.upgrader.Upgrade(rw, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		sid, ok := s.handshake(conn)
		if !ok {
			return
		}
		defer func() {
			s.busy.Store(false)
			s.log.Printf("driver %s: disconnected", sid)
		}()

		for {
			_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			_, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			resp := s.handle(sid, msg)
			if err := writeJSON(conn, resp); err != nil {
				return
			}
		}
	}
}

func (s *Server) handshake(conn *websocket.Conn) (string, bool) {
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		return "", false
	}

	base, err := protocol.DecodeBase(msg)
	if err != nil || base.Type != protocol.TypeHello {
		_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "expected HELLO"), time.Now().Add(time.Second))
		return "", false
	}
	var hello protocol.HelloMsg
	if err := json.Unmarshal(msg, &hello); err != nil {
		return "", false
	}
	if hello.ProtocolVersion != protocol.Version {
		_ = writeJSON(conn, protocol.NewError("", protocol.ErrProtoVersion, fmt.Sprintf("server speaks %s", protocol.Version)))
		return "", false
	}
	if hello.DriverName == "" {
		hello.DriverName = "driver"
	}
	if !s.busy.CompareAndSwap(false, true) {
		_ = writeJSON(conn, protocol.NewError("", protocol.ErrEpisodeBusy, "another driver owns the episode"))
		return "", false
	}

	sid := fmt.Sprintf("D%d", s.nextID.Add(1))
	s.mu.Lock()
	welcome := s.welcomeLocked(sid)
	s.mu.Unlock()
	if err := writeJSON(conn, welcome); err != nil {
		s.busy.Store(false)
		return "", false
	}
	s.log.Printf("driver %s: connected name=%s episode=%s", sid, hello.DriverName, welcome.EpisodeID)
	return sid, true
}

func (s *Server) welcomeLocked(sid string) protocol.WelcomeMsg {
	lvl := s.runner.Level()
	return protocol.WelcomeMsg{
		Type:            protocol.TypeWelcome,
		ProtocolVersion: protocol.Version,
		SessionID:       sid,
		EpisodeID:       s.runner.ID(),
		Level: protocol.LevelInfo{
			Name:    lvl.Name,
			Width:   lvl.Width,
			Height:  lvl.Height,
			NAgents: lvl.NAgents(),
			NGems:   lvl.NGems(),
			Grid:    lvl.Render(),
		},
		State: s.runner.State(),
	}
}

func (s *Server) handle(sid string, msg []byte) any {
	base, err := protocol.DecodeBase(msg)
	if err != nil {
		return protocol.NewError("", protocol.ErrProtoBadRequest, "bad json")
	}
	if base.ProtocolVersion != protocol.Version {
		return protocol.NewError("", protocol.ErrProtoVersion, fmt.Sprintf("server speaks %s", protocol.Version))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	switch base.Type {
	case protocol.TypeStep:
		step, err := protocol.DecodeStep(msg)
		if err != nil {
			return protocol.NewError("", protocol.ErrProtoBadRequest, err.Error())
		}
		rec, err := s.runner.StepOnce(step.State, step.Events)
		if err != nil {
			return protocol.NewError(step.ReqID, stepErrorCode(err), err.Error())
		}
		return protocol.StepResultMsg{
			Type:            protocol.TypeStepResult,
			ProtocolVersion: protocol.Version,
			ReqID:           step.ReqID,
			EpisodeID:       rec.EpisodeID,
			Step:            rec.Step,
			Reward:          rec.Reward,
			GemsCollected:   rec.GemsCollected,
			AgentsArrived:   rec.AgentsArrived,
			Digest:          rec.Digest,
			Done:            rec.Done,
			Reason:          string(rec.Reason),
		}

	case protocol.TypeReset:
		s.runner.Reset()
		return s.welcomeLocked(sid)

	default:
		return protocol.NewError("", protocol.ErrBadRequest, fmt.Sprintf("unexpected message type %q", base.Type))
	}
}

func stepErrorCode(err error) string {
	switch {
	case errors.Is(err, episode.ErrFinished):
		return protocol.ErrEpisodeDone
	case errors.Is(err, episode.ErrStateShape):
		return protocol.ErrBadState
	case errors.Is(err, episode.ErrBadEvent):
		return protocol.ErrBadEvent
	}
	return protocol.ErrInternal
}

func writeJSON(conn *websocket.Conn, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	return conn.WriteMessage(websocket.TextMessage, b)
}
