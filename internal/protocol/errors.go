package protocol

const (
	// Protocol/transport validation.
	ErrProtoBadRequest = "E_PROTO_BAD_REQUEST"
	ErrProtoVersion    = "E_PROTO_VERSION"

	// Episode ownership/state.
	ErrEpisodeBusy = "E_EPISODE_BUSY"
	ErrEpisodeDone = "E_EPISODE_DONE"

	// Step validation.
	ErrBadRequest = "E_BAD_REQUEST"
	ErrBadState   = "E_BAD_STATE"
	ErrBadEvent   = "E_BAD_EVENT"
	ErrBadLevel   = "E_BAD_LEVEL"
	ErrInternal   = "E_INTERNAL"
)

var knownCodes = map[string]struct{}{
	ErrProtoBadRequest: {},
	ErrProtoVersion:    {},
	ErrEpisodeBusy:     {},
	ErrEpisodeDone:     {},
	ErrBadRequest:      {},
	ErrBadState:        {},
	ErrBadEvent:        {},
	ErrBadLevel:        {},
	ErrInternal:        {},
}

func IsKnownCode(code string) bool {
	if code == "" {
		return true
	}
	_, ok := knownCodes[code]
	return ok
}
