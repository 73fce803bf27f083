package ui

// SessionState is the recording session lifecycle.
type SessionState int

const (
	SessionIdle SessionState = iota
	SessionRecording
	SessionEncoding
)

// Next returns the state the record key moves to. Encoding finishes on its
// own, so the key does nothing while a file is being written.
func (s SessionState) Next() SessionState {
	switch s {
	case SessionIdle:
		return SessionRecording
	case SessionRecording:
		return SessionEncoding
	default:
		return s
	}
}

// String returns the name of the session state.
func (s SessionState) String() string {
	switch s {
	case SessionRecording:
		return "recording"
	case SessionEncoding:
		return "encoding"
	default:
		return "idle"
	}
}

// Icon returns a visual indicator for the session state.
func (s SessionState) Icon() string {
	switch s {
	case SessionRecording:
		return "● REC"
	case SessionEncoding:
		return "◌ saving"
	default:
		return ""
	}
}
