package service

// Broadcaster interface for WebSocket broadcasting (avoids import cycle)
type Broadcaster interface {
	BroadcastToForm(formID string, msgType string, payload interface{})
}

// Event types pushed to author dashboards
const (
	EventSessionStarted     = "session_started"
	EventSessionProgress    = "session_progress"
	EventSessionAbandoned   = "session_abandoned"
	EventSubmissionReceived = "submission_received"
)

type nopBroadcaster struct{}

func (nopBroadcaster) BroadcastToForm(string, string, interface{}) {}
