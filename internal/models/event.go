package models

import "time"

// Event types recorded in the bridge event log.
const (
	EventSetup         = "SETUP"
	EventRefreshFailed = "REFRESH_FAILED"
	EventAuthFailed    = "AUTH_FAILED"
	EventCommand       = "COMMAND"
	EventCommandFailed = "COMMAND_FAILED"
)

// Event is a single log entry.
type Event struct {
	EventID     string    `json:"event_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Device      string    `json:"device"`
	Type        string    `json:"type"`
	Description string    `json:"description"`
	Metadata    any       `json:"metadata,omitempty"`
}
