package service

import "time"

// LogFilter narrows event log queries. Zero times mean unbounded.
type LogFilter struct {
	From   time.Time // inclusive
	To     time.Time // inclusive
	Type   string    // SETUP, REFRESH_FAILED, AUTH_FAILED, COMMAND, COMMAND_FAILED
	Device string
}

// HistoryFilter selects zone readings of one device.
type HistoryFilter struct {
	Device string
	Zone   int
	From   time.Time
	To     time.Time
	Limit  int // 0 means the repository default
}
