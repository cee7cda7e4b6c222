package session

import "time"

// startedMsg is sent when engine startup (sampling) completes.
type startedMsg struct {
	Err error
}

// tickMsg is sent every second to refresh the countdown and check the
// deadline.
type tickMsg time.Time
