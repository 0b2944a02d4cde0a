package cache

import "time"

// Entry is one cached command result. Entries are never mutated in
// place; a re-execution writes a new entry under the same fingerprint.
type Entry struct {
	// Command is the full command text the entry was produced from.
	Command string `json:"command"`

	// Stdout is the captured standard output of the command.
	Stdout string `json:"stdout"`

	// CreatedAt is when the entry was persisted.
	CreatedAt time.Time `json:"created_at"`
}

// NewEntry creates an entry timestamped now.
func NewEntry(command, stdout string) *Entry {
	return &Entry{
		Command:   command,
		Stdout:    stdout,
		CreatedAt: time.Now(),
	}
}

// Age returns the duration since the entry was created.
func (e *Entry) Age() time.Duration {
	return time.Since(e.CreatedAt)
}

// Expired reports whether the entry is older than ttl. A nil ttl means
// the entry never expires.
func (e *Entry) Expired(ttl *time.Duration) bool {
	if ttl == nil {
		return false
	}
	return e.Age() > *ttl
}
