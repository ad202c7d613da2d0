package model

import "time"

// Role tags a conversation entry.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAssistant || r == RoleSystem
}

// Persisted reports whether messages with this role enter the history log.
func (r Role) Persisted() bool {
	return r == RoleUser || r == RoleAssistant
}

// Message is one entry of the persisted conversation history.
type Message struct {
	ID        string
	Role      Role
	Content   string
	Timestamp time.Time
}

// NoteKind distinguishes display-only system entries.
type NoteKind int

const (
	NoteNone NoteKind = iota
	NoteInfo
	NoteTrace
	NoteError
)

// Entry is one line of the displayed transcript. Entries with a Note are
// rendered but never persisted.
type Entry struct {
	Role      Role
	Content   string
	Note      NoteKind
	Timestamp time.Time
}
