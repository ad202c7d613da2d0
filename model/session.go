package model

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"rtui/config"
)

// Greeting is shown at the top of every transcript.
const Greeting = "I'm ready! Ask away!"

// HistoryStore persists the conversation log.
type HistoryStore interface {
	Append(ctx context.Context, msg Message) (Message, error)
	Messages(ctx context.Context) ([]Message, error)
	Clear(ctx context.Context) error
}

// Session is the presentation and history sink for one conversation. The
// displayed transcript holds every presented entry; the history holds only
// user and assistant messages and mirrors the store.
type Session struct {
	mu         sync.RWMutex
	store      HistoryStore
	history    []Message
	transcript []Entry
	updates    chan struct{}
}

// NewSession loads the persisted history and replays it into the transcript.
// A nil store keeps history in memory only.
func NewSession(ctx context.Context, store HistoryStore) (*Session, error) {
	s := &Session{
		store:   store,
		updates: make(chan struct{}, 1),
	}

	if store != nil {
		msgs, err := store.Messages(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load history: %w", err)
		}
		s.history = msgs
	}
	s.resetTranscript()

	if config.DebugLog != nil {
		config.DebugLog.Printf("[Session] Loaded %d messages", len(s.history))
	}
	return s, nil
}

func (s *Session) resetTranscript() {
	s.transcript = make([]Entry, 0, len(s.history)+1)
	s.transcript = append(s.transcript, Entry{Role: RoleSystem, Content: Greeting, Note: NoteInfo})
	for _, m := range s.history {
		s.transcript = append(s.transcript, Entry{Role: m.Role, Content: m.Content, Timestamp: m.Timestamp})
	}
}

// Present renders text tagged with role. User and assistant messages are also
// appended to the history; if persisting fails nothing is shown.
func (s *Session) Present(ctx context.Context, role Role, text string) error {
	if !role.Valid() {
		return fmt.Errorf("invalid role %q", role)
	}

	now := time.Now()
	s.mu.Lock()
	if role.Persisted() {
		msg := Message{Role: role, Content: text, Timestamp: now}
		if s.store != nil {
			stored, err := s.store.Append(ctx, msg)
			if err != nil {
				s.mu.Unlock()
				return fmt.Errorf("failed to persist %s message: %w", role, err)
			}
			msg = stored
		}
		s.history = append(s.history, msg)
	}
	s.transcript = append(s.transcript, Entry{Role: role, Content: text, Timestamp: now})
	s.mu.Unlock()

	s.notify()
	return nil
}

// Note shows a display-only system entry.
func (s *Session) Note(kind NoteKind, text string) {
	s.mu.Lock()
	s.transcript = append(s.transcript, Entry{Role: RoleSystem, Content: text, Note: kind, Timestamp: time.Now()})
	s.mu.Unlock()
	s.notify()
}

// Clear empties the history and the transcript. Clearing an empty session is
// not an error.
func (s *Session) Clear(ctx context.Context) error {
	s.mu.Lock()
	if s.store != nil {
		if err := s.store.Clear(ctx); err != nil {
			s.mu.Unlock()
			return fmt.Errorf("failed to clear history: %w", err)
		}
	}
	s.history = nil
	s.resetTranscript()
	s.mu.Unlock()

	if config.DebugLog != nil {
		config.DebugLog.Printf("[Session] History cleared")
	}
	s.notify()
	return nil
}

// Close releases the history store if it holds resources.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.store.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// History returns a copy of the persisted messages.
func (s *Session) History() []Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Message, len(s.history))
	copy(out, s.history)
	return out
}

// Transcript returns a copy of the displayed entries.
func (s *Session) Transcript() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Entry, len(s.transcript))
	copy(out, s.transcript)
	return out
}

// Updates signals after every change. Signals coalesce; readers should
// re-read Transcript on each receive.
func (s *Session) Updates() <-chan struct{} {
	return s.updates
}

func (s *Session) notify() {
	select {
	case s.updates <- struct{}{}:
	default:
	}
}
