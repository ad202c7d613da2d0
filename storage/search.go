package storage

import (
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/sahilm/fuzzy"

	"rtui/model"
)

const previewWidth = 100

// MessageMatch represents a search result within the history
type MessageMatch struct {
	MessageIndex int
	Role         model.Role
	Content      string
	Preview      string
	Timestamp    time.Time
	Score        int
}

// messageSource adapts the history to fuzzy.Source.
type messageSource []model.Message

func (s messageSource) String(i int) string { return s[i].Content }
func (s messageSource) Len() int            { return len(s) }

// SearchMessages fuzzy-matches query against the history, best match first.
// Case is ignored.
func SearchMessages(messages []model.Message, query string) []MessageMatch {
	query = strings.TrimSpace(query)
	if query == "" {
		return []MessageMatch{}
	}

	results := fuzzy.FindFrom(strings.ToLower(query), lowered(messages))
	matches := make([]MessageMatch, 0, len(results))
	for _, r := range results {
		msg := messages[r.Index]
		matches = append(matches, MessageMatch{
			MessageIndex: r.Index,
			Role:         msg.Role,
			Content:      msg.Content,
			Preview:      Preview(msg.Content),
			Timestamp:    msg.Timestamp,
			Score:        r.Score,
		})
	}
	return matches
}

func lowered(messages []model.Message) messageSource {
	out := make(messageSource, len(messages))
	for i, m := range messages {
		out[i] = model.Message{Role: m.Role, Content: strings.ToLower(m.Content)}
	}
	return out
}

// Preview flattens text to one line of at most previewWidth cells.
func Preview(text string) string {
	return runewidth.Truncate(strings.Join(strings.Fields(text), " "), previewWidth, "...")
}
