package model

import (
	"context"
	"strings"
)

// TurnMode is the outcome of classifying user input.
type TurnMode int

const (
	TurnPlain TurnMode = iota
	TurnResearch
)

func (m TurnMode) String() string {
	if m == TurnResearch {
		return "research"
	}
	return "plain"
}

// ResearchPrefix marks a research turn.
const ResearchPrefix = "research"

// Classify returns TurnResearch iff input begins with "research", ignoring
// case.
func Classify(input string) TurnMode {
	if len(input) >= len(ResearchPrefix) && strings.EqualFold(input[:len(ResearchPrefix)], ResearchPrefix) {
		return TurnResearch
	}
	return TurnPlain
}

// Artifact is a downloadable report.
type Artifact struct {
	FileName string
	MIMEType string
	Content  string
}

const (
	ReportFileName = "research_report.txt"
	ReportMIMEType = "text/plain"
)

// OfferReport returns the report artifact for a finished turn, or nil. A
// report is offered iff the turn was a research turn and text is non-empty.
func OfferReport(mode TurnMode, text string) *Artifact {
	if mode != TurnResearch || text == "" {
		return nil
	}
	return &Artifact{
		FileName: ReportFileName,
		MIMEType: ReportMIMEType,
		Content:  text,
	}
}

// TurnOutcome describes a completed turn.
type TurnOutcome struct {
	Mode   TurnMode
	Text   string
	Report *Artifact

	// Research turns only.
	Rounds int
	Forced bool
}

// TurnHandler processes one user turn against a session.
type TurnHandler interface {
	HandleTurn(ctx context.Context, session *Session, input string) (*TurnOutcome, error)
}
