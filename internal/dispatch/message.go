// Package dispatch turns stream events into scheduled scoring cycles and
// fans the composed message out to every registered destination.
package dispatch

import (
	"fmt"
	"strings"
)

// Line is one algorithm's rendered result.
type Line struct {
	AlgorithmID string
	Text        string
	Joke        bool
}

// Message is a composed cycle result, kept line-addressable so destinations
// subscribed to a subset of algorithms get only their lines.
type Message struct {
	Header string
	Lines  []Line
}

// NewMessage builds the day header. Results describe the following game day,
// and displayed day numbers are one-based, hence the offset.
func NewMessage(day int) *Message {
	return &Message{Header: fmt.Sprintf("**Day %d**", day+2)}
}

func (m *Message) Append(algorithmID, text string, joke bool) {
	m.Lines = append(m.Lines, Line{AlgorithmID: algorithmID, Text: text, Joke: joke})
}

// Render assembles the delivery payload for one destination. selected
// filters lines by algorithm ID; nil means every line. Returns "" when no
// line survives the filter, which callers treat as nothing to send.
func (m *Message) Render(selected []string) string {
	var b strings.Builder
	for _, ln := range m.Lines {
		if !lineSelected(ln, selected) {
			continue
		}
		b.WriteString(ln.Text)
		b.WriteByte('\n')
	}
	if b.Len() == 0 {
		return ""
	}
	return m.Header + "\n" + b.String()
}

func lineSelected(ln Line, selected []string) bool {
	if selected == nil {
		return true
	}
	for _, id := range selected {
		if ln.AlgorithmID == id {
			return true
		}
	}
	return false
}
