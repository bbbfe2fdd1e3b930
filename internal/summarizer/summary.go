package summarizer

import (
	"encoding/json"
	"fmt"
)

// Table is one structured table inside a summary.
type Table struct {
	Title string              `json:"title,omitempty"`
	Rows  []map[string]string `json:"rows"`
}

// UnmarshalJSON accepts either "rows" or "data" for the row list; the
// summarization collaborator emits "data" while the persisted shape uses "rows".
func (t *Table) UnmarshalJSON(b []byte) error {
	var aux struct {
		Title string              `json:"title"`
		Rows  []map[string]string `json:"rows"`
		Data  []map[string]string `json:"data"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	t.Title = aux.Title
	t.Rows = aux.Rows
	if t.Rows == nil {
		t.Rows = aux.Data
	}
	if t.Rows == nil {
		t.Rows = []map[string]string{}
	}
	return nil
}

// Summary is the normalized structured summary stored on a completed document.
type Summary struct {
	KeyPoints  []string `json:"keyPoints"`
	Tables     []Table  `json:"tables"`
	Highlights []string `json:"highlights"`
}

// UnmarshalJSON accepts both camelCase and the collaborator's snake_case keys.
func (s *Summary) UnmarshalJSON(b []byte) error {
	var aux struct {
		KeyPoints      []string `json:"keyPoints"`
		KeyPointsSnake []string `json:"key_points"`
		Tables         []Table  `json:"tables"`
		Highlights     []string `json:"highlights"`
	}
	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	s.KeyPoints = aux.KeyPoints
	if s.KeyPoints == nil {
		s.KeyPoints = aux.KeyPointsSnake
	}
	s.Tables = aux.Tables
	s.Highlights = aux.Highlights
	s.fillEmpty()
	return nil
}

func (s *Summary) fillEmpty() {
	if s.KeyPoints == nil {
		s.KeyPoints = []string{}
	}
	if s.Tables == nil {
		s.Tables = []Table{}
	}
	if s.Highlights == nil {
		s.Highlights = []string{}
	}
}

// Result is what one summarization call yields: either a bare text blob or an
// already-structured summary. Exactly one variant is set.
type Result struct {
	Plain      string
	Structured *Summary
}

// UnmarshalJSON decodes the collaborator's summary payload, which may be a
// JSON string or a structured object.
func (r *Result) UnmarshalJSON(b []byte) error {
	var plain string
	if err := json.Unmarshal(b, &plain); err == nil {
		r.Plain = plain
		r.Structured = nil
		return nil
	}

	var structured Summary
	if err := json.Unmarshal(b, &structured); err != nil {
		return fmt.Errorf("summary is neither text nor structured: %w", err)
	}
	r.Structured = &structured
	return nil
}

// Normalize collapses the two result variants into the one structured shape
// the rest of the system handles. A bare string becomes a single key point.
func (r Result) Normalize() Summary {
	if r.Structured != nil {
		out := *r.Structured
		out.fillEmpty()
		return out
	}
	return Summary{
		KeyPoints:  []string{r.Plain},
		Tables:     []Table{},
		Highlights: []string{},
	}
}
