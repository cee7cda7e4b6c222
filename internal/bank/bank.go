// Package bank holds the immutable question bank loaded once at startup.
package bank

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// NumDomains is the number of CISM content domains.
const NumDomains = 4

// domainNames holds the official CISM domain titles, indexed by domain.
var domainNames = map[int]string{
	1: "Information Security Governance",
	2: "Information Security Risk Management",
	3: "Information Security Program",
	4: "Incident Management",
}

// DomainName returns the display title for a domain, or "Unassigned" for
// domain 0 and anything out of range.
func DomainName(d int) string {
	if name, ok := domainNames[d]; ok {
		return name
	}
	return "Unassigned"
}

// Question is a single multiple-choice item from the bank.
type Question struct {
	// ID is the opaque unique identifier ("number" in the source file).
	ID string

	// Domain is the content domain 1..4, or 0 when the source record
	// carried none.
	Domain int

	// Prompt is the question text.
	Prompt string

	// Options maps a short label ("A".."D") to option text.
	Options map[string]string

	// CorrectLabel is the key in Options holding the correct answer.
	CorrectLabel string

	// Rationale maps option labels to explanatory text. May be missing
	// entries for some labels.
	Rationale map[string]string
}

// OptionLabels returns the option labels in sorted order for stable display.
func (q *Question) OptionLabels() []string {
	labels := make([]string, 0, len(q.Options))
	for l := range q.Options {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	return labels
}

// LoadError indicates the question source was unreachable or malformed.
// While the bank is unloaded the app must refuse to start sessions.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load question bank %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// record mirrors one entry of the extraction pipeline's output.
type record struct {
	Number        string            `json:"number"`
	ID            string            `json:"id"`
	Question      string            `json:"question"`
	Options       map[string]string `json:"options"`
	Answer        string            `json:"answer"`
	Justification map[string]string `json:"justification"`
	Domain        int               `json:"domain"`
}

// Bank is the in-memory question store. Immutable after Load.
type Bank struct {
	questions []Question
	byID      map[string]*Question
}

// Load reads and validates the question bank from a JSON file. The file is
// either a plain array of records or an object with a "questions" field.
func Load(path string) (*Bank, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return Parse(path, data)
}

// Parse builds a Bank from raw JSON bytes. The path is used only for error
// messages.
func Parse(path string, data []byte) (*Bank, error) {
	var records []record
	if err := json.Unmarshal(data, &records); err != nil {
		var wrapper struct {
			Questions []record `json:"questions"`
		}
		if err2 := json.Unmarshal(data, &wrapper); err2 != nil {
			return nil, &LoadError{Path: path, Err: err}
		}
		records = wrapper.Questions
	}

	if len(records) == 0 {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("no questions found")}
	}

	b := &Bank{
		questions: make([]Question, 0, len(records)),
		byID:      make(map[string]*Question, len(records)),
	}
	for i, r := range records {
		q, err := r.toQuestion()
		if err != nil {
			return nil, &LoadError{Path: path, Err: fmt.Errorf("question %d: %w", i+1, err)}
		}
		if _, dup := b.byID[q.ID]; dup {
			return nil, &LoadError{Path: path, Err: fmt.Errorf("duplicate question id %q", q.ID)}
		}
		b.questions = append(b.questions, q)
		b.byID[q.ID] = &b.questions[len(b.questions)-1]
	}

	return b, nil
}

func (r record) toQuestion() (Question, error) {
	id := r.ID
	if id == "" {
		id = r.Number
	}
	if id == "" {
		return Question{}, fmt.Errorf("missing id")
	}
	if r.Question == "" {
		return Question{}, fmt.Errorf("missing question text (id %q)", id)
	}
	if len(r.Options) < 2 {
		return Question{}, fmt.Errorf("need at least two options (id %q)", id)
	}
	if _, ok := r.Options[r.Answer]; !ok {
		return Question{}, fmt.Errorf("answer %q is not an option key (id %q)", r.Answer, id)
	}
	if r.Domain < 0 || r.Domain > NumDomains {
		return Question{}, fmt.Errorf("domain %d out of range (id %q)", r.Domain, id)
	}

	return Question{
		ID:           id,
		Domain:       r.Domain,
		Prompt:       r.Question,
		Options:      r.Options,
		CorrectLabel: r.Answer,
		Rationale:    r.Justification,
	}, nil
}

// All returns every question in load order.
func (b *Bank) All() []Question {
	return b.questions
}

// ByDomain returns the questions belonging to domain d.
func (b *Bank) ByDomain(d int) []Question {
	var out []Question
	for _, q := range b.questions {
		if q.Domain == d {
			out = append(out, q)
		}
	}
	return out
}

// ByID returns the question with the given id, or nil.
func (b *Bank) ByID(id string) *Question {
	return b.byID[id]
}

// Count returns the number of questions in the bank.
func (b *Bank) Count() int {
	return len(b.questions)
}
