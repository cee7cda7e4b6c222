package session

import (
	"time"

	"github.com/google/uuid"

	"github.com/jvance/examdeck/internal/score"
)

// OutcomeRecord is the persisted form of one outcome. Labels are kept so
// past sessions can be reviewed even if the bank file changes.
type OutcomeRecord struct {
	QuestionID   string `json:"question_id"`
	Domain       int    `json:"domain"`
	ChosenLabel  string `json:"chosen_label"`
	CorrectLabel string `json:"correct_label"`
	Correct      bool   `json:"correct"`
}

// Summary is the immutable record of a completed session.
type Summary struct {
	ID             string          `json:"id"`
	Date           time.Time       `json:"date"`
	Mode           Mode            `json:"mode"`
	RawScore       int             `json:"raw_score"`
	Total          int             `json:"total"`
	ElapsedSeconds int             `json:"elapsed_seconds"`
	ScaledScore    int             `json:"scaled_score"`
	Outcomes       []OutcomeRecord `json:"outcomes"`
}

// Summarize derives the Summary for a finished session. Unanswered
// questions never appear in it.
func (e *Engine) Summarize() *Summary {
	raw := 0
	records := make([]OutcomeRecord, 0, len(e.outcomes))
	scored := make([]score.Outcome, 0, len(e.outcomes))
	for _, o := range e.outcomes {
		if o.Correct {
			raw++
		}
		records = append(records, OutcomeRecord{
			QuestionID:   o.Question.ID,
			Domain:       o.Question.Domain,
			ChosenLabel:  o.ChosenLabel,
			CorrectLabel: o.Question.CorrectLabel,
			Correct:      o.Correct,
		})
		scored = append(scored, score.Outcome{Domain: o.Question.Domain, Correct: o.Correct})
	}

	return &Summary{
		ID:             uuid.New().String(),
		Date:           e.startedAt,
		Mode:           e.mode,
		RawScore:       raw,
		Total:          len(e.outcomes),
		ElapsedSeconds: int(e.elapsed.Seconds()),
		ScaledScore:    score.Scale(scored),
		Outcomes:       records,
	}
}

// ScoredOutcomes converts the live outcomes to the scorer's input form.
func (e *Engine) ScoredOutcomes() []score.Outcome {
	out := make([]score.Outcome, 0, len(e.outcomes))
	for _, o := range e.outcomes {
		out = append(out, score.Outcome{Domain: o.Question.Domain, Correct: o.Correct})
	}
	return out
}
