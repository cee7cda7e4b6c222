// Package session implements the state machine driving one run through a
// set of selected questions.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/jvance/examdeck/internal/bank"
	"github.com/jvance/examdeck/internal/sampler"
)

// Phase is the coarse lifecycle state of a session.
type Phase int

const (
	PhaseNotStarted Phase = iota
	PhaseInProgress
	PhaseFinished
)

// Outcome records one answered question, in answer order.
type Outcome struct {
	Question    bank.Question
	ChosenLabel string
	Correct     bool
}

// Exposure is the view-count dependency the engine needs: read counts for
// sampling, record a view per answered question.
type Exposure interface {
	Counts(ctx context.Context) map[string]int
	RecordView(ctx context.Context, id string) error
}

// Engine owns all per-session bookkeeping. It is single-threaded: every
// transition is a synchronous reaction to one external event (a key press
// or a clock tick) and runs to completion before the next.
type Engine struct {
	mode      Mode
	questions []bank.Question
	cursor    int
	selected  string
	confirmed bool
	recorded  map[int]bool
	outcomes  []Outcome
	startedAt time.Time
	deadline  time.Time
	elapsed   time.Duration
	phase     Phase

	smp      *sampler.Sampler
	exposure Exposure
}

// New creates an engine in the NotStarted phase.
func New(smp *sampler.Sampler, exp Exposure) *Engine {
	return &Engine{smp: smp, exposure: exp}
}

// ErrEmptySelection is returned by Start when sampling yields no questions
// (for example a domain filter matching nothing).
var ErrEmptySelection = errors.New("no questions match the session configuration")

// Start samples the question set and transitions to InProgress. The
// deadline is fixed at 4 hours for exam mode, startedAt+TimerMinutes for a
// timed practice/quiz, and unset otherwise.
func (e *Engine) Start(ctx context.Context, cfg Config, now time.Time) error {
	views := e.exposure.Counts(ctx)

	var questions []bank.Question
	if cfg.Mode == ModeExam {
		questions = e.smp.SampleExam(views)
	} else {
		questions = e.smp.Sample(cfg.Count, cfg.Domains, views)
	}
	if len(questions) == 0 {
		return ErrEmptySelection
	}

	e.mode = cfg.Mode
	e.questions = questions
	e.cursor = 0
	e.selected = ""
	e.confirmed = false
	e.recorded = make(map[int]bool)
	e.outcomes = nil
	e.startedAt = now
	e.phase = PhaseInProgress

	switch {
	case cfg.Mode == ModeExam:
		e.deadline = now.Add(ExamDuration)
	case cfg.TimerEnabled && cfg.TimerMinutes > 0:
		e.deadline = now.Add(time.Duration(cfg.TimerMinutes) * time.Minute)
	default:
		e.deadline = time.Time{}
	}

	return nil
}

// Select picks a label for the current question. Re-selection is allowed
// until the answer is locked: by Confirm in practice mode, by Next
// otherwise. A no-op after confirmation or outside InProgress.
func (e *Engine) Select(label string) bool {
	if e.phase != PhaseInProgress || e.confirmed {
		return false
	}
	if _, ok := e.Current().Options[label]; !ok {
		return false
	}
	e.selected = label
	return true
}

// Confirm locks in the current selection and records its outcome. Practice
// mode only; the cursor does not move so the rationale can be shown.
// A no-op without a selection or when already confirmed.
func (e *Engine) Confirm(ctx context.Context) bool {
	if e.phase != PhaseInProgress || e.mode != ModePractice {
		return false
	}
	if e.selected == "" || e.confirmed {
		return false
	}
	e.recordOutcome(ctx)
	e.confirmed = true
	return true
}

// Next advances to the following question, recording the outcome first in
// quiz/exam mode. In practice mode it requires a prior Confirm. Advancing
// past the last question finishes the session.
func (e *Engine) Next(ctx context.Context, now time.Time) bool {
	if e.phase != PhaseInProgress {
		return false
	}

	if e.mode == ModePractice {
		if !e.confirmed {
			return false
		}
	} else {
		if e.selected == "" {
			return false
		}
		e.recordOutcome(ctx)
	}

	if e.cursor == len(e.questions)-1 {
		e.finish(now)
		return true
	}

	e.cursor++
	e.selected = ""
	e.confirmed = false
	return true
}

// FinishEarly ends the session with whatever outcomes exist so far.
// Unanswered questions are excluded from scoring, not counted wrong. Safe
// to call repeatedly; only the first call transitions.
func (e *Engine) FinishEarly(now time.Time) bool {
	if e.phase != PhaseInProgress {
		return false
	}
	e.finish(now)
	return true
}

func (e *Engine) finish(now time.Time) {
	e.phase = PhaseFinished
	e.selected = ""
	e.confirmed = false
	elapsed := now.Sub(e.startedAt)
	if elapsed < 0 {
		elapsed = 0
	}
	e.elapsed = elapsed
}

// recordOutcome appends the outcome for the current cursor position and
// bumps its exposure counter. Recording is idempotent per cursor within
// one run. A correct label missing from the options map (an invalid bank
// record) is treated as never correct.
func (e *Engine) recordOutcome(ctx context.Context) {
	if e.recorded[e.cursor] {
		return
	}
	q := e.Current()
	_, labelValid := q.Options[q.CorrectLabel]
	e.outcomes = append(e.outcomes, Outcome{
		Question:    *q,
		ChosenLabel: e.selected,
		Correct:     labelValid && e.selected == q.CorrectLabel,
	})
	e.recorded[e.cursor] = true
	_ = e.exposure.RecordView(ctx, q.ID)
}

// Current returns the question at the cursor, or nil outside InProgress.
func (e *Engine) Current() *bank.Question {
	if e.phase != PhaseInProgress || e.cursor >= len(e.questions) {
		return nil
	}
	return &e.questions[e.cursor]
}

// Phase returns the lifecycle phase.
func (e *Engine) Phase() Phase { return e.phase }

// Mode returns the session mode.
func (e *Engine) Mode() Mode { return e.mode }

// Cursor returns the zero-based index of the current question.
func (e *Engine) Cursor() int { return e.cursor }

// Len returns the number of questions in the session.
func (e *Engine) Len() int { return len(e.questions) }

// Selected returns the label currently chosen, or "".
func (e *Engine) Selected() string { return e.selected }

// Confirmed reports whether the current answer is locked in.
func (e *Engine) Confirmed() bool { return e.confirmed }

// Outcomes returns the outcomes recorded so far, in answer order.
func (e *Engine) Outcomes() []Outcome { return e.outcomes }

// Timed reports whether a deadline is set.
func (e *Engine) Timed() bool { return !e.deadline.IsZero() }

// Remaining derives the time left from the deadline, never from a
// decremented counter, so it stays correct across suspensions. Zero when
// no deadline is set or the deadline has passed.
func (e *Engine) Remaining(now time.Time) time.Duration {
	if e.deadline.IsZero() {
		return 0
	}
	d := e.deadline.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}

// Expired reports whether the deadline has passed while InProgress. The
// caller's clock tick must respond by calling FinishEarly exactly once.
func (e *Engine) Expired(now time.Time) bool {
	return e.phase == PhaseInProgress && !e.deadline.IsZero() && !now.Before(e.deadline)
}

// Elapsed returns the time from start to finish (or zero before finish).
func (e *Engine) Elapsed() time.Duration { return e.elapsed }
