package session

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/jvance/examdeck/internal/bank"
	"github.com/jvance/examdeck/internal/sampler"
	"github.com/jvance/examdeck/internal/score"
)

// mockExposure implements Exposure without persistence.
type mockExposure struct {
	counts map[string]int
	views  []string
}

func newMockExposure() *mockExposure {
	return &mockExposure{counts: make(map[string]int)}
}

func (m *mockExposure) Counts(_ context.Context) map[string]int {
	return m.counts
}

func (m *mockExposure) RecordView(_ context.Context, id string) error {
	m.counts[id]++
	m.views = append(m.views, id)
	return nil
}

func testBank(t *testing.T, n int) *bank.Bank {
	t.Helper()
	var records []map[string]any
	for i := range n {
		records = append(records, map[string]any{
			"number":   fmt.Sprintf("q%d", i+1),
			"question": fmt.Sprintf("Question %d?", i+1),
			"options":  map[string]string{"A": "a", "B": "b", "C": "c", "D": "d"},
			"answer":   "A",
			"domain":   i%4 + 1,
		})
	}
	data, err := json.Marshal(records)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	b, err := bank.Parse("test.json", data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return b
}

func newTestEngine(t *testing.T, n int) (*Engine, *mockExposure) {
	t.Helper()
	exp := newMockExposure()
	smp := sampler.New(testBank(t, n), rand.New(rand.NewPCG(7, 11)))
	return New(smp, exp), exp
}

func start(t *testing.T, e *Engine, cfg Config) time.Time {
	t.Helper()
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	if err := e.Start(context.Background(), cfg, now); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return now
}

func TestStart_EmptySelection(t *testing.T) {
	e, _ := newTestEngine(t, 8)
	err := e.Start(context.Background(), Config{Count: 5, Mode: ModeQuiz, Domains: map[int]bool{99: true}}, time.Now())
	if err != ErrEmptySelection {
		t.Errorf("Start = %v, want ErrEmptySelection", err)
	}
	if e.Phase() != PhaseNotStarted {
		t.Errorf("Phase = %v, want NotStarted", e.Phase())
	}
}

func TestQuizFlow_SelectNext(t *testing.T) {
	e, exp := newTestEngine(t, 4)
	start(t, e, Config{Count: 4, Mode: ModeQuiz})
	ctx := context.Background()
	now := time.Now()

	if e.Phase() != PhaseInProgress {
		t.Fatalf("Phase = %v, want InProgress", e.Phase())
	}

	// Next without a selection is a no-op.
	if e.Next(ctx, now) {
		t.Error("Next with no selection succeeded")
	}

	for i := range 4 {
		q := e.Current()
		if q == nil {
			t.Fatalf("Current = nil at cursor %d", i)
		}
		if !e.Select(q.CorrectLabel) {
			t.Fatalf("Select failed at cursor %d", i)
		}
		if !e.Next(ctx, now) {
			t.Fatalf("Next failed at cursor %d", i)
		}
	}

	if e.Phase() != PhaseFinished {
		t.Errorf("Phase = %v, want Finished", e.Phase())
	}
	if len(e.Outcomes()) != 4 {
		t.Errorf("outcomes = %d, want 4", len(e.Outcomes()))
	}
	if len(exp.views) != 4 {
		t.Errorf("recorded views = %d, want 4", len(exp.views))
	}
}

func TestOutcomes_DistinctAndFromSelection(t *testing.T) {
	e, _ := newTestEngine(t, 12)
	start(t, e, Config{Count: 6, Mode: ModeQuiz})
	ctx := context.Background()
	now := time.Now()

	for e.Phase() == PhaseInProgress {
		e.Select("B")
		e.Next(ctx, now)
	}

	outcomes := e.Outcomes()
	if len(outcomes) > e.Len() {
		t.Errorf("outcomes %d > questions %d", len(outcomes), e.Len())
	}
	seen := make(map[string]bool)
	for _, o := range outcomes {
		if seen[o.Question.ID] {
			t.Errorf("question %s recorded twice", o.Question.ID)
		}
		seen[o.Question.ID] = true
	}
}

func TestPractice_ConfirmThenNext(t *testing.T) {
	e, exp := newTestEngine(t, 4)
	start(t, e, Config{Count: 4, Mode: ModePractice})
	ctx := context.Background()
	now := time.Now()

	// Next before confirm is a no-op in practice mode.
	e.Select("A")
	if e.Next(ctx, now) {
		t.Error("Next before Confirm succeeded in practice mode")
	}

	// Confirm without selection is a no-op.
	e2, _ := newTestEngine(t, 4)
	start(t, e2, Config{Count: 4, Mode: ModePractice})
	if e2.Confirm(ctx) {
		t.Error("Confirm with no selection succeeded")
	}

	if !e.Confirm(ctx) {
		t.Fatal("Confirm failed")
	}
	if len(e.Outcomes()) != 1 {
		t.Fatalf("outcomes after Confirm = %d, want 1", len(e.Outcomes()))
	}

	// A second Confirm must not append a second outcome.
	if e.Confirm(ctx) {
		t.Error("second Confirm succeeded")
	}
	if len(e.Outcomes()) != 1 {
		t.Errorf("outcomes after double Confirm = %d, want 1", len(e.Outcomes()))
	}
	if len(exp.views) != 1 {
		t.Errorf("views after double Confirm = %d, want 1", len(exp.views))
	}

	// Selection is locked once confirmed.
	if e.Select("B") {
		t.Error("Select after Confirm succeeded")
	}

	cursor := e.Cursor()
	if !e.Next(ctx, now) {
		t.Fatal("Next after Confirm failed")
	}
	if e.Cursor() != cursor+1 {
		t.Errorf("cursor = %d, want %d", e.Cursor(), cursor+1)
	}
	if e.Selected() != "" || e.Confirmed() {
		t.Error("selection state not reset after advance")
	}
	// Next did not record a second outcome for the confirmed question.
	if len(e.Outcomes()) != 1 {
		t.Errorf("outcomes after advance = %d, want 1", len(e.Outcomes()))
	}
}

func TestReselectBeforeLock(t *testing.T) {
	e, _ := newTestEngine(t, 4)
	start(t, e, Config{Count: 4, Mode: ModeQuiz})

	e.Select("A")
	if !e.Select("C") {
		t.Error("re-selection before advance failed")
	}
	if e.Selected() != "C" {
		t.Errorf("Selected = %q, want C", e.Selected())
	}
	if e.Select("Z") {
		t.Error("Select with unknown label succeeded")
	}
}

func TestTimer_QuizDeadline(t *testing.T) {
	e, _ := newTestEngine(t, 10)
	started := start(t, e, Config{Count: 10, Mode: ModeQuiz, TimerEnabled: true, TimerMinutes: 1})
	ctx := context.Background()

	// Answer two questions in the first half minute.
	for range 2 {
		e.Select(e.Current().CorrectLabel)
		e.Next(ctx, started.Add(20*time.Second))
	}

	at61 := started.Add(61 * time.Second)
	if !e.Expired(at61) {
		t.Fatal("Expired(start+61s) = false, want true")
	}
	if !e.FinishEarly(at61) {
		t.Fatal("FinishEarly failed")
	}
	if e.Phase() != PhaseFinished {
		t.Errorf("Phase = %v, want Finished", e.Phase())
	}
	if len(e.Outcomes()) != 2 {
		t.Errorf("outcomes = %d, want 2 (no fabricated outcomes)", len(e.Outcomes()))
	}

	// A stray second tick must not re-fire.
	if e.FinishEarly(at61.Add(time.Second)) {
		t.Error("FinishEarly fired twice")
	}
	if e.Expired(at61) {
		t.Error("Expired still true after Finished")
	}
}

func TestTimer_RemainingDerivedFromDeadline(t *testing.T) {
	e, _ := newTestEngine(t, 4)
	started := start(t, e, Config{Count: 4, Mode: ModeQuiz, TimerEnabled: true, TimerMinutes: 10})

	if got := e.Remaining(started.Add(4 * time.Minute)); got != 6*time.Minute {
		t.Errorf("Remaining = %v, want 6m", got)
	}
	if got := e.Remaining(started.Add(11 * time.Minute)); got != 0 {
		t.Errorf("Remaining past deadline = %v, want 0", got)
	}
}

func TestTimer_UntimedSession(t *testing.T) {
	e, _ := newTestEngine(t, 4)
	started := start(t, e, Config{Count: 4, Mode: ModePractice})

	if e.Timed() {
		t.Error("Timed = true for untimed practice")
	}
	if e.Expired(started.Add(100 * time.Hour)) {
		t.Error("untimed session expired")
	}
}

func TestExam_FixedDeadline(t *testing.T) {
	e, _ := newTestEngine(t, 200)
	// Timer config must be overridden by the fixed 4-hour exam deadline.
	started := start(t, e, Config{Mode: ModeExam, TimerEnabled: true, TimerMinutes: 1})

	if e.Expired(started.Add(2 * time.Minute)) {
		t.Error("exam expired by timer config; the 4h deadline should win")
	}
	if !e.Expired(started.Add(4*time.Hour + time.Second)) {
		t.Error("exam not expired after 4h")
	}
	if got := e.Remaining(started); got != ExamDuration {
		t.Errorf("Remaining at start = %v, want %v", got, ExamDuration)
	}
}

func TestExam_UsesFixedAllocation(t *testing.T) {
	e, _ := newTestEngine(t, 600)
	start(t, e, Config{Mode: ModeExam, Count: 3}) // Count must be ignored

	if e.Len() != sampler.ExamTotal {
		t.Errorf("exam length = %d, want %d", e.Len(), sampler.ExamTotal)
	}
}

func TestInvalidCorrectLabel_NeverCorrect(t *testing.T) {
	// Build the engine, then corrupt the in-flight question to simulate
	// a bank record whose answer key escaped validation.
	e, _ := newTestEngine(t, 4)
	start(t, e, Config{Count: 1, Mode: ModeQuiz})
	ctx := context.Background()

	q := e.Current()
	q.CorrectLabel = "Z"
	e.Select("A")
	e.Next(ctx, time.Now())

	if e.Outcomes()[0].Correct {
		t.Error("outcome correct despite invalid correct label")
	}
}

func TestSummarize(t *testing.T) {
	e, _ := newTestEngine(t, 8)
	started := start(t, e, Config{Count: 8, Mode: ModeQuiz})
	ctx := context.Background()

	// Four correct, then finish early with four unanswered.
	for range 4 {
		e.Select(e.Current().CorrectLabel)
		e.Next(ctx, started.Add(90*time.Second))
	}
	e.FinishEarly(started.Add(90 * time.Second))

	sum := e.Summarize()
	if sum.RawScore != 4 {
		t.Errorf("RawScore = %d, want 4", sum.RawScore)
	}
	if sum.Total != 4 {
		t.Errorf("Total = %d, want 4 (unanswered excluded)", sum.Total)
	}
	if sum.ElapsedSeconds != 90 {
		t.Errorf("ElapsedSeconds = %d, want 90", sum.ElapsedSeconds)
	}
	if sum.ScaledScore != score.Ceiling {
		t.Errorf("ScaledScore = %d, want %d", sum.ScaledScore, score.Ceiling)
	}
	if sum.ID == "" {
		t.Error("summary ID empty")
	}
	if sum.Mode != ModeQuiz {
		t.Errorf("Mode = %q, want quiz", sum.Mode)
	}
	if len(sum.Outcomes) != 4 {
		t.Fatalf("outcome records = %d, want 4", len(sum.Outcomes))
	}
	for _, o := range sum.Outcomes {
		if o.ChosenLabel != o.CorrectLabel || !o.Correct {
			t.Errorf("outcome %s = %+v, want correct", o.QuestionID, o)
		}
	}
}
