package session

import "time"

// Mode selects the session variant. Practice reveals correctness and
// rationale after each confirmed answer; quiz and exam defer all feedback
// to the results screen. Exam additionally uses the fixed per-domain
// allocation and a fixed 4-hour deadline.
type Mode string

const (
	ModePractice Mode = "practice"
	ModeQuiz     Mode = "quiz"
	ModeExam     Mode = "exam"
)

// ExamDuration is the fixed time limit for a simulated exam; it overrides
// any timer configuration.
const ExamDuration = 4 * time.Hour

// Config describes a session to start. Exam mode ignores Count and
// Domains.
type Config struct {
	// Count is the number of questions to draw.
	Count int

	// Domains filters the pool to these domains. Empty means all.
	Domains map[int]bool

	Mode Mode

	// TimerEnabled turns on the countdown for practice and quiz modes.
	TimerEnabled bool

	// TimerMinutes is the countdown length when TimerEnabled.
	TimerMinutes int
}

// DefaultCount is the setup screen's initial question count.
const DefaultCount = 20
