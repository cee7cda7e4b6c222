package extract

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jvance/examdeck/internal/llm"
)

const pageOne = `[{"number": "1", "question": "Which control mitigates tailgating?", "options": {"A": "Mantrap", "B": "Firewall", "C": "DLP", "D": "SIEM"}, "answer": "A", "justification": {"A": "Physical access control."}, "domain": 2}]`

const pageTwo = `[{"number": "2", "question": "Who owns residual risk?", "options": {"A": "Auditor", "B": "Senior management", "C": "ISO", "D": "Vendor"}, "answer": "B"}]`

func writePages(t *testing.T, names ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("png"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func newExtractor(t *testing.T, provider llm.Provider, pagesDir string) (*Extractor, string) {
	t.Helper()
	out := filepath.Join(t.TempDir(), "questions.json")
	ex := New(provider, Config{
		PagesDir:   pagesDir,
		OutputPath: out,
		PageDelay:  time.Millisecond,
	}, io.Discard)
	return ex, out
}

func readQuestions(t *testing.T, path string) []map[string]any {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var questions []map[string]any
	if err := json.Unmarshal(data, &questions); err != nil {
		t.Fatalf("output is not a question array: %v", err)
	}
	return questions
}

func TestRunAccumulatesAcrossPages(t *testing.T) {
	dir := writePages(t, "page_001.png", "page_002.png")
	provider := llm.NewMockProvider(
		llm.MockResponse{Content: json.RawMessage(pageOne)},
		llm.MockResponse{Content: json.RawMessage(pageTwo)},
	)
	ex, out := newExtractor(t, provider, dir)

	if err := ex.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	questions := readQuestions(t, out)
	if len(questions) != 2 {
		t.Fatalf("extracted %d questions, want 2", len(questions))
	}
	if questions[0]["answer"] != "A" || questions[1]["answer"] != "B" {
		t.Errorf("answers = %v, %v, want A, B", questions[0]["answer"], questions[1]["answer"])
	}
	if provider.CallCount() != 2 {
		t.Errorf("CallCount() = %d, want 2", provider.CallCount())
	}
}

func TestRunSendsImageWithPrompt(t *testing.T) {
	dir := writePages(t, "page_001.png")
	provider := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage("[]")})
	ex, _ := newExtractor(t, provider, dir)

	if err := ex.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	req := provider.Calls[0]
	if len(req.Messages) != 1 {
		t.Fatalf("got %d messages, want 1", len(req.Messages))
	}
	msg := req.Messages[0]
	if msg.Role != llm.RoleUser {
		t.Errorf("role = %q, want user", msg.Role)
	}
	if len(msg.Images) != 1 || string(msg.Images[0]) != "png" {
		t.Errorf("message did not carry the page image")
	}
	if msg.Content == "" {
		t.Error("message has no prompt text")
	}
}

func TestRunStripsMarkdownFences(t *testing.T) {
	dir := writePages(t, "page_001.png")
	fenced := "```json\n" + pageOne + "\n```"
	provider := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(fenced)})
	ex, out := newExtractor(t, provider, dir)

	if err := ex.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got := len(readQuestions(t, out)); got != 1 {
		t.Errorf("extracted %d questions, want 1", got)
	}
}

func TestRunSkipsFailedPages(t *testing.T) {
	dir := writePages(t, "page_001.png", "page_002.png")
	provider := llm.NewMockProvider(
		llm.MockResponse{Err: &llm.ErrProviderUnavailable{}},
		llm.MockResponse{Content: json.RawMessage(pageTwo)},
	)
	ex, out := newExtractor(t, provider, dir)

	if err := ex.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	questions := readQuestions(t, out)
	if len(questions) != 1 {
		t.Fatalf("extracted %d questions, want 1", len(questions))
	}
	if questions[0]["answer"] != "B" {
		t.Errorf("kept question answer = %v, want B", questions[0]["answer"])
	}
}

func TestRunRejectsInvalidPageOutput(t *testing.T) {
	dir := writePages(t, "page_001.png")
	// answer missing, schema requires it
	bad := `[{"number": "1", "question": "q", "options": {"A": "a", "B": "b"}}]`
	provider := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(bad)})
	ex, out := newExtractor(t, provider, dir)

	if err := ex.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got := len(readQuestions(t, out)); got != 0 {
		t.Errorf("extracted %d questions from invalid output, want 0", got)
	}
}

func TestRunResumesFromCheckpoint(t *testing.T) {
	dir := writePages(t, "page_001.png", "page_002.png")

	provider := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(pageOne)})
	out := filepath.Join(t.TempDir(), "questions.json")
	cfg := Config{PagesDir: dir, OutputPath: out, PageDelay: time.Millisecond}

	// Simulate an interrupted run: process page 1 by hand and write its
	// checkpoint.
	ex := New(provider, cfg, io.Discard)
	cp := ex.loadCheckpoint()
	qs, err := ex.extractPage(context.Background(), filepath.Join(dir, "page_001.png"))
	if err != nil {
		t.Fatal(err)
	}
	cp.Questions = append(cp.Questions, qs...)
	cp.LastPage = 1
	if err := ex.saveCheckpoint(cp); err != nil {
		t.Fatal(err)
	}

	// Second run resumes and only needs the second page.
	provider2 := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(pageTwo)})
	ex2 := New(provider2, cfg, io.Discard)
	if err := ex2.Run(context.Background()); err != nil {
		t.Fatalf("resumed Run() error = %v", err)
	}

	if provider2.CallCount() != 1 {
		t.Errorf("resumed run made %d calls, want 1", provider2.CallCount())
	}
	if got := len(readQuestions(t, out)); got != 2 {
		t.Errorf("extracted %d questions total, want 2", got)
	}
}

func TestStripFences(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare", `[1]`, `[1]`},
		{"json fence", "```json\n[1]\n```", `[1]`},
		{"plain fence", "```\n[1]\n```", `[1]`},
		{"leading prose", "Here you go:\n```json\n[1]\n```", `[1]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stripFences(tt.in); got != tt.want {
				t.Errorf("stripFences(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
