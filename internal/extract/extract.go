// Package extract implements the offline question-bank extraction
// pipeline: a human-supervised batch job that turns pre-rendered exam
// page images into the bank's questions.json via a vision model.
package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jvance/examdeck/internal/llm"
)

// Config controls one extraction run.
type Config struct {
	// PagesDir holds the page images (PNG), processed in filename order.
	PagesDir string

	// OutputPath is where the final questions.json is written. The
	// checkpoint lives next to it at OutputPath + ".checkpoint".
	OutputPath string

	// StartPage is the 1-based first page to process. Ignored when a
	// checkpoint exists.
	StartPage int

	// PageDelay is the pause between model calls. Default 1s.
	PageDelay time.Duration

	// MaxTokens per page response. Default 8192.
	MaxTokens int
}

// checkpoint is the resumable run state, rewritten after every page so an
// interrupted run picks up where it stopped.
type checkpoint struct {
	LastPage  int               `json:"last_page"`
	Questions []json.RawMessage `json:"questions"`
}

// Extractor runs the pipeline against a Provider.
type Extractor struct {
	provider llm.Provider
	cfg      Config
	log      io.Writer
}

// New creates an Extractor. log receives per-page progress lines; pass
// io.Discard to silence it.
func New(provider llm.Provider, cfg Config, log io.Writer) *Extractor {
	if cfg.StartPage < 1 {
		cfg.StartPage = 1
	}
	if cfg.PageDelay == 0 {
		cfg.PageDelay = time.Second
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 8192
	}
	if log == nil {
		log = io.Discard
	}
	return &Extractor{provider: provider, cfg: cfg, log: log}
}

// Run processes every page image and writes the final question array.
// Pages that yield no questions (or fail after retries) are skipped, not
// fatal: the output of this job is reviewed by a human before use.
func (e *Extractor) Run(ctx context.Context) error {
	pages, err := listPages(e.cfg.PagesDir)
	if err != nil {
		return err
	}
	if len(pages) == 0 {
		return fmt.Errorf("no page images in %s", e.cfg.PagesDir)
	}

	cp := e.loadCheckpoint()

	for i := cp.LastPage; i < len(pages); i++ {
		pageNum := i + 1
		fmt.Fprintf(e.log, "Processing page %d/%d...\n", pageNum, len(pages))

		questions, err := e.extractPage(ctx, pages[i])
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			fmt.Fprintf(e.log, "  page %d failed: %v\n", pageNum, err)
		} else if len(questions) > 0 {
			fmt.Fprintf(e.log, "  found %d questions\n", len(questions))
			cp.Questions = append(cp.Questions, questions...)
		} else {
			fmt.Fprintf(e.log, "  no questions on page %d\n", pageNum)
		}

		cp.LastPage = i + 1
		if err := e.saveCheckpoint(cp); err != nil {
			return err
		}

		if i < len(pages)-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(e.cfg.PageDelay):
			}
		}
	}

	if err := e.writeOutput(cp.Questions); err != nil {
		return err
	}
	fmt.Fprintf(e.log, "Finished. Total questions extracted: %d\n", len(cp.Questions))
	return nil
}

// extractPage sends one page image to the model and returns its question
// records.
func (e *Extractor) extractPage(ctx context.Context, path string) ([]json.RawMessage, error) {
	img, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read page image: %w", err)
	}

	resp, err := e.provider.Generate(ctx, llm.Request{
		Messages: []llm.Message{{
			Role:    llm.RoleUser,
			Content: pagePrompt,
			Images:  [][]byte{img},
		}},
		MaxTokens: e.cfg.MaxTokens,
	})
	if err != nil {
		return nil, err
	}

	raw := stripFences(string(resp.Content))
	if err := llm.Validate(pageSchema(), json.RawMessage(raw)); err != nil {
		return nil, err
	}

	var questions []json.RawMessage
	if err := json.Unmarshal([]byte(raw), &questions); err != nil {
		return nil, fmt.Errorf("parse page output: %w", err)
	}
	return questions, nil
}

// stripFences removes a markdown code fence around the model output, if
// present.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.Index(s, "```json"); idx >= 0 {
		s = s[idx+len("```json"):]
	} else if strings.HasPrefix(s, "```") {
		s = s[3:]
	} else {
		return s
	}
	if end := strings.Index(s, "```"); end >= 0 {
		s = s[:end]
	}
	return strings.TrimSpace(s)
}

// listPages returns the PNG files in dir, sorted by name.
func listPages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read pages dir: %w", err)
	}
	var pages []string
	for _, ent := range entries {
		if ent.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(ent.Name()), ".png") {
			pages = append(pages, filepath.Join(dir, ent.Name()))
		}
	}
	sort.Strings(pages)
	return pages, nil
}

func (e *Extractor) checkpointPath() string {
	return e.cfg.OutputPath + ".checkpoint"
}

// loadCheckpoint restores a prior run, or starts fresh from StartPage.
// A corrupt checkpoint starts fresh rather than failing.
func (e *Extractor) loadCheckpoint() *checkpoint {
	fresh := &checkpoint{LastPage: e.cfg.StartPage - 1}

	data, err := os.ReadFile(e.checkpointPath())
	if err != nil {
		return fresh
	}
	var cp checkpoint
	if err := json.Unmarshal(data, &cp); err != nil {
		fmt.Fprintf(e.log, "checkpoint unreadable, starting fresh: %v\n", err)
		return fresh
	}
	fmt.Fprintf(e.log, "Resuming from page %d\n", cp.LastPage+1)
	return &cp
}

func (e *Extractor) saveCheckpoint(cp *checkpoint) error {
	data, err := json.MarshalIndent(cp, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal checkpoint: %w", err)
	}
	if err := os.WriteFile(e.checkpointPath(), data, 0o644); err != nil {
		return fmt.Errorf("write checkpoint: %w", err)
	}
	return nil
}

func (e *Extractor) writeOutput(questions []json.RawMessage) error {
	if questions == nil {
		questions = []json.RawMessage{}
	}
	data, err := json.MarshalIndent(questions, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal questions: %w", err)
	}
	if err := os.WriteFile(e.cfg.OutputPath, data, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
