package extract

import "github.com/jvance/examdeck/internal/llm"

// pagePrompt instructs the vision model to lift question records off one
// exam page image.
const pagePrompt = `Extract the exam questions, multiple-choice options, correct answers, and justifications from this image. ` +
	`If any text is unclear due to image quality or OCR artifacts, use your expertise to enhance the text and make the best educated guess possible. ` +
	`Output ONLY a JSON array of objects with this structure: ` +
	`[{"number": "1", "question": "Question text...", "options": {"A": "...", "B": "...", "C": "...", "D": "..."}, "answer": "C", "justification": {"A": "...", "B": "...", "C": "...", "D": "..."}}]. ` +
	`Exclude all headers, footers, page numbers, and any other text not part of a question or its explanation. ` +
	`If a question is split across pages, provide only the full questions that start on this page. ` +
	`Return ONLY valid JSON with no conversational text, introductory remarks, or explanations. ` +
	`If no multiple-choice questions are found on this page, return an empty array [].`

// pageSchema describes the expected per-page output: an array of question
// records in the bank's input format.
func pageSchema() *llm.Schema {
	stringMap := map[string]any{
		"type":                 "object",
		"additionalProperties": map[string]any{"type": "string"},
	}
	return &llm.Schema{
		Name:        "question-page",
		Description: "Multiple-choice questions extracted from one exam page",
		Definition: map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":     "object",
				"required": []any{"number", "question", "options", "answer"},
				"properties": map[string]any{
					"number":        map[string]any{"type": "string"},
					"question":      map[string]any{"type": "string"},
					"options":       stringMap,
					"answer":        map[string]any{"type": "string"},
					"justification": stringMap,
					"domain":        map[string]any{"type": "integer", "minimum": float64(1), "maximum": float64(4)},
				},
			},
		},
	}
}
