package aiquestion

import "fmt"

const systemPrompt = `
You generate multiple-choice exam questions for a school examination platform.

Rules:
1. Every question has exactly four options (A, B, C, D) and exactly one correct answer.
2. Difficulty is one of EASY, MEDIUM or HARD.
3. Distractors must be plausible: similar length and structure to the correct option.
4. Never reveal the answer inside the question text.
5. Output pure, valid JSON only, with no text outside the JSON.

Expected JSON format:

[
  {
    "question_text": "<the question>",
    "option_a": "<option>",
    "option_b": "<option>",
    "option_c": "<option>",
    "option_d": "<option>",
    "correct_answer": "C",
    "marks": 5,
    "difficulty": "MEDIUM",
    "topic": "<topic>"
  }
]

If the topic is not an educational subject, return:
{"error": "invalid topic, only educational content is allowed"}
`

func buildUserPrompt(req DraftRequest) string {
	count := req.Count
	if count <= 0 {
		count = 3
	}
	if count > 10 {
		count = 10
	}

	marks := req.Marks
	if marks <= 0 {
		marks = 1
	}

	extra := ""
	if req.Context != "" {
		extra = fmt.Sprintf("Use the following context when writing the questions: %s. ", req.Context)
	}

	return fmt.Sprintf(
		"Generate %d multiple-choice questions on the topic %q with difficulty %q, worth %d marks each. %s"+
			"Follow the JSON format from the system prompt exactly. "+
			"Options must be plausible and the correct answer must not be obvious.",
		count, req.Topic, req.Difficulty, marks, extra,
	)
}
