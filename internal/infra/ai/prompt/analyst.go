package prompt

import (
	"fmt"
)

// GetSystemPrompt provides strict directions and schema for JSON output.
func GetSystemPrompt() string {
	return `You are a senior digital-twin QA analyst. You must produce one valid JSON object only (no markdown, no commentary) that follows the schema below. Do not include code fences.

Requirements:
- Output must be a single JSON object.
- Use lowercase verdict values: pass, fail, inconclusive.
- findings is an array of objects; include at least a title, verdict, and summary. Keep items concise.
- If the actual report content is not provided in the prompt, infer likely issues from the check type and URL safely and conservatively.

Schema (example with empty values):
{
  "report_url": "<string>",
  "verdict": "<pass|fail|inconclusive>",
  "findings": [
    {
      "title": "<string>",
      "verdict": "<pass|fail|inconclusive>",
      "summary": "<string>",
      "recommendation": "<string>"
    }
  ],
  "advice": "<string>"
}`
}

// GetUserPrompt builds a compact user message around a report URL.
func GetUserPrompt(reportURL string) string {
	return fmt.Sprintf("Analyze the validation report at this URL and respond with the JSON per schema. URL: %s", reportURL)
}
