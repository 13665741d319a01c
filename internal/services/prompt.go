package services

import "fmt"

type PromptBuilder struct{}

func NewPromptBuilder() *PromptBuilder {
	return &PromptBuilder{}
}

// BuildEntityPrompt asks for the person names that appear verbatim in a resume excerpt.
func (pb *PromptBuilder) BuildEntityPrompt(excerpt string) string {
	return fmt.Sprintf(`You are a named entity recognizer for resumes.

RESUME EXCERPT:
%s

List every person name that appears in the excerpt, in the order it appears.
Copy each name exactly as written. Do not invent, translate or normalise names.
Ignore company, school, product and place names.

Return your response in the following JSON format:
{
  "entities": [
    {"text": "<name exactly as written>", "label": "PERSON"}
  ]
}

Return {"entities": []} when the excerpt holds no person name.`, excerpt)
}
