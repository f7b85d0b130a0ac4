package quizgen

import (
	"fmt"
	"strings"

	"wikiquiz/internal/domain"
	"wikiquiz/internal/validation"
)

// buildQuizPrompt renders the generation prompt for one article. The format
// block mirrors the payload the parser expects, so schema drift between
// prompt and validator shows up in tests rather than production.
func buildQuizPrompt(article *domain.Article, numQuestions int) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, `You are a quiz generator. Read the article material below and respond with ONLY a JSON object in the following format:
{
    "quiz": [
        {
            "question": "question text here",
            "options": ["option A", "option B", "option C", "option D"],
            "answer": "option B",
            "difficulty": "medium",
            "explanation": "one or two sentences citing the article"
        }
    ]
}

Article Title: %s
`, article.Title)

	if article.Summary != "" {
		fmt.Fprintf(&sb, "Summary: %s\n", article.Summary)
	}
	if len(article.Sections) > 0 {
		fmt.Fprintf(&sb, "Sections: %s\n", strings.Join(article.Sections, ", "))
	}
	writeEntityLine(&sb, "People", article.Entities.People)
	writeEntityLine(&sb, "Organizations", article.Entities.Organizations)
	writeEntityLine(&sb, "Locations", article.Entities.Locations)

	fmt.Fprintf(&sb, "\nArticle Content:\n%s\n", article.Content)

	fmt.Fprintf(&sb, `
Rules:
1. Generate exactly %d questions, every one answerable from the article content above
2. Each question must have exactly %d distinct options
3. "answer" must repeat one of the options verbatim, character for character
4. "difficulty" must be one of "easy", "medium" or "hard"; mix difficulties across the quiz
5. Each explanation must be under 50 words and grounded in the article
6. Do not include any text outside the JSON object`, numQuestions, domain.OptionsPerQuestion)

	return sb.String()
}

// buildRelatedTopicsPrompt asks for follow-up reading suggestions. The topic
// count range matches what the validator will accept.
func buildRelatedTopicsPrompt(article *domain.Article) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, `You are a research assistant. Suggest Wikipedia topics related to the article below and respond with ONLY a JSON object in the following format:
{
    "topics": ["topic one", "topic two"]
}

Article Title: %s
`, article.Title)

	if article.Summary != "" {
		fmt.Fprintf(&sb, "Summary: %s\n", article.Summary)
	}
	if len(article.Sections) > 0 {
		fmt.Fprintf(&sb, "Sections: %s\n", strings.Join(article.Sections, ", "))
	}
	writeEntityLine(&sb, "People", article.Entities.People)
	writeEntityLine(&sb, "Organizations", article.Entities.Organizations)
	writeEntityLine(&sb, "Locations", article.Entities.Locations)

	fmt.Fprintf(&sb, `
Rules:
1. Suggest between %d and %d topics
2. Each topic must be a plausible Wikipedia article title
3. Do not include "%s" itself or trivial rewordings of it
4. Do not include any text outside the JSON object`,
		validation.MinRelatedTopics, validation.MaxRelatedTopics, article.Title)

	return sb.String()
}

func writeEntityLine(sb *strings.Builder, label string, values []string) {
	if len(values) == 0 {
		return
	}
	fmt.Fprintf(sb, "%s: %s\n", label, strings.Join(values, ", "))
}
