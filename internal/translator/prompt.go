package translator

import (
	"fmt"
	"strings"
)

func describeSource(lang string) string {
	if lang == "" || lang == "auto" {
		return "the detected language"
	}
	return lang
}

// buildPrompt returns the instruction given to LLM-backed services. HTML
// requests must come back with exactly the same <p> elements, in order,
// because callers split the answer on them.
func buildPrompt(req TranslateRequest) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("You are a professional translator. Translate the following text from %s to %s.\n",
		describeSource(req.SourceLang), req.TargetLang))

	if req.IsHTML() {
		sb.WriteString("The text is HTML. Each <p> element holds an independent fragment. ")
		sb.WriteString("Translate every fragment on its own and return the same HTML structure: ")
		sb.WriteString("the same number of <p> elements, in the same order, never merged, split or dropped. ")
		sb.WriteString("Only respond with the HTML, nothing else.")
	} else {
		sb.WriteString("Only respond with the translation, nothing else. No explanations, no quotes, just the translation.")
	}

	return sb.String()
}
