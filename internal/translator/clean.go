package translator

import (
	"regexp"
	"strings"
)

// LLM output carries artifacts that machine-translation APIs never produce.
// cleanLLMOutput strips them before the markup is handed back to the caller.

var thinkingBlockRe = regexp.MustCompile(
	`(?is)<thinking>.*?</thinking>|<think>.*?</think>|<reasoning>.*?</reasoning>`,
)

var truncatedThinkingRe = regexp.MustCompile(`(?is)(?:<thinking>|<think>|<reasoning>).*$`)

var codeFenceRe = regexp.MustCompile("(?s)^```[a-zA-Z]*\\s*\n?(.*?)\\s*```$")

var echoRe = regexp.MustCompile(`(?i)^(?:certainly|sure|of course)?[,.!]?\s*(?:here(?:'s| is)(?: the)? )?(?:translated )?(?:translation|text|html)\s*:`)

func cleanLLMOutput(text string, html bool) string {
	text = thinkingBlockRe.ReplaceAllString(text, "")
	text = truncatedThinkingRe.ReplaceAllString(text, "")
	text = strings.TrimSpace(text)

	if m := codeFenceRe.FindStringSubmatch(text); m != nil {
		text = strings.TrimSpace(m[1])
	}

	if html {
		return trimOutsideMarkup(text)
	}

	if loc := echoRe.FindStringIndex(text); loc != nil {
		text = strings.TrimSpace(text[loc[1]:])
	}
	return unquote(text)
}

// trimOutsideMarkup drops chatter before the first tag and after the last one.
func trimOutsideMarkup(text string) string {
	first := strings.Index(text, "<")
	last := strings.LastIndex(text, ">")
	if first < 0 || last < first {
		return text
	}
	return text[first : last+1]
}

func unquote(text string) string {
	runes := []rune(text)
	n := len(runes)
	if n < 2 {
		return text
	}
	first, last := runes[0], runes[n-1]
	if (first == '"' && last == '"') ||
		(first == '«' && last == '»') ||
		(first == '“' && last == '”') {
		return strings.TrimSpace(string(runes[1 : n-1]))
	}
	return text
}
