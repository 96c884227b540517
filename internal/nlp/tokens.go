package nlp

import "strings"

// Tokens normalizes the text, splits on whitespace and drops stopwords.
func Tokens(text string) []string {
	t := Normalize(text)
	fields := strings.Fields(t)
	tokens := make([]string, 0, len(fields))
	for _, w := range fields {
		if w == "" || IsStopword(w) {
			continue
		}
		tokens = append(tokens, w)
	}
	return tokens
}

// Keywords extracts the literal-match keywords of a query: whitespace-split
// words longer than 3 runes with surrounding punctuation trimmed.
func Keywords(text string) []string {
	var keywords []string
	for _, w := range strings.Fields(text) {
		w = strings.Trim(w, "؟,.،")
		if len([]rune(w)) > 3 {
			keywords = append(keywords, w)
		}
	}
	return keywords
}

// ContainsServiceKeyword reports whether the normalized input mentions any
// service-intent keyword.
func ContainsServiceKeyword(normalized string) bool {
	for _, kw := range ServiceKeywords {
		if strings.Contains(normalized, kw) {
			return true
		}
	}
	return false
}
