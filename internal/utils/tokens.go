package utils

// Token estimation for agent-context budgeting. One token per four characters
// is close enough for preview sizing without pulling in a model tokenizer.

const charsPerToken = 4

// CountTokens estimates how many tokens the text would occupy. Non-empty text
// always counts as at least one token.
func CountTokens(text string) int {
	n := len([]rune(text))
	if n == 0 {
		return 0
	}
	if n < charsPerToken {
		return 1
	}
	return n / charsPerToken
}

// TruncateToTokenLimit cuts text down to roughly limit tokens. Text already
// within the limit comes back unchanged.
func TruncateToTokenLimit(text string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= limit*charsPerToken {
		return text
	}
	return string(runes[:limit*charsPerToken])
}
