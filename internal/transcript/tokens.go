package transcript

// defaultCharsPerToken approximates prose token density. Budget packing only
// needs a rough figure, never an exact tokenizer.
const defaultCharsPerToken = 4

// EstimateTokens estimates the token cost of text from its byte length.
func EstimateTokens(text string, charsPerToken int) int {
	if charsPerToken <= 0 {
		charsPerToken = defaultCharsPerToken
	}
	return len(text) / charsPerToken
}
