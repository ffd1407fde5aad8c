package compress

// tokenDivisor is the fixed calibration of characters per model token.
// It is shared by every caller and never recomputed per provider.
const tokenDivisor = 4

// EstimateTokens approximates the model-token cost of text, rounding up.
func EstimateTokens(text string) int {
	if len(text) == 0 {
		return 0
	}
	return (len(text) + tokenDivisor - 1) / tokenDivisor
}
