package problemgen

// Config controls the behavior of the LLMGenerator.
type Config struct {
	// Validators run in order on every generated problem; the first
	// failure rejects the set.
	Validators []Validator

	// MaxTokens is the token budget for the LLM response. Sets with
	// SVG figures are long.
	MaxTokens int

	// Temperature controls LLM output randomness (0.0-1.0).
	Temperature float64
}

// DefaultConfig returns a Config with the standard validator chain
// and recommended defaults.
func DefaultConfig() Config {
	return Config{
		Validators: []Validator{
			&StructuralValidator{},
			&ChoiceValidator{},
			&MarkupValidator{},
		},
		MaxTokens:   32768,
		Temperature: 0.7,
	}
}
