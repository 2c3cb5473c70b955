package drafting

// Config controls the behavior of the Drafter.
type Config struct {
	// Validators run on every drafted sentence in order; the first failure
	// drops the sentence.
	Validators []Validator

	// MaxTokens is the token budget for the LLM response.
	MaxTokens int

	// Temperature controls LLM output randomness (0.0-1.0).
	Temperature float64

	// MaxPriorSentences caps how many existing sentences are listed in the
	// prompt to avoid repeats.
	MaxPriorSentences int

	// MaxSentences caps the requested sentence count.
	MaxSentences int
}

// DefaultConfig returns a Config with the standard validator chain.
func DefaultConfig() Config {
	return Config{
		Validators: []Validator{
			&StructuralValidator{},
			&TokenValidator{},
			&PlayableValidator{},
		},
		MaxTokens:         4096,
		Temperature:       0.7,
		MaxPriorSentences: 40,
		MaxSentences:      30,
	}
}
