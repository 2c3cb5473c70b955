package round

// tickMsg advances the round clock. Ticks from an earlier round generation
// are dropped.
type tickMsg struct {
	gen int
}

// resultDueMsg reveals the result sheet once the win has settled.
type resultDueMsg struct {
	gen int
}

// flashDoneMsg clears the wrong-card flash.
type flashDoneMsg struct {
	gen int
	n   int
}
