package domain

const (
	// MaxRounds is the length of a match (best-of-3).
	MaxRounds = 3
	// WinsToClinch is the number of round wins that ends a match early.
	WinsToClinch = 2
)
