package proposal

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/sujalbistaa/proposal/internal/models"
)

// MaxGuesses is how many attempts a recipient gets in anonymous mode.
const MaxGuesses = 3

// CheckGuess reports whether guess names the proposer. Only the first
// whitespace-delimited token of proposerName counts, compared case-insensitively.
func CheckGuess(guess, proposerName string) bool {
	g := normalize(guess)
	if g == "" {
		return false
	}
	return g == normalize(FirstName(proposerName))
}

// FirstName returns the first whitespace-delimited token of name.
func FirstName(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

func normalize(s string) string {
	// Casers carry state, so each call gets its own.
	return cases.Fold().String(norm.NFC.String(strings.TrimSpace(s)))
}

// GuessesLeft is the number of attempts the recipient still has.
func GuessesLeft(p *models.Proposal) int {
	left := MaxGuesses - len(p.Guesses)
	if left < 0 {
		return 0
	}
	return left
}

// ProposerRevealed reports whether the recipient may see who sent p.
// Anonymous proposals stay hidden until guessed or out of attempts.
func ProposerRevealed(p *models.Proposal) bool {
	if !p.IsAnonymous {
		return true
	}
	return p.GuessedCorrectly || GuessesLeft(p) == 0
}
