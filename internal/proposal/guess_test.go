package proposal

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sujalbistaa/proposal/internal/models"
)

func TestCheckGuess(t *testing.T) {
	tests := []struct {
		name     string
		guess    string
		proposer string
		want     bool
	}{
		{"upper case", "JOHN", "John Smith", true},
		{"last name does not count", "Smith", "John Smith", false},
		{"surrounding spaces", " john ", "john doe", true},
		{"single name", "alex", "Alex", true},
		{"empty guess", "", "Alex", false},
		{"blank guess", "   ", "Alex", false},
		{"empty proposer", "alex", "", false},
		{"full name guessed", "John Smith", "John Smith", false},
		{"unicode fold", "ZOË", "Zoë Martin", true},
		{"nickname", "Jon", "John", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CheckGuess(tt.guess, tt.proposer))
		})
	}
}

func TestFirstName(t *testing.T) {
	assert.Equal(t, "Jordan", FirstName("  Jordan   Lee "))
	assert.Equal(t, "", FirstName("   "))
}

func TestProposerRevealed(t *testing.T) {
	tests := []struct {
		name string
		p    models.Proposal
		want bool
	}{
		{"not anonymous", models.Proposal{}, true},
		{"anonymous fresh", models.Proposal{IsAnonymous: true}, false},
		{"anonymous guessed", models.Proposal{IsAnonymous: true, Guesses: []string{"a"}, GuessedCorrectly: true}, true},
		{"anonymous two misses", models.Proposal{IsAnonymous: true, Guesses: []string{"a", "b"}}, false},
		{"anonymous exhausted", models.Proposal{IsAnonymous: true, Guesses: []string{"a", "b", "c"}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ProposerRevealed(&tt.p))
		})
	}
}

func TestGuessesLeftNeverNegative(t *testing.T) {
	p := &models.Proposal{Guesses: []string{"a", "b", "c", "d"}}
	assert.Equal(t, 0, GuessesLeft(p))
}
