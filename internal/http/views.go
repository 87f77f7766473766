package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sujalbistaa/proposal/internal/catalog"
	"github.com/sujalbistaa/proposal/internal/models"
	"github.com/sujalbistaa/proposal/internal/proposal"
	"github.com/sujalbistaa/proposal/internal/store"
)

// RevealView is what the recipient sees. The proposer's name is left out
// while an anonymous proposal is still being guessed.
type RevealView struct {
	ID               string              `json:"id"`
	Type             models.ProposalType `json:"type"`
	Config           catalog.TypeConfig  `json:"config"`
	ProposerName     string              `json:"proposerName,omitempty"`
	RecipientName    string              `json:"recipientName"`
	Message          string              `json:"message"`
	Template         models.Template     `json:"template"`
	IsAnonymous      bool                `json:"isAnonymous"`
	Revealed         bool                `json:"revealed"`
	GuessesUsed      int                 `json:"guessesUsed"`
	GuessesLeft      int                 `json:"guessesLeft"`
	GuessedCorrectly bool                `json:"guessedCorrectly"`
	Response         *models.Response    `json:"response,omitempty"`
	RespondedAt      *time.Time          `json:"respondedAt,omitempty"`
}

// StatusView is what the proposer sees on the status link.
type StatusView struct {
	ID               string              `json:"id"`
	Type             models.ProposalType `json:"type"`
	Config           catalog.TypeConfig  `json:"config"`
	ProposerName     string              `json:"proposerName"`
	RecipientName    string              `json:"recipientName"`
	Message          string              `json:"message"`
	IsAnonymous      bool                `json:"isAnonymous"`
	Guesses          []string            `json:"guesses"`
	GuessesUsed      int                 `json:"guessesUsed"`
	GuessedCorrectly bool                `json:"guessedCorrectly"`
	Response         *models.Response    `json:"response,omitempty"`
	RespondedAt      *time.Time          `json:"respondedAt,omitempty"`
	CreatedAt        time.Time           `json:"createdAt"`
	ExpiresAt        time.Time           `json:"expiresAt"`
	TimeRemaining    string              `json:"timeRemaining"`
	RevealLink       string              `json:"revealLink"`
}

func (e *Env) revealView(p *models.Proposal) RevealView {
	v := RevealView{
		ID:               p.ID,
		Type:             p.Type,
		Config:           e.Catalog.Config(p.Type),
		RecipientName:    p.RecipientName,
		Message:          p.Message,
		Template:         p.Template,
		IsAnonymous:      p.IsAnonymous,
		Revealed:         proposal.ProposerRevealed(p),
		GuessesUsed:      len(p.Guesses),
		GuessesLeft:      proposal.GuessesLeft(p),
		GuessedCorrectly: p.GuessedCorrectly,
		Response:         p.Response,
		RespondedAt:      p.RespondedAt,
	}
	if v.Revealed {
		v.ProposerName = p.ProposerName
	}
	return v
}

func (e *Env) statusView(p *models.Proposal) StatusView {
	return StatusView{
		ID:               p.ID,
		Type:             p.Type,
		Config:           e.Catalog.Config(p.Type),
		ProposerName:     p.ProposerName,
		RecipientName:    p.RecipientName,
		Message:          p.Message,
		IsAnonymous:      p.IsAnonymous,
		Guesses:          append([]string{}, p.Guesses...),
		GuessesUsed:      len(p.Guesses),
		GuessedCorrectly: p.GuessedCorrectly,
		Response:         p.Response,
		RespondedAt:      p.RespondedAt,
		CreatedAt:        p.CreatedAt,
		ExpiresAt:        p.ExpiresAt,
		TimeRemaining:    e.Proposals.TimeRemaining(p),
		RevealLink:       e.RevealLink(p.ID),
	}
}

// RevealLink is the URL handed to the recipient.
func (e *Env) RevealLink(id string) string {
	return e.BaseURL + "/p/" + id
}

// StatusLink is the private URL the proposer keeps.
func (e *Env) StatusLink(id string) string {
	return e.BaseURL + "/status/" + id
}

// errorStatus maps lifecycle errors to an HTTP status and a user-facing message.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, "Proposal not found"
	case errors.Is(err, proposal.ErrExpired):
		return http.StatusGone, "This proposal has expired"
	case errors.Is(err, proposal.ErrInvalid):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, proposal.ErrNotAnonymous):
		return http.StatusConflict, "This proposal is not anonymous"
	case errors.Is(err, proposal.ErrNoGuessesLeft):
		return http.StatusConflict, "No guesses left"
	default:
		return http.StatusInternalServerError, "Something went wrong. Please try again."
	}
}

func respondError(c *gin.Context, err error) {
	code, msg := errorStatus(err)
	c.JSON(code, gin.H{"error": msg})
}
