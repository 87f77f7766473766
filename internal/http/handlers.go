package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/sujalbistaa/proposal/internal/catalog"
	"github.com/sujalbistaa/proposal/internal/models"
	"github.com/sujalbistaa/proposal/internal/notify"
	"github.com/sujalbistaa/proposal/internal/proposal"
	"github.com/sujalbistaa/proposal/internal/ws"
)

// --- Structs for request binding ---

// CreateProposalInput is shared by the JSON API and the HTML form.
type CreateProposalInput struct {
	Type          string `json:"type" form:"type"`
	ProposerName  string `json:"proposerName" form:"proposerName" binding:"required,max=100"`
	ProposerEmail string `json:"proposerEmail" form:"proposerEmail" binding:"omitempty,email,max=254"`
	RecipientName string `json:"recipientName" form:"recipientName" binding:"required,max=100"`
	Message       string `json:"message" form:"message" binding:"required,max=2000"`
	Template      string `json:"template" form:"template"`
	IsAnonymous   bool   `json:"isAnonymous" form:"isAnonymous"`
}

func (in CreateProposalInput) form() proposal.Form {
	return proposal.Form{
		Type:          catalog.ParseType(in.Type),
		ProposerName:  in.ProposerName,
		ProposerEmail: in.ProposerEmail,
		RecipientName: in.RecipientName,
		Message:       in.Message,
		Template:      catalog.ParseTemplate(in.Template),
		IsAnonymous:   in.IsAnonymous,
	}
}

type RespondInput struct {
	Response string `json:"response" form:"response" binding:"required,oneof=yes no"`
}

type GuessInput struct {
	Guess string `json:"guess" form:"guess" binding:"required,max=100"`
}

type guessResponse struct {
	proposal.GuessResult
	Persisted bool `json:"persisted"`
}

// Notifier is satisfied by *notify.Dispatcher.
type Notifier interface {
	Dispatch(n notify.Notification)
}

// --- Handlers ---

type Env struct {
	Proposals *proposal.Service
	Catalog   *catalog.Catalog
	Notifier  Notifier
	Hub       *ws.Hub
	BaseURL   string
	Log       zerolog.Logger
}

func (e *Env) GetTypes(c *gin.Context) {
	c.JSON(http.StatusOK, e.Catalog)
}

func (e *Env) CreateProposal(c *gin.Context) {
	var input CreateProposalInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	id, err := e.Proposals.Create(c.Request.Context(), input.form())
	if err != nil {
		e.Log.Error().Err(err).Msg("create proposal")
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":         id,
		"revealLink": e.RevealLink(id),
		"statusLink": e.StatusLink(id),
	})
}

func (e *Env) GetProposal(c *gin.Context) {
	p, err := e.Proposals.GetActive(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, e.revealView(p))
}

func (e *Env) GetStatus(c *gin.Context) {
	p, err := e.Proposals.GetActive(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, e.statusView(p))
}

func (e *Env) RespondToProposal(c *gin.Context) {
	var input RespondInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	p, err := e.Proposals.RecordResponse(c.Request.Context(), c.Param("id"), models.Response(input.Response))
	switch {
	case errors.Is(err, proposal.ErrNotPersisted):
		// The recipient still sees their answer; the proposer will not.
		c.JSON(http.StatusAccepted, gin.H{
			"response":    p.Response,
			"respondedAt": p.RespondedAt,
			"persisted":   false,
		})
		return
	case err != nil:
		respondError(c, err)
		return
	}

	e.afterResponse(p)
	c.JSON(http.StatusOK, gin.H{
		"response":    p.Response,
		"respondedAt": p.RespondedAt,
		"persisted":   true,
	})
}

func (e *Env) SubmitGuess(c *gin.Context) {
	var input GuessInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	id := c.Param("id")
	result, err := e.Proposals.RecordGuess(c.Request.Context(), id, input.Guess)
	switch {
	case errors.Is(err, proposal.ErrNotPersisted):
		c.JSON(http.StatusAccepted, guessResponse{GuessResult: result, Persisted: false})
		return
	case err != nil:
		respondError(c, err)
		return
	}

	e.publishStatus(result.Proposal)
	c.JSON(http.StatusOK, guessResponse{GuessResult: result, Persisted: true})
}

func (e *Env) PurgeExpired(c *gin.Context) {
	n, err := e.Proposals.PurgeExpired(c.Request.Context())
	if err != nil {
		e.Log.Error().Err(err).Msg("purge expired proposals")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to purge expired proposals"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": n})
}

// StatusSocket streams status snapshots of one proposal, starting with the current one.
func (e *Env) StatusSocket(c *gin.Context) {
	p, err := e.Proposals.GetActive(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	initial, err := json.Marshal(e.statusView(p))
	if err != nil {
		respondError(c, err)
		return
	}
	ws.ServeWs(e.Hub, c.Writer, c.Request, p.ID, initial)
}

func (e *Env) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().UTC()})
}

// afterResponse runs once a response is stored: status pages are told and the
// proposer gets an email. Neither can fail the request.
func (e *Env) afterResponse(p *models.Proposal) {
	e.publishStatus(p)
	if p.Response == nil {
		return
	}
	e.Notifier.Dispatch(notify.Notification{
		ProposalID:    p.ID,
		ToEmail:       p.ProposerEmail,
		ProposerName:  p.ProposerName,
		RecipientName: p.RecipientName,
		ProposalType:  e.Catalog.Label(p.Type),
		Response:      *p.Response,
		StatusLink:    e.StatusLink(p.ID),
	})
}

func (e *Env) publishStatus(p *models.Proposal) {
	if e.Hub == nil {
		return
	}
	e.Hub.Publish(p.ID, e.statusView(p))
}
