package http

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sujalbistaa/proposal/internal/catalog"
	"github.com/sujalbistaa/proposal/internal/models"
	"github.com/sujalbistaa/proposal/internal/proposal"
	"github.com/sujalbistaa/proposal/internal/store"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

// statusRefreshSeconds is how often an unanswered status page reloads itself.
const statusRefreshSeconds = 30

const msgStoreFailure = "Something went wrong. Please try again."

func loadTemplates() *template.Template {
	funcs := template.FuncMap{
		"formatTime": func(t *time.Time) string {
			if t == nil {
				return ""
			}
			return t.UTC().Format("Jan 2, 2006 at 15:04 UTC")
		},
		"isYes": func(r *models.Response) bool {
			return r != nil && *r == models.ResponseYes
		},
	}
	return template.Must(template.New("").Funcs(funcs).ParseFS(templatesFS, "templates/*.tmpl"))
}

func (e *Env) Home(c *gin.Context) {
	c.Redirect(http.StatusFound, "/create")
}

func (e *Env) CreatePage(c *gin.Context) {
	t := catalog.ParseType(c.Query("type"))
	e.renderCreate(c, http.StatusOK, CreateProposalInput{
		Type:     string(t),
		Template: string(models.DefaultTemplate),
	}, "")
}

func (e *Env) CreateSubmit(c *gin.Context) {
	var input CreateProposalInput
	if err := c.ShouldBind(&input); err != nil {
		e.renderCreate(c, http.StatusBadRequest, input, "Please check the form: both names, a message and a valid email if you give one.")
		return
	}

	form := input.form()
	if !form.NamesValid() {
		e.renderCreate(c, http.StatusBadRequest, input, "Please fill in both names.")
		return
	}
	if !form.MessageValid() {
		e.renderCreate(c, http.StatusBadRequest, input, "Please write a message.")
		return
	}

	id, err := e.Proposals.Create(c.Request.Context(), form)
	if err != nil {
		e.Log.Error().Err(err).Msg("create proposal from form")
		e.renderCreate(c, http.StatusInternalServerError, input, msgStoreFailure)
		return
	}

	c.HTML(http.StatusCreated, "created.tmpl", gin.H{
		"Title":      "Your proposal is ready",
		"Config":     e.Catalog.Config(form.Type),
		"Recipient":  form.RecipientName,
		"RevealLink": e.RevealLink(id),
		"StatusLink": e.StatusLink(id),
	})
}

func (e *Env) renderCreate(c *gin.Context, code int, input CreateProposalInput, errMsg string) {
	t := catalog.ParseType(input.Type)
	c.HTML(code, "create.tmpl", gin.H{
		"Title":     "Create a proposal",
		"Config":    e.Catalog.Config(t),
		"Types":     e.Catalog.Types,
		"Templates": e.Catalog.Templates,
		"Form":      input,
		"Error":     errMsg,
	})
}

func (e *Env) RevealPage(c *gin.Context) {
	p, err := e.Proposals.GetActive(c.Request.Context(), c.Param("id"))
	if err != nil {
		e.renderProblem(c, err)
		return
	}
	e.renderReveal(c, http.StatusOK, e.revealView(p), "")
}

func (e *Env) RespondSubmit(c *gin.Context) {
	var input RespondInput
	if err := c.ShouldBind(&input); err != nil {
		e.renderProblem(c, fmt.Errorf("%w: %v", proposal.ErrInvalid, err))
		return
	}

	p, err := e.Proposals.RecordResponse(c.Request.Context(), c.Param("id"), models.Response(input.Response))
	switch {
	case errors.Is(err, proposal.ErrNotPersisted):
	case err != nil:
		e.renderProblem(c, err)
		return
	default:
		e.afterResponse(p)
	}
	e.renderReveal(c, http.StatusOK, e.revealView(p), "")
}

func (e *Env) GuessSubmit(c *gin.Context) {
	var input GuessInput
	if err := c.ShouldBind(&input); err != nil {
		e.renderProblem(c, fmt.Errorf("%w: %v", proposal.ErrInvalid, err))
		return
	}

	result, err := e.Proposals.RecordGuess(c.Request.Context(), c.Param("id"), input.Guess)
	if err != nil && !errors.Is(err, proposal.ErrNotPersisted) && !errors.Is(err, proposal.ErrNoGuessesLeft) {
		e.renderProblem(c, err)
		return
	}
	if err == nil {
		e.publishStatus(result.Proposal)
	}

	// The store may be unreachable here, so the view comes from the result.
	e.renderReveal(c, http.StatusOK, e.revealView(result.Proposal), guessFeedback(result))
}

func guessFeedback(r proposal.GuessResult) string {
	switch {
	case r.Correct:
		return fmt.Sprintf("You got it! It was %s.", r.ProposerName)
	case r.GuessesLeft > 0:
		if r.GuessesLeft == 1 {
			return "Not quite. 1 guess left."
		}
		return fmt.Sprintf("Not quite. %d guesses left.", r.GuessesLeft)
	case r.Revealed:
		return fmt.Sprintf("Out of guesses! It was %s.", r.ProposerName)
	default:
		return "Out of guesses!"
	}
}

func (e *Env) renderReveal(c *gin.Context, code int, v RevealView, feedback string) {
	c.HTML(code, "reveal.tmpl", gin.H{
		"Title":    v.Config.Title,
		"P":        v,
		"Feedback": feedback,
		"CanGuess": v.IsAnonymous && !v.Revealed && v.GuessesLeft > 0,
	})
}

func (e *Env) StatusPage(c *gin.Context) {
	p, err := e.Proposals.GetActive(c.Request.Context(), c.Param("id"))
	if err != nil {
		e.renderProblem(c, err)
		return
	}
	v := e.statusView(p)
	data := gin.H{
		"Title": "Proposal status",
		"S":     v,
	}
	if v.Response == nil {
		data["Refresh"] = statusRefreshSeconds
	}
	c.HTML(http.StatusOK, "status.tmpl", data)
}

// renderProblem shows the not-found, expired or generic error page for err.
func (e *Env) renderProblem(c *gin.Context, err error) {
	code, msg := errorStatus(err)
	data := gin.H{"Title": "Oops", "Message": msg}
	switch {
	case errors.Is(err, store.ErrNotFound):
		data["Title"] = "Proposal not found"
		data["Message"] = "This link doesn't lead anywhere. Double-check it or ask the sender for a new one."
	case errors.Is(err, proposal.ErrExpired):
		data["Title"] = "This proposal has expired"
		data["Message"] = "Proposals only last 5 days. Ask the sender to make a new one."
	case code == http.StatusInternalServerError:
		e.Log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("page failed")
	}
	c.HTML(code, "message.tmpl", data)
}
