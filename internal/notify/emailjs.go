package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/sujalbistaa/proposal/internal/config"
	"github.com/sujalbistaa/proposal/internal/models"
)

// EmailJS sends notifications through the EmailJS REST API.
type EmailJS struct {
	endpoint   string
	serviceID  string
	templateID string
	publicKey  string
	httpClient *http.Client
	log        zerolog.Logger
}

func NewEmailJS(cfg config.EmailJSConfig, log zerolog.Logger) *EmailJS {
	return &EmailJS{
		endpoint:   cfg.Endpoint,
		serviceID:  cfg.ServiceID,
		templateID: cfg.TemplateID,
		publicKey:  cfg.PublicKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        log,
	}
}

type emailJSRequest struct {
	ServiceID      string         `json:"service_id"`
	TemplateID     string         `json:"template_id"`
	UserID         string         `json:"user_id"`
	TemplateParams templateParams `json:"template_params"`
}

type templateParams struct {
	ToEmail       string          `json:"to_email"`
	ProposerName  string          `json:"proposer_name"`
	RecipientName string          `json:"recipient_name"`
	ProposalType  string          `json:"proposal_type"`
	Response      models.Response `json:"response"`
	IsYes         bool            `json:"is_yes"`
	StatusLink    string          `json:"status_link"`
}

func (e *EmailJS) payload(n Notification) emailJSRequest {
	return emailJSRequest{
		ServiceID:  e.serviceID,
		TemplateID: e.templateID,
		UserID:     e.publicKey,
		TemplateParams: templateParams{
			ToEmail:       n.ToEmail,
			ProposerName:  n.ProposerName,
			RecipientName: n.RecipientName,
			ProposalType:  n.ProposalType,
			Response:      n.Response,
			IsYes:         n.Response == models.ResponseYes,
			StatusLink:    n.StatusLink,
		},
	}
}

// Send makes a single POST. It never retries.
func (e *EmailJS) Send(ctx context.Context, n Notification) bool {
	if err := e.send(ctx, n); err != nil {
		e.log.Error().Err(err).Str("id", n.ProposalID).Msg("email failed")
		return false
	}
	return true
}

func (e *EmailJS) send(ctx context.Context, n Notification) error {
	data, err := json.Marshal(e.payload(n))
	if err != nil {
		return fmt.Errorf("marshal body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		return fmt.Errorf("emailjs error: status=%d body=%s", resp.StatusCode, string(body))
	}
	return nil
}
