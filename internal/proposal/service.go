// Package proposal implements the proposal lifecycle: creation, expiry,
// response recording and anonymous-mode guessing.
package proposal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/sujalbistaa/proposal/internal/models"
	"github.com/sujalbistaa/proposal/internal/store"
)

var (
	ErrInvalid       = errors.New("invalid input")
	ErrExpired       = errors.New("proposal expired")
	ErrNotAnonymous  = errors.New("proposal is not anonymous")
	ErrNoGuessesLeft = errors.New("no guesses left")
	// ErrNotPersisted accompanies a result that was computed but could not be
	// saved. Callers may show the result anyway.
	ErrNotPersisted = errors.New("change not persisted")
)

// Form is what the creation wizard submits.
type Form struct {
	Type          models.ProposalType `json:"type"`
	ProposerName  string              `json:"proposerName"`
	ProposerEmail string              `json:"proposerEmail"`
	RecipientName string              `json:"recipientName"`
	Message       string              `json:"message"`
	Template      models.Template     `json:"template"`
	IsAnonymous   bool                `json:"isAnonymous"`
}

// NamesValid is the first wizard step check: both names present.
func (f Form) NamesValid() bool {
	return strings.TrimSpace(f.ProposerName) != "" && strings.TrimSpace(f.RecipientName) != ""
}

// MessageValid is the second wizard step check.
func (f Form) MessageValid() bool {
	return strings.TrimSpace(f.Message) != ""
}

// GuessResult is the outcome of one guess attempt.
type GuessResult struct {
	Correct          bool     `json:"correct"`
	Guesses          []string `json:"guesses"`
	GuessesUsed      int      `json:"guessesUsed"`
	GuessesLeft      int      `json:"guessesLeft"`
	GuessedCorrectly bool     `json:"guessedCorrectly"`
	Revealed         bool     `json:"revealed"`
	ProposerName     string   `json:"proposerName,omitempty"`

	// Proposal is the state the result was computed from, including this
	// guess even when it was not persisted.
	Proposal *models.Proposal `json:"-"`
}

// Service composes the store with the lifecycle rules.
type Service struct {
	store store.Store
	now   func() time.Time
	newID func() string
	log   zerolog.Logger
}

type Option func(*Service)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithIDGenerator replaces NewID.
func WithIDGenerator(gen func() string) Option {
	return func(s *Service) { s.newID = gen }
}

func WithLogger(log zerolog.Logger) Option {
	return func(s *Service) { s.log = log }
}

// New builds a Service on top of st.
func New(st store.Store, opts ...Option) *Service {
	s := &Service{
		store: st,
		now:   time.Now,
		newID: NewID,
		log:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Now returns the service clock reading in UTC.
func (s *Service) Now() time.Time {
	return s.now().UTC()
}

// Create stores a new proposal and returns its id. Unknown types and
// templates fall back to valentine and romantic.
func (s *Service) Create(ctx context.Context, f Form) (string, error) {
	if !f.NamesValid() || !f.MessageValid() {
		return "", fmt.Errorf("%w: names and message are required", ErrInvalid)
	}
	if !f.Type.Valid() {
		f.Type = models.TypeValentine
	}
	if !f.Template.Valid() {
		f.Template = models.DefaultTemplate
	}

	now := s.Now()
	p := &models.Proposal{
		ID:               s.newID(),
		Type:             f.Type,
		ProposerName:     strings.TrimSpace(f.ProposerName),
		ProposerEmail:    strings.TrimSpace(f.ProposerEmail),
		RecipientName:    strings.TrimSpace(f.RecipientName),
		Message:          strings.TrimSpace(f.Message),
		Template:         f.Template,
		IsAnonymous:      f.IsAnonymous,
		Guesses:          []string{},
		GuessesUsed:      0,
		GuessedCorrectly: false,
		CreatedAt:        now,
		ExpiresAt:        ExpiresAt(now),
	}
	if err := s.store.Create(ctx, p); err != nil {
		return "", err
	}

	s.log.Info().Str("id", p.ID).Str("type", string(p.Type)).Bool("anonymous", p.IsAnonymous).Msg("proposal created")
	return p.ID, nil
}

// Get returns the proposal or store.ErrNotFound. Expired proposals are returned too.
func (s *Service) Get(ctx context.Context, id string) (*models.Proposal, error) {
	return s.store.Get(ctx, id)
}

// GetActive is Get plus the expiry check.
func (s *Service) GetActive(ctx context.Context, id string) (*models.Proposal, error) {
	p, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.IsExpired(p) {
		return p, ErrExpired
	}
	return p, nil
}

func (s *Service) IsExpired(p *models.Proposal) bool {
	return IsExpired(p, s.Now())
}

func (s *Service) TimeRemaining(p *models.Proposal) string {
	return TimeRemaining(p.ExpiresAt, s.Now())
}

// RecordResponse stores the answer and the time it was given. A later call
// overwrites an earlier one. Notification is left to the caller.
//
// When the write fails the returned proposal still carries the response and
// the error wraps ErrNotPersisted.
func (s *Service) RecordResponse(ctx context.Context, id string, resp models.Response) (*models.Proposal, error) {
	if !resp.Valid() {
		return nil, fmt.Errorf("%w: response must be yes or no", ErrInvalid)
	}
	p, err := s.GetActive(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.Now()
	p.Response = &resp
	p.RespondedAt = &now

	if err := s.store.Update(ctx, id, store.Fields{Response: &resp, RespondedAt: &now}); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, err
		}
		s.log.Warn().Err(err).Str("id", id).Msg("response not persisted")
		return p, fmt.Errorf("%w: %v", ErrNotPersisted, err)
	}

	s.log.Info().Str("id", id).Str("response", string(resp)).Msg("response recorded")
	return p, nil
}

// RecordGuess appends one guess attempt to an anonymous proposal. At most
// MaxGuesses attempts are accepted; a correct guess is remembered for good.
//
// When the write fails the result is computed from the last read and the
// error wraps ErrNotPersisted.
func (s *Service) RecordGuess(ctx context.Context, id, guess string) (GuessResult, error) {
	guess = strings.TrimSpace(guess)
	if guess == "" {
		return GuessResult{}, fmt.Errorf("%w: guess is empty", ErrInvalid)
	}

	p, err := s.GetActive(ctx, id)
	if err != nil {
		return GuessResult{}, err
	}
	if !p.IsAnonymous {
		return GuessResult{}, ErrNotAnonymous
	}
	if GuessesLeft(p) == 0 {
		return resultFor(p, false), ErrNoGuessesLeft
	}

	correct := CheckGuess(guess, p.ProposerName)
	updated, err := s.store.AppendGuess(ctx, id, guess, correct)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return GuessResult{}, err
		}
		s.log.Warn().Err(err).Str("id", id).Msg("guess not persisted")
		p.Guesses = append(p.Guesses, guess)
		p.GuessesUsed = len(p.Guesses)
		p.GuessedCorrectly = p.GuessedCorrectly || correct
		return resultFor(p, correct), fmt.Errorf("%w: %v", ErrNotPersisted, err)
	}

	s.log.Info().Str("id", id).Bool("correct", correct).Int("guesses_used", updated.GuessesUsed).Msg("guess recorded")
	return resultFor(updated, correct), nil
}

func resultFor(p *models.Proposal, correct bool) GuessResult {
	r := GuessResult{
		Correct:          correct,
		Guesses:          append([]string{}, p.Guesses...),
		GuessesUsed:      len(p.Guesses),
		GuessesLeft:      GuessesLeft(p),
		GuessedCorrectly: p.GuessedCorrectly,
		Revealed:         ProposerRevealed(p),
		Proposal:         p,
	}
	if r.Revealed {
		r.ProposerName = p.ProposerName
	}
	return r
}

// PurgeExpired deletes every proposal that has expired.
func (s *Service) PurgeExpired(ctx context.Context) (int64, error) {
	n, err := s.store.DeleteExpired(ctx, s.Now())
	if err != nil {
		return 0, err
	}
	s.log.Info().Int64("deleted", n).Msg("expired proposals purged")
	return n, nil
}
