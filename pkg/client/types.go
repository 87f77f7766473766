package client

import "time"

// CreateRequest is the payload for creating a proposal.
type CreateRequest struct {
	Type          string `json:"type,omitempty"`
	ProposerName  string `json:"proposerName"`
	ProposerEmail string `json:"proposerEmail,omitempty"`
	RecipientName string `json:"recipientName"`
	Message       string `json:"message"`
	Template      string `json:"template,omitempty"`
	IsAnonymous   bool   `json:"isAnonymous"`
}

// Created holds the links for a new proposal.
type Created struct {
	ID         string `json:"id"`
	RevealLink string `json:"revealLink"`
	StatusLink string `json:"statusLink"`
}

// TypeConfig is the presentation copy of one proposal type.
type TypeConfig struct {
	Type           string `json:"type"`
	Emoji          string `json:"emoji"`
	Title          string `json:"title"`
	Headline       string `json:"headline"`
	ButtonYes      string `json:"buttonYes"`
	ButtonNo       string `json:"buttonNo"`
	SuccessTitle   string `json:"successTitle"`
	SuccessMessage string `json:"successMessage"`
	Animation      string `json:"animation"`
}

// Proposal is the recipient's view of a proposal.
type Proposal struct {
	ID               string     `json:"id"`
	Type             string     `json:"type"`
	Config           TypeConfig `json:"config"`
	ProposerName     string     `json:"proposerName,omitempty"`
	RecipientName    string     `json:"recipientName"`
	Message          string     `json:"message"`
	Template         string     `json:"template"`
	IsAnonymous      bool       `json:"isAnonymous"`
	Revealed         bool       `json:"revealed"`
	GuessesUsed      int        `json:"guessesUsed"`
	GuessesLeft      int        `json:"guessesLeft"`
	GuessedCorrectly bool       `json:"guessedCorrectly"`
	Response         string     `json:"response,omitempty"`
	RespondedAt      *time.Time `json:"respondedAt,omitempty"`
}

// Status is the proposer's view of a proposal.
type Status struct {
	ID               string     `json:"id"`
	Type             string     `json:"type"`
	Config           TypeConfig `json:"config"`
	ProposerName     string     `json:"proposerName"`
	RecipientName    string     `json:"recipientName"`
	Message          string     `json:"message"`
	IsAnonymous      bool       `json:"isAnonymous"`
	Guesses          []string   `json:"guesses"`
	GuessesUsed      int        `json:"guessesUsed"`
	GuessedCorrectly bool       `json:"guessedCorrectly"`
	Response         string     `json:"response,omitempty"`
	RespondedAt      *time.Time `json:"respondedAt,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	ExpiresAt        time.Time  `json:"expiresAt"`
	TimeRemaining    string     `json:"timeRemaining"`
	RevealLink       string     `json:"revealLink"`
}

// Answered reports whether the recipient has responded.
func (s *Status) Answered() bool {
	return s.Response != ""
}

// ResponseResult is the outcome of answering a proposal. Persisted is false
// when the server could not save the answer.
type ResponseResult struct {
	Response    string     `json:"response"`
	RespondedAt *time.Time `json:"respondedAt"`
	Persisted   bool       `json:"persisted"`
}

// GuessResult is the outcome of one guess.
type GuessResult struct {
	Correct          bool     `json:"correct"`
	Guesses          []string `json:"guesses"`
	GuessesUsed      int      `json:"guessesUsed"`
	GuessesLeft      int      `json:"guessesLeft"`
	GuessedCorrectly bool     `json:"guessedCorrectly"`
	Revealed         bool     `json:"revealed"`
	ProposerName     string   `json:"proposerName,omitempty"`
	Persisted        bool     `json:"persisted"`
}
