package models

import (
	"time"

	"gorm.io/gorm"
)

// ProposalType selects the presentation of a proposal. It has no effect on behaviour.
type ProposalType string

const (
	TypeValentine  ProposalType = "valentine"
	TypeMarriage   ProposalType = "marriage"
	TypeGirlfriend ProposalType = "girlfriend"
	TypeBoyfriend  ProposalType = "boyfriend"
)

// ProposalTypes lists every type in display order.
var ProposalTypes = []ProposalType{TypeValentine, TypeMarriage, TypeGirlfriend, TypeBoyfriend}

// Valid reports whether t is a known proposal type.
func (t ProposalType) Valid() bool {
	for _, known := range ProposalTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Template is the visual template picked in the creation wizard.
type Template string

const (
	TemplateClassic  Template = "classic"
	TemplateModern   Template = "modern"
	TemplateRomantic Template = "romantic"
	TemplatePlayful  Template = "playful"
)

// DefaultTemplate is preselected in the creation wizard.
const DefaultTemplate = TemplateRomantic

// Templates lists every template in display order.
var Templates = []Template{TemplateClassic, TemplateModern, TemplateRomantic, TemplatePlayful}

func (t Template) Valid() bool {
	for _, known := range Templates {
		if t == known {
			return true
		}
	}
	return false
}

// Response is the recipient's answer.
type Response string

const (
	ResponseYes Response = "yes"
	ResponseNo  Response = "no"
)

func (r Response) Valid() bool {
	return r == ResponseYes || r == ResponseNo
}

// Proposal is the single persisted record: one creator's message plus the
// recipient's response and guess state.
type Proposal struct {
	ID               string       `gorm:"primarykey;type:varchar(8)" json:"id"`
	Type             ProposalType `gorm:"type:varchar(20);not null" json:"type"`
	ProposerName     string       `gorm:"not null" json:"proposerName"`
	ProposerEmail    string       `gorm:"not null;default:''" json:"proposerEmail,omitempty"`
	RecipientName    string       `gorm:"not null" json:"recipientName"`
	Message          string       `gorm:"type:text;not null" json:"message"`
	Template         Template     `gorm:"type:varchar(20);not null" json:"template"`
	IsAnonymous      bool         `gorm:"not null;default:false" json:"isAnonymous"`
	Guesses          []string     `gorm:"serializer:json;type:text" json:"guesses"`
	GuessesUsed      int          `gorm:"not null;default:0" json:"guessesUsed"`
	GuessedCorrectly bool         `gorm:"not null;default:false" json:"guessedCorrectly"`
	CreatedAt        time.Time    `gorm:"not null" json:"createdAt"`
	ExpiresAt        time.Time    `gorm:"index;not null" json:"expiresAt"`
	Response         *Response    `gorm:"type:varchar(3)" json:"response,omitempty"`
	RespondedAt      *time.Time   `json:"respondedAt,omitempty"`
}

// AfterFind fills in fields missing from records written before they existed
// and brings timestamps back to UTC.
func (p *Proposal) AfterFind(_ *gorm.DB) error {
	p.Normalize()
	return nil
}

// Normalize applies read-side defaults. GuessesUsed always follows len(Guesses).
func (p *Proposal) Normalize() {
	if p.Guesses == nil {
		p.Guesses = []string{}
	}
	p.GuessesUsed = len(p.Guesses)
	p.CreatedAt = p.CreatedAt.UTC()
	p.ExpiresAt = p.ExpiresAt.UTC()
	if p.RespondedAt != nil {
		t := p.RespondedAt.UTC()
		p.RespondedAt = &t
	}
}

// Clone returns a deep copy.
func (p *Proposal) Clone() *Proposal {
	c := *p
	c.Guesses = make([]string, len(p.Guesses))
	copy(c.Guesses, p.Guesses)
	if p.Response != nil {
		r := *p.Response
		c.Response = &r
	}
	if p.RespondedAt != nil {
		t := *p.RespondedAt
		c.RespondedAt = &t
	}
	return &c
}
