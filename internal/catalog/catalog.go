// Package catalog holds the per-type presentation copy and the template list.
// The data is embedded at build time and never changes at runtime.
package catalog

import (
	"bytes"
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/sujalbistaa/proposal/internal/models"
)

//go:embed catalog.yaml
var catalogYAML []byte

// TypeConfig is the copy shown for one proposal type.
type TypeConfig struct {
	Type           models.ProposalType `yaml:"type" json:"type"`
	Emoji          string              `yaml:"emoji" json:"emoji"`
	Title          string              `yaml:"title" json:"title"`
	Headline       string              `yaml:"headline" json:"headline"`
	ButtonYes      string              `yaml:"buttonYes" json:"buttonYes"`
	ButtonNo       string              `yaml:"buttonNo" json:"buttonNo"`
	SuccessTitle   string              `yaml:"successTitle" json:"successTitle"`
	SuccessMessage string              `yaml:"successMessage" json:"successMessage"`
	Animation      string              `yaml:"animation" json:"animation"`
}

// TemplateInfo describes one selectable template.
type TemplateInfo struct {
	ID          models.Template `yaml:"id" json:"id"`
	Name        string          `yaml:"name" json:"name"`
	Description string          `yaml:"description" json:"description"`
}

// Catalog is the decoded catalog file.
type Catalog struct {
	Types     []TypeConfig   `yaml:"types" json:"types"`
	Templates []TemplateInfo `yaml:"templates" json:"templates"`

	byType map[models.ProposalType]TypeConfig
}

var defaultCatalog = mustLoad(catalogYAML)

// Default returns the embedded catalog.
func Default() *Catalog {
	return defaultCatalog
}

// Load decodes a catalog and checks that every proposal type has an entry.
func Load(data []byte) (*Catalog, error) {
	var c Catalog
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	c.byType = make(map[models.ProposalType]TypeConfig, len(c.Types))
	for _, tc := range c.Types {
		if !tc.Type.Valid() {
			return nil, fmt.Errorf("catalog: unknown type %q", tc.Type)
		}
		c.byType[tc.Type] = tc
	}
	for _, t := range models.ProposalTypes {
		if _, ok := c.byType[t]; !ok {
			return nil, fmt.Errorf("catalog: missing type %q", t)
		}
	}
	for _, tpl := range c.Templates {
		if !tpl.ID.Valid() {
			return nil, fmt.Errorf("catalog: unknown template %q", tpl.ID)
		}
	}
	return &c, nil
}

func mustLoad(data []byte) *Catalog {
	c, err := Load(data)
	if err != nil {
		panic(err)
	}
	return c
}

// Config returns the copy for t. Unknown types get the valentine copy.
func (c *Catalog) Config(t models.ProposalType) TypeConfig {
	if tc, ok := c.byType[t]; ok {
		return tc
	}
	return c.byType[models.TypeValentine]
}

// Label is the human title of t, used in notification emails.
func (c *Catalog) Label(t models.ProposalType) string {
	return c.Config(t).Title
}

// ParseType maps a raw query value to a proposal type, falling back to
// valentine when the value is missing or unknown.
func ParseType(raw string) models.ProposalType {
	t := models.ProposalType(raw)
	if t.Valid() {
		return t
	}
	return models.TypeValentine
}

// ParseTemplate maps a raw form value to a template, falling back to the default.
func ParseTemplate(raw string) models.Template {
	t := models.Template(raw)
	if t.Valid() {
		return t
	}
	return models.DefaultTemplate
}
