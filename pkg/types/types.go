// Package domain defines the core business types for cardsmith.
package domain

import (
	"slices"
	"time"
)

// Tone is the writing style requested for a product card.
type Tone string

// Tone constants.
const (
	ToneSelling Tone = "selling"
	ToneConcise Tone = "concise"
	ToneExpert  Tone = "expert"
	ToneNeutral Tone = "neutral"
)

// LengthPreset selects a target length for the short description.
type LengthPreset string

// Length preset constants.
const (
	LengthShort  LengthPreset = "short"
	LengthMedium LengthPreset = "medium"
	LengthLong   LengthPreset = "long"
)

// Language is the content language of the generated card.
type Language string

// Language constants.
const (
	LanguageRU Language = "ru"
	LanguageEN Language = "en"
)

// PlatformProfile holds the per-marketplace limits used to prompt the model
// and to post-validate its output. Profiles are never mutated.
type PlatformProfile struct {
	Code           string `json:"code"            example:"ozon"`
	Name           string `json:"name"            example:"Ozon"`
	TitleMax       int    `json:"title_max"       example:"70"`
	DescriptionMax int    `json:"description_max" example:"300"`
	BulletsMin     int    `json:"bullets_min"     example:"3"`
	BulletsMax     int    `json:"bullets_max"     example:"6"`
}

// GenerationRequest is the input to a single pipeline invocation.
type GenerationRequest struct {
	ProductName string       `json:"product_name"`
	Features    string       `json:"features,omitempty"`
	Audience    string       `json:"audience,omitempty"`
	Platform    string       `json:"platform,omitempty"`
	Category    string       `json:"category,omitempty"`
	Tone        Tone         `json:"tone"`
	Length      LengthPreset `json:"length"`
	Language    Language     `json:"language"`

	// Optional sampling overrides. Nil means "use the configured default".
	Temperature *float64 `json:"temperature,omitempty"`
	MaxTokens   *int     `json:"max_tokens,omitempty"`
}

// WithDefaults returns a copy of r with empty tone, length, language and
// platform filled in. Tone defaults to neutral and length to medium.
func (r GenerationRequest) WithDefaults(lang Language, platform string) GenerationRequest {
	if r.Tone == "" {
		r.Tone = ToneNeutral
	}
	if r.Length == "" {
		r.Length = LengthMedium
	}
	if r.Language == "" {
		r.Language = lang
	}
	if r.Platform == "" {
		r.Platform = platform
	}
	return r
}

// ProductCard is the schema produced by the generation pipeline.
type ProductCard struct {
	Title            string   `json:"title"             example:"Wireless Mouse M185"`
	ShortDescription string   `json:"short_description" example:"A quiet, reliable wireless mouse."`
	Bullets          []string `json:"bullets"`
}

// Clone returns a deep copy of the card.
func (c ProductCard) Clone() ProductCard {
	c.Bullets = slices.Clone(c.Bullets)
	if c.Bullets == nil {
		c.Bullets = []string{}
	}
	return c
}

// Generation is a persisted history record of a generated card.
type Generation struct {
	ID               int64     `json:"id"                 db:"id"`
	UserID           string    `json:"user_id"            db:"user_id"`
	Platform         string    `json:"platform"           db:"platform"`
	Language         string    `json:"language"           db:"language"`
	ProductName      string    `json:"product_name"       db:"product_name"`
	Features         string    `json:"features,omitempty" db:"features"`
	Title            string    `json:"title"              db:"title"`
	ShortDescription string    `json:"short_description"  db:"short_description"`
	Bullets          []string  `json:"bullets"            db:"bullets_json"`
	CreatedAt        time.Time `json:"created_at"         db:"created_at"`
}

// Card returns the product card portion of a history record.
func (g *Generation) Card() ProductCard {
	return ProductCard{
		Title:            g.Title,
		ShortDescription: g.ShortDescription,
		Bullets:          slices.Clone(g.Bullets),
	}
}

// HistoryOverview is an aggregate view over all stored generations.
type HistoryOverview struct {
	TotalGenerations int        `json:"total_generations"`
	Users            int        `json:"users"`
	LastGeneratedAt  *time.Time `json:"last_generated_at,omitempty"`
}

// UserCount is the number of generations recorded for a single user.
type UserCount struct {
	UserID  string    `json:"user_id"`
	Count   int       `json:"count"`
	FirstAt time.Time `json:"first_at"`
	LastAt  time.Time `json:"last_at"`
}
