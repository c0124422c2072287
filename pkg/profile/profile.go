// Package profile holds the static marketplace, tone, length and category
// registries used to prompt the model and to enforce its output.
package profile

import (
	"strings"

	domain "github.com/donaldgifford/cardsmith/pkg/types"
)

// DefaultCode is the profile used for unknown or empty platform codes.
const DefaultCode = "ozon"

// defaultDescriptionTarget is used for unknown length presets.
const defaultDescriptionTarget = 300

var profiles = map[string]domain.PlatformProfile{
	"ozon": {
		Code: "ozon", Name: "Ozon",
		TitleMax: 70, DescriptionMax: 300, BulletsMin: 3, BulletsMax: 6,
	},
	"wb": {
		Code: "wb", Name: "Wildberries",
		TitleMax: 70, DescriptionMax: 300, BulletsMin: 3, BulletsMax: 6,
	},
	"etsy": {
		Code: "etsy", Name: "Etsy",
		TitleMax: 130, DescriptionMax: 1000, BulletsMin: 3, BulletsMax: 10,
	},
	"shopify": {
		Code: "shopify", Name: "Shopify",
		TitleMax: 80, DescriptionMax: 500, BulletsMin: 3, BulletsMax: 8,
	},
}

// profileOrder fixes the listing order of Profiles.
var profileOrder = []string{"ozon", "wb", "etsy", "shopify"}

// Resolve returns the profile for a platform code. Unknown or empty codes
// resolve to the default profile.
func Resolve(code string) domain.PlatformProfile {
	if p, ok := profiles[normalize(code)]; ok {
		return p
	}
	return profiles[DefaultCode]
}

// Known reports whether code names a registered platform.
func Known(code string) bool {
	_, ok := profiles[normalize(code)]
	return ok
}

// Profiles returns all registered profiles in a stable order.
func Profiles() []domain.PlatformProfile {
	out := make([]domain.PlatformProfile, 0, len(profileOrder))
	for _, code := range profileOrder {
		out = append(out, profiles[code])
	}
	return out
}

var lengthTargets = map[domain.LengthPreset]int{
	domain.LengthShort:  150,
	domain.LengthMedium: 300,
	domain.LengthLong:   500,
}

// DescriptionTarget returns the target description length for a preset.
func DescriptionTarget(length domain.LengthPreset) int {
	if n, ok := lengthTargets[domain.LengthPreset(normalize(string(length)))]; ok {
		return n
	}
	return defaultDescriptionTarget
}

// EffectiveDescriptionLimit is the length preset target capped by the
// profile's description limit.
func EffectiveDescriptionLimit(p domain.PlatformProfile, length domain.LengthPreset) int {
	return min(DescriptionTarget(length), p.DescriptionMax)
}

var toneLabels = map[domain.Language]map[domain.Tone]string{
	domain.LanguageEN: {
		domain.ToneSelling: "selling/persuasive",
		domain.ToneConcise: "concise",
		domain.ToneExpert:  "expert/credible",
		domain.ToneNeutral: "neutral",
	},
	domain.LanguageRU: {
		domain.ToneSelling: "продающий/убеждающий",
		domain.ToneConcise: "лаконичный",
		domain.ToneExpert:  "экспертный/достоверный",
		domain.ToneNeutral: "нейтральный",
	},
}

// ToneLabel returns the prompt label for a tone in the given language.
// Unknown tones are passed through verbatim.
func ToneLabel(lang domain.Language, tone domain.Tone) string {
	labels, ok := toneLabels[lang]
	if !ok {
		labels = toneLabels[domain.LanguageEN]
	}
	if label, ok := labels[domain.Tone(normalize(string(tone)))]; ok {
		return label
	}
	return string(tone)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
