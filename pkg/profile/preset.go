package profile

import domain "github.com/donaldgifford/cardsmith/pkg/types"

// Preset is a product category with extra style guidance for the model.
type Preset struct {
	Code    string   `json:"code"     example:"electronics"`
	NameRU  string   `json:"name_ru"`
	NameEN  string   `json:"name_en"`
	StyleRU []string `json:"style_ru"`
	StyleEN []string `json:"style_en"`
}

// Style returns the guidance lines for a language, falling back to English.
func (p Preset) Style(lang domain.Language) []string {
	if lang == domain.LanguageRU {
		return p.StyleRU
	}
	return p.StyleEN
}

var presets = []Preset{
	{
		Code:   "electronics",
		NameRU: "Электроника",
		NameEN: "Electronics",
		StyleRU: []string{
			"Избегай общих слов типа «высококачественный»; пиши фактами: стандарты, интерфейсы, совместимость.",
			"Не обещай «поддерживает всё»; указывай только то, что есть во вводе.",
		},
		StyleEN: []string{
			"Avoid generic adjectives; focus on facts: standards, interfaces, compatibility.",
			"Do not overpromise; only state features provided in the input.",
		},
	},
	{
		Code:   "apparel",
		NameRU: "Одежда/Обувь",
		NameEN: "Apparel",
		StyleRU: []string{
			"Упор на материал, посадку и уход; избегай оценочных слов.",
			"Размеры и сезонность упоминай только если они есть во вводе.",
		},
		StyleEN: []string{
			"Emphasize material, fit and care; avoid subjective claims.",
			"Mention sizing or seasonality only if provided.",
		},
	},
	{
		Code:    "home",
		NameRU:  "Дом и кухня",
		NameEN:  "Home & Kitchen",
		StyleRU: []string{"Подчеркни практичность и уход; избегай «идеально для всего»."},
		StyleEN: []string{"Highlight practicality and care; avoid 'perfect for everything'."},
	},
	{
		Code:    "beauty",
		NameRU:  "Красота и уход",
		NameEN:  "Beauty",
		StyleRU: []string{"Без медицинских обещаний; говори о текстуре, аромате и способе применения."},
		StyleEN: []string{"No medical claims; talk about texture, scent and application."},
	},
	{
		Code:    "sports",
		NameRU:  "Спорт и туризм",
		NameEN:  "Sports & Outdoors",
		StyleRU: []string{"Практичность и устойчивость материалов; избегай преувеличений."},
		StyleEN: []string{"Practicality and material durability; avoid exaggerations."},
	},
}

// Presets returns all category presets in a stable order.
func Presets() []Preset {
	out := make([]Preset, len(presets))
	copy(out, presets)
	return out
}

// LookupPreset finds a category preset by code (case-insensitive).
func LookupPreset(code string) (Preset, bool) {
	code = normalize(code)
	if code == "" {
		return Preset{}, false
	}
	for _, p := range presets {
		if p.Code == code {
			return p, true
		}
	}
	return Preset{}, false
}
