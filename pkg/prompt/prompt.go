// Package prompt renders the instructions sent to the LLM for product card
// generation and for the repair pass.
package prompt

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/donaldgifford/cardsmith/pkg/profile"
	domain "github.com/donaldgifford/cardsmith/pkg/types"
)

// SystemPrompt is sent with every primary generation call.
const SystemPrompt = "You are an assistant that writes concise, compelling e-commerce product cards. " +
	"Always return strict, valid JSON with keys: title, short_description, bullets (array of strings). " +
	"No markdown, no extra text besides JSON."

// RepairSystemPrompt is sent with repair calls that convert a previous
// answer into strict JSON.
const RepairSystemPrompt = "You fix and normalize outputs to strict JSON. " +
	"Return only valid JSON with keys: title, short_description, bullets (array of strings). " +
	"No commentary, no markdown."

const enTmpl = `{{if .Platform}}Platform: {{.Platform}}
{{end}}Product name: {{.ProductName}}
Tone: {{.Tone}}
{{if .Audience}}Target audience: {{.Audience}}
{{end}}{{if .Features}}Key features/specs: {{.Features}}
{{end}}{{range .CategoryStyle}}Category guidance: {{.}}
{{end}}{{range .PlatformStyle}}Style: {{.}}
{{end}}Use only the facts given above; do not invent specifications, sizes, certifications or numbers.
Write the card in English.
Output strict JSON with fields: title, short_description, bullets (array).
Constraints: title <= {{.TitleMax}} chars; short_description <= {{.DescriptionMax}} chars; bullets {{.BulletsMin}}-{{.BulletsMax}} items; no markdown; no extra text.`

const ruTmpl = `{{if .Platform}}Площадка: {{.Platform}}
{{end}}Название товара: {{.ProductName}}
Тон: {{.Tone}}
{{if .Audience}}Целевая аудитория: {{.Audience}}
{{end}}{{if .Features}}Ключевые характеристики: {{.Features}}
{{end}}{{range .CategoryStyle}}Рекомендации для категории: {{.}}
{{end}}{{range .PlatformStyle}}Стиль: {{.}}
{{end}}Используй только факты из ввода; не придумывай характеристики, размеры, сертификаты и числа.
Пиши карточку на русском языке.
Верни строгий JSON с полями: title, short_description, bullets (массив строк).
Ограничения: title <= {{.TitleMax}} символов; short_description <= {{.DescriptionMax}} символов; bullets {{.BulletsMin}}-{{.BulletsMax}} пунктов; без markdown; без лишнего текста.`

const repairTmpl = `Convert the following text into strict JSON with keys: title, short_description, bullets (array).
Only output the JSON.

Text:
{{.}}`

var (
	templates = map[domain.Language]*template.Template{
		domain.LanguageEN: template.Must(template.New("en").Parse(enTmpl)),
		domain.LanguageRU: template.Must(template.New("ru").Parse(ruTmpl)),
	}
	repairTemplate = template.Must(template.New("repair").Parse(repairTmpl))
)

// platformStyle is per-language, per-marketplace listing guidance.
var platformStyle = map[domain.Language]map[string][]string{
	domain.LanguageEN: {
		"ozon": {
			"Bullets are short noun phrases without a trailing period.",
			"Put the product type and brand first in the title.",
		},
		"wb": {
			"Bullets are short noun phrases without a trailing period.",
			"Keep the title free of promotional words and capital-letter shouting.",
		},
		"etsy": {
			"Lead the title with the most searchable words; a warm, personal voice is welcome.",
			"Bullets may be full sentences describing materials, use and care.",
		},
		"shopify": {
			"Lead bullets with the customer benefit, then the supporting feature.",
		},
	},
	domain.LanguageRU: {
		"ozon": {
			"Пункты — короткие фразы без точки в конце.",
			"В начале заголовка — тип товара и бренд.",
		},
		"wb": {
			"Пункты — короткие фразы без точки в конце.",
			"Без рекламных слов и капслока в заголовке.",
		},
		"etsy": {
			"Начинай заголовок с самых поисковых слов; допустим тёплый, личный тон.",
			"Пункты могут быть полными предложениями о материалах, применении и уходе.",
		},
		"shopify": {
			"Начинай пункты с выгоды для покупателя, затем — подтверждающая характеристика.",
		},
	},
}

// Data holds the template variables for generation prompts.
type Data struct {
	Platform       string
	ProductName    string
	Tone           string
	Audience       string
	Features       string
	CategoryStyle  []string
	PlatformStyle  []string
	TitleMax       int
	DescriptionMax int
	BulletsMin     int
	BulletsMax     int
}

// Build renders the generation prompt for a request in its content
// language. Unknown languages fall back to English.
func Build(req domain.GenerationRequest) (string, error) {
	lang := normalizeLanguage(req.Language)
	p := profile.Resolve(req.Platform)

	data := Data{
		ProductName:    strings.TrimSpace(req.ProductName),
		Tone:           profile.ToneLabel(lang, req.Tone),
		Audience:       strings.TrimSpace(req.Audience),
		Features:       strings.TrimSpace(req.Features),
		TitleMax:       p.TitleMax,
		DescriptionMax: profile.EffectiveDescriptionLimit(p, req.Length),
		BulletsMin:     p.BulletsMin,
		BulletsMax:     p.BulletsMax,
	}
	if platform := strings.TrimSpace(req.Platform); platform != "" {
		data.Platform = platform
		if profile.Known(platform) {
			data.Platform = profile.Resolve(platform).Name
			data.PlatformStyle = platformStyle[lang][p.Code]
		}
	}
	if preset, ok := profile.LookupPreset(req.Category); ok {
		data.CategoryStyle = preset.Style(lang)
	}

	var buf bytes.Buffer
	if err := templates[lang].Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering %s generation prompt: %w", lang, err)
	}
	return buf.String(), nil
}

// BuildRepair renders the repair prompt embedding the model's previous answer.
func BuildRepair(previousRaw string) string {
	var buf bytes.Buffer
	// The template only interpolates a string; Execute cannot fail here.
	_ = repairTemplate.Execute(&buf, previousRaw)
	return buf.String()
}

func normalizeLanguage(lang domain.Language) domain.Language {
	l := domain.Language(strings.ToLower(strings.TrimSpace(string(lang))))
	if _, ok := templates[l]; ok {
		return l
	}
	return domain.LanguageEN
}
