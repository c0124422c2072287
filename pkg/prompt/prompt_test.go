package prompt_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/donaldgifford/cardsmith/pkg/prompt"
	domain "github.com/donaldgifford/cardsmith/pkg/types"
)

func TestBuild(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		req         domain.GenerationRequest
		wantContain []string
		wantAbsent  []string
	}{
		{
			name: "english with all fields",
			req: domain.GenerationRequest{
				ProductName: "Wireless Mouse M185",
				Features:    "2.4GHz, silent clicks, 12-month battery",
				Audience:    "office workers",
				Platform:    "ozon",
				Tone:        domain.ToneNeutral,
				Length:      domain.LengthMedium,
				Language:    domain.LanguageEN,
			},
			wantContain: []string{
				"Platform: Ozon",
				"Product name: Wireless Mouse M185",
				"Tone: neutral",
				"Target audience: office workers",
				"Key features/specs: 2.4GHz, silent clicks, 12-month battery",
				"Bullets are short noun phrases",
				"title <= 70 chars",
				"short_description <= 300 chars",
				"bullets 3-6 items",
				"do not invent specifications",
			},
		},
		{
			name: "optional fields omitted",
			req: domain.GenerationRequest{
				ProductName: "Mug",
				Tone:        domain.ToneConcise,
				Length:      domain.LengthShort,
				Language:    domain.LanguageEN,
			},
			wantContain: []string{"Product name: Mug", "short_description <= 150 chars"},
			wantAbsent:  []string{"Platform:", "Target audience:", "Key features/specs:", "Style:"},
		},
		{
			name: "russian instructions",
			req: domain.GenerationRequest{
				ProductName: "Мышь Logitech M185",
				Platform:    "wb",
				Tone:        domain.ToneSelling,
				Length:      domain.LengthLong,
				Language:    domain.LanguageRU,
			},
			wantContain: []string{
				"Площадка: Wildberries",
				"Название товара: Мышь Logitech M185",
				"Тон: продающий/убеждающий",
				"Без рекламных слов",
				"short_description <= 300 символов",
			},
			wantAbsent: []string{"Product name:"},
		},
		{
			name: "etsy long uses larger limits",
			req: domain.GenerationRequest{
				ProductName: "Ceramic vase",
				Platform:    "etsy",
				Tone:        domain.ToneExpert,
				Length:      domain.LengthLong,
				Language:    domain.LanguageEN,
			},
			wantContain: []string{"title <= 130 chars", "short_description <= 500 chars", "bullets 3-10 items"},
		},
		{
			name: "unknown platform is named but gets default limits",
			req: domain.GenerationRequest{
				ProductName: "Lamp",
				Platform:    "kaspi",
				Language:    domain.LanguageEN,
			},
			wantContain: []string{"Platform: kaspi", "title <= 70 chars"},
			wantAbsent:  []string{"Style:"},
		},
		{
			name: "category guidance",
			req: domain.GenerationRequest{
				ProductName: "USB-C hub",
				Category:    "electronics",
				Language:    domain.LanguageEN,
			},
			wantContain: []string{"Category guidance: Avoid generic adjectives"},
		},
		{
			name: "unsupported language falls back to english",
			req: domain.GenerationRequest{
				ProductName: "Lamp",
				Language:    "de",
			},
			wantContain: []string{"Product name: Lamp", "Write the card in English."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := prompt.Build(tt.req)
			require.NoError(t, err)
			for _, s := range tt.wantContain {
				assert.Contains(t, got, s)
			}
			for _, s := range tt.wantAbsent {
				assert.NotContains(t, got, s)
			}
		})
	}
}

func TestBuild_NoFabricatedFacts(t *testing.T) {
	t.Parallel()

	got, err := prompt.Build(domain.GenerationRequest{
		ProductName: "Notebook",
		Language:    domain.LanguageEN,
	})
	require.NoError(t, err)
	assert.NotContains(t, got, "GHz")
	assert.NotContains(t, got, "battery")
	assert.False(t, strings.HasPrefix(got, "\n"))
}

func TestBuildRepair(t *testing.T) {
	t.Parallel()

	got := prompt.BuildRepair(`Sure! {"title": "x"`)
	assert.Contains(t, got, "strict JSON")
	assert.True(t, strings.HasSuffix(got, `Sure! {"title": "x"`))
}
