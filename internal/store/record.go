package store

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	domain "github.com/donaldgifford/cardsmith/pkg/types"
)

// prepare normalizes a generation before insert and encodes its bullets.
func prepare(g *domain.Generation, now func() time.Time) ([]byte, error) {
	g.Platform = strings.ToLower(strings.TrimSpace(g.Platform))
	if g.CreatedAt.IsZero() {
		g.CreatedAt = now()
	}
	// Millisecond precision survives both databases unchanged.
	g.CreatedAt = g.CreatedAt.UTC().Truncate(time.Millisecond)
	if g.Bullets == nil {
		g.Bullets = []string{}
	}

	bullets, err := json.Marshal(g.Bullets)
	if err != nil {
		return nil, fmt.Errorf("encoding bullets: %w", err)
	}
	return bullets, nil
}

func decodeBullets(raw []byte) ([]string, error) {
	bullets := []string{}
	if len(raw) == 0 {
		return bullets, nil
	}
	if err := json.Unmarshal(raw, &bullets); err != nil {
		return nil, fmt.Errorf("decoding bullets: %w", err)
	}
	return bullets, nil
}
