package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	apiclient "github.com/donaldgifford/cardsmith/internal/api/client"
	"github.com/donaldgifford/cardsmith/pkg/profile"
	domain "github.com/donaldgifford/cardsmith/pkg/types"
)

const timeLayout = "2006-01-02 15:04:05"

// tabWriter wraps tabwriter with error tracking.
type tabWriter struct {
	*tabwriter.Writer
	err error
}

func newTabWriter(w io.Writer) *tabWriter {
	return &tabWriter{Writer: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
}

func (tw *tabWriter) writef(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.Writer, format, args...)
}

func (tw *tabWriter) finish() error {
	if tw.err != nil {
		return tw.err
	}
	return tw.Flush()
}

func printCard(w io.Writer, r *apiclient.GenerateResult) error {
	tw := newTabWriter(w)
	if r.GenerationID > 0 {
		tw.writef("ID:\t%d\n", r.GenerationID)
	}
	tw.writef("Platform:\t%s\n", r.Platform)
	tw.writef("Language:\t%s\n", r.Language)
	tw.writef("Title:\t%s\n", r.Card.Title)
	tw.writef("Description:\t%s\n", r.Card.ShortDescription)
	if err := tw.finish(); err != nil {
		return err
	}
	return printBullets(w, r.Card.Bullets)
}

func printBullets(w io.Writer, bullets []string) error {
	if len(bullets) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "Bullets:"); err != nil {
		return err
	}
	for _, b := range bullets {
		if _, err := fmt.Fprintf(w, "  - %s\n", b); err != nil {
			return err
		}
	}
	return nil
}

func printGenerationsTable(w io.Writer, gens []domain.Generation) error {
	tw := newTabWriter(w)
	tw.writef("ID\tCREATED\tUSER\tPLATFORM\tLANG\tPRODUCT\tTITLE\n")
	for i := range gens {
		g := &gens[i]
		tw.writef("%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			g.ID,
			g.CreatedAt.Local().Format(timeLayout),
			g.UserID,
			g.Platform,
			g.Language,
			truncate(g.ProductName, 30),
			truncate(g.Title, 50),
		)
	}
	return tw.finish()
}

func printGenerationDetail(w io.Writer, g *domain.Generation) error {
	tw := newTabWriter(w)
	tw.writef("ID:\t%d\n", g.ID)
	tw.writef("Created:\t%s\n", g.CreatedAt.Local().Format(timeLayout))
	tw.writef("User:\t%s\n", g.UserID)
	tw.writef("Platform:\t%s\n", g.Platform)
	tw.writef("Language:\t%s\n", g.Language)
	tw.writef("Input:\t%s\n", g.ProductName)
	if g.Features != "" {
		tw.writef("Features:\t%s\n", g.Features)
	}
	tw.writef("Title:\t%s\n", g.Title)
	tw.writef("Description:\t%s\n", g.ShortDescription)
	if err := tw.finish(); err != nil {
		return err
	}
	return printBullets(w, g.Bullets)
}

func printProfilesTable(w io.Writer, profiles []domain.PlatformProfile) error {
	tw := newTabWriter(w)
	tw.writef("CODE\tNAME\tTITLE MAX\tDESCRIPTION MAX\tBULLETS\n")
	for _, p := range profiles {
		tw.writef("%s\t%s\t%d\t%d\t%d-%d\n",
			p.Code, p.Name, p.TitleMax, p.DescriptionMax, p.BulletsMin, p.BulletsMax)
	}
	return tw.finish()
}

func printPresetsTable(w io.Writer, presets []profile.Preset) error {
	tw := newTabWriter(w)
	tw.writef("CODE\tNAME\tNAME (RU)\n")
	for _, p := range presets {
		tw.writef("%s\t%s\t%s\n", p.Code, p.NameEN, p.NameRU)
	}
	return tw.finish()
}

func printStats(w io.Writer, s *apiclient.StatsResponse) error {
	tw := newTabWriter(w)
	tw.writef("Generations:\t%d\n", s.Overview.TotalGenerations)
	tw.writef("Users:\t%d\n", s.Overview.Users)
	last := "-"
	if s.Overview.LastGeneratedAt != nil {
		last = s.Overview.LastGeneratedAt.Local().Format(timeLayout)
	}
	tw.writef("Last generated:\t%s\n", last)
	if s.Cache != nil {
		tw.writef("Cache:\t%d entries, %d hits, %d misses, %d evictions\n",
			s.Cache.Entries, s.Cache.Hits, s.Cache.Misses, s.Cache.Evictions)
	}
	if err := tw.finish(); err != nil {
		return err
	}
	if len(s.TopUsers) == 0 {
		return nil
	}

	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	tw = newTabWriter(w)
	tw.writef("USER\tCOUNT\tFIRST\tLAST\n")
	for _, u := range s.TopUsers {
		tw.writef("%s\t%d\t%s\t%s\n", u.UserID, u.Count, formatTime(u.FirstAt), formatTime(u.LastAt))
	}
	return tw.finish()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(timeLayout)
}

func outputJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// truncate shortens s to maxLen runes.
func truncate(s string, maxLen int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
