package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestGenerateAll(t *testing.T) {
	tests := []struct {
		format string
		want   []string
	}{
		{
			format: formatMarkdown,
			want: []string{
				"cardsmith/cardsmith.md",
				"cardsmith/cardsmith_generate.md",
				"cardctl/cardctl.md",
				"cardctl/cardctl_history_list.md",
				"cardctl/cardctl_export.md",
			},
		},
		{
			format: formatMan,
			want:   []string{"cardsmith/cardsmith-serve.1", "cardctl/cardctl-history-show.1"},
		},
		{
			format: formatYAML,
			want:   []string{"cardsmith/cardsmith_migrate.yaml", "cardctl/cardctl_presets.yaml"},
		},
	}

	// The command trees are package globals; subtests run sequentially.
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			dir := t.TempDir()
			if err := generateAll(dir, tt.format, commandTrees()); err != nil {
				t.Fatalf("generateAll: %v", err)
			}
			for _, name := range tt.want {
				if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
					t.Errorf("expected %s: %v", name, err)
				}
			}
		})
	}
}

func TestGenerateAll_MarkdownMentionsFlags(t *testing.T) {
	dir := t.TempDir()
	if err := generateAll(dir, formatMarkdown, commandTrees()); err != nil {
		t.Fatalf("generateAll: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "cardsmith", "cardsmith_generate.md"))
	if err != nil {
		t.Fatalf("reading generated page: %v", err)
	}
	for _, flag := range []string{"--platform", "--lang", "--features"} {
		if !strings.Contains(string(data), flag) {
			t.Errorf("generate page missing %s", flag)
		}
	}
	if strings.Contains(string(data), "Auto generated by spf13/cobra") {
		t.Error("expected auto-gen tag to be disabled")
	}
}

func TestGenerateAll_UnknownFormat(t *testing.T) {
	dir := t.TempDir()
	err := generateAll(dir, "html", commandTrees())
	if err == nil || !strings.Contains(err.Error(), `unknown format "html"`) {
		t.Fatalf("err=%v, want unknown format", err)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("expected nothing written, got %d entries", len(entries))
	}
}
