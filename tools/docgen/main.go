// Command docgen writes reference documentation for the cardsmith server
// and cardctl command trees, one subdirectory per binary.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	ctlcmd "github.com/donaldgifford/cardsmith/cmd/cardctl/cmd"
	servercmd "github.com/donaldgifford/cardsmith/cmd/cardsmith/cmd"
)

// Output formats.
const (
	formatMarkdown = "markdown"
	formatMan      = "man"
	formatYAML     = "yaml"
)

func main() {
	output := flag.String("output", "docs/cli", "output directory")
	format := flag.String("format", formatMarkdown, "output format: markdown, man, yaml")
	flag.Parse()

	if err := generateAll(*output, *format, commandTrees()); err != nil {
		log.Fatalf("generating docs: %v", err)
	}
	fmt.Printf("CLI docs (%s) generated in %s/\n", *format, *output)
}

func commandTrees() []*cobra.Command {
	return []*cobra.Command{servercmd.Root(), ctlcmd.Root()}
}

// generateAll writes every tree under output/<binary name>.
func generateAll(output, format string, roots []*cobra.Command) error {
	gen, err := generatorFor(format)
	if err != nil {
		return err
	}
	for _, root := range roots {
		dir := filepath.Join(output, root.Name())
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
		root.DisableAutoGenTag = true
		if err := gen(root, dir); err != nil {
			return fmt.Errorf("%s: %w", root.Name(), err)
		}
	}
	return nil
}

func generatorFor(format string) (func(*cobra.Command, string) error, error) {
	switch strings.ToLower(format) {
	case formatMarkdown:
		return doc.GenMarkdownTree, nil
	case formatMan:
		return func(root *cobra.Command, dir string) error {
			return doc.GenManTree(root, &doc.GenManHeader{
				Title:   strings.ToUpper(root.Name()),
				Section: "1",
				Source:  "cardsmith",
			}, dir)
		}, nil
	case formatYAML:
		return doc.GenYamlTree, nil
	default:
		return nil, fmt.Errorf("unknown format %q (want markdown, man or yaml)", format)
	}
}
