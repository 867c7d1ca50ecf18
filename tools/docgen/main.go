// Package main generates reference documentation for the hwaccess CLI as
// markdown pages, man pages or YAML.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"github.com/shady333/gettingHWaccess/cmd/hwaccess/cmd"
)

func main() {
	output := flag.String("output", "docs/cli", "output directory for generated docs")
	format := flag.String("format", "markdown", "output format: markdown, man, yaml")
	flag.Parse()

	if err := generate(cmd.Root(), *format, *output); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("CLI %s docs generated in %s/\n", *format, *output)
}

func generate(root *cobra.Command, format, dir string) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	root.DisableAutoGenTag = true

	var err error
	switch format {
	case "markdown":
		err = doc.GenMarkdownTree(root, dir)
	case "man":
		err = doc.GenManTree(root, &doc.GenManHeader{
			Title:   "HWACCESS",
			Section: "1",
			Source:  "hwaccess " + cmd.Version,
		}, dir)
	case "yaml":
		err = doc.GenYamlTree(root, dir)
	default:
		return fmt.Errorf("unknown format %q (want markdown, man or yaml)", format)
	}
	if err != nil {
		return fmt.Errorf("generating %s docs: %w", format, err)
	}
	return nil
}
