package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/arissetyawan/indostemmer/internal/fold"
	"github.com/arissetyawan/indostemmer/morph"
)

// Output formats of the analyze command.
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

func newAnalyzeCommand(cli *CLI) *cobra.Command {
	var (
		format  string
		noColor bool
	)

	cmd := &cobra.Command{
		Use:   "analyze <words...>",
		Short: "Show how each word was stemmed",
		Long: `Analyze prints the stem of each word with the prefix and suffix that were
removed, the reduplication rule that resolved a hyphenated compound, and
any affix layers given back to keep the root long enough.`,
		Example: `  indostem analyze membacakan berabad-abad
  indostem analyze --format yaml sayur-dimakan`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := cli.openCache()
			if err != nil {
				return err
			}
			defer cli.closeCache(c)

			analyses := make([]morph.Analysis, len(args))
			for i, w := range args {
				a, err := c.Analyze(fold.String(w))
				if err != nil {
					return err
				}
				cli.metrics.ObserveAnalysis(a)
				analyses[i] = a
			}

			out := cmd.OutOrStdout()
			switch format {
			case formatText:
				return writeText(out, analyses, newPalette(noColor))
			case formatJSON:
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(analyses)
			case formatYAML:
				return writeYAML(out, analyses)
			default:
				return fmt.Errorf("unknown format %q (want %s, %s or %s)", format, formatText, formatJSON, formatYAML)
			}
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", formatText, "output format: text, json, yaml")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored text output")
	return cmd
}

type palette struct {
	stem, detail, warn func(a ...any) string
}

func newPalette(noColor bool) palette {
	stem := color.New(color.FgGreen, color.Bold)
	detail := color.New(color.FgHiBlack)
	warn := color.New(color.FgYellow)
	if noColor {
		stem.DisableColor()
		detail.DisableColor()
		warn.DisableColor()
	}
	return palette{stem: stem.SprintFunc(), detail: detail.SprintFunc(), warn: warn.SprintFunc()}
}

// writeText prints one line per word: the word, its stem, and the debug
// form of the analysis without the leading stem.
func writeText(w io.Writer, analyses []morph.Analysis, p palette) error {
	width := 0
	for _, a := range analyses {
		width = max(width, len(a.Word))
	}
	for _, a := range analyses {
		line := fmt.Sprintf("%-*s  %s%s", width, a.Word, p.stem(a.Stem), p.detail(strings.TrimPrefix(a.String(), a.Stem)))
		if a.Diagnostics.Ambiguous {
			line += " " + p.warn("ambiguous")
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// writeYAML renders the JSON form as block YAML, so field names and enum
// names match the json output.
func writeYAML(w io.Writer, analyses []morph.Analysis) error {
	raw, err := json.Marshal(analyses)
	if err != nil {
		return err
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return err
	}
	blockStyle(&doc)

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return err
	}
	return enc.Close()
}

func blockStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		blockStyle(c)
	}
}
