package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/arissetyawan/indostemmer/internal/config"
	"github.com/arissetyawan/indostemmer/pipeline"
)

func newStemCommand(cli *CLI) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "stem [files...]",
		Short: "Stem files, or stdin, to stdout",
		Long: `Stem reads each file line by line, lowercases it, and replaces every
word with its root. Punctuation and whitespace pass through unchanged;
parentheses are dropped. With no files, stdin is read.

Files are processed concurrently but written in argument order. A file
that cannot be read is reported and the others still complete.`,
		Example: `  echo "Buku-buku itu bukunya." | indostem stem
  indostem stem -w 8 -o stems.txt corpus/*.txt`,
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			c, err := cli.openCache()
			if err != nil {
				return err
			}
			defer cli.closeCache(c)

			var out io.Writer = cmd.OutOrStdout()
			if output != "" {
				f, ferr := os.Create(output)
				if ferr != nil {
					return fmt.Errorf("creating output: %w", ferr)
				}
				defer func() {
					if cerr := f.Close(); cerr != nil && err == nil {
						err = fmt.Errorf("closing output: %w", cerr)
					}
				}()
				out = f
			}

			proc := pipeline.New(c, cli.log, cli.metrics)
			var stats pipeline.Stats
			if len(args) == 0 {
				stats, err = proc.Process(cmd.Context(), cmd.InOrStdin(), out)
			} else {
				stats, err = proc.ProcessFiles(cmd.Context(), args, cli.cfg.Pipeline.Workers, out)
			}
			cli.log.Info("stemming finished",
				"lines", stats.Lines,
				"tokens", stats.Tokens,
				"changed", stats.Changed,
				"ambiguous", stats.Ambiguous)
			return err
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write to this file instead of stdout")
	cmd.Flags().IntP("workers", "w", config.DefaultWorkers, "files stemmed concurrently")
	return cmd
}
