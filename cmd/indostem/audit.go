package main

import (
	"github.com/spf13/cobra"

	"github.com/arissetyawan/indostemmer/internal/audit"
	"github.com/arissetyawan/indostemmer/internal/config"
)

func newAuditCommand(cli *CLI) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit <directory>",
		Short: "Check the tokenizer and stemmer over a corpus",
		Long: `Audit walks a directory for .txt files and stems every word. It reports
token and reduplication rule distributions, the most frequent ambiguous
compounds, and any file where the tokens fail to reconstruct the text, a
stem falls outside its word, or the share of changed words is far above
the corpus median.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := cli.openCache()
			if err != nil {
				return err
			}
			defer cli.closeCache(c)

			report, err := audit.New(c, cli.cfg.Pipeline.Workers, cli.log).Run(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			report.Print(cmd.OutOrStdout())
			return nil
		},
	}

	cmd.Flags().IntP("workers", "w", config.DefaultWorkers, "files scanned concurrently")
	return cmd
}
