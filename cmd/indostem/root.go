package main

import (
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/arissetyawan/indostemmer/internal/config"
	"github.com/arissetyawan/indostemmer/internal/logging"
	"github.com/arissetyawan/indostemmer/internal/metrics"
	"github.com/arissetyawan/indostemmer/internal/stemcache"
	"github.com/arissetyawan/indostemmer/morph"
)

// CLI holds the state shared by all subcommands. It is filled in by the
// root command's PersistentPreRunE.
type CLI struct {
	v          *viper.Viper
	configFile string

	cfg      config.Config
	log      *slog.Logger
	registry *prometheus.Registry
	metrics  *metrics.Metrics
}

// NewRootCommand creates the root cobra command.
func NewRootCommand() *cobra.Command {
	cli := &CLI{v: config.New()}

	rootCmd := &cobra.Command{
		Use:   "indostem",
		Short: "Rule-based Indonesian stemmer",
		Long: `indostem strips Indonesian prefixes, suffixes and particles to recover
root forms for search indexing. Hyphenated reduplications (buku-buku,
berabad-abad) are resolved to a single root. No dictionary is used.

Settings are read from --config or indostem.yaml in the working or home
directory, then INDOSTEM_* environment variables, then flags.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return cli.initialize(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&cli.configFile, "config", "c", "", "config file (default indostem.yaml in . or $HOME)")
	flags.String("log-level", config.DefaultLogLevel, "log level: debug, info, warn, error")
	flags.String("log-format", config.DefaultLogFormat, "log format: text, json")
	flags.Bool("strip-bare-prefix", false, "strip prefixes even when no suffix was removed")
	flags.Int("cache-size", stemcache.DefaultSize, "in-memory stem cache entries")
	flags.String("cache-path", "", "directory of a persistent stem cache")

	rootCmd.AddCommand(newStemCommand(cli))
	rootCmd.AddCommand(newAnalyzeCommand(cli))
	rootCmd.AddCommand(newAuditCommand(cli))
	rootCmd.AddCommand(newServeCommand(cli))

	return rootCmd
}

// flagKeys maps configuration keys to the flags that override them. A flag
// overrides the file and the environment only when it is set explicitly.
var flagKeys = map[string]string{
	"log.level":              "log-level",
	"log.format":             "log-format",
	"stem.strip_bare_prefix": "strip-bare-prefix",
	"cache.size":             "cache-size",
	"cache.path":             "cache-path",
	"pipeline.workers":       "workers",
	"server.addr":            "addr",
}

// bind ties the keys to the flags of the running command. Subcommands share
// flag names, so binding waits until the command is known.
func (cli *CLI) bind(flags *pflag.FlagSet) error {
	for key, name := range flagKeys {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := cli.v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("binding flag %s: %w", name, err)
		}
	}
	return nil
}

func (cli *CLI) initialize(cmd *cobra.Command) error {
	if err := cli.bind(cmd.Flags()); err != nil {
		return err
	}
	cfg, err := config.Load(cli.v, cli.configFile)
	if err != nil {
		return err
	}
	cli.cfg = cfg

	logCfg := cfg.Logging()
	logCfg.Output = cmd.ErrOrStderr()
	cli.log = logging.New(logCfg)

	cli.registry = prometheus.NewRegistry()
	cli.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	cli.metrics = metrics.MustNew(cli.registry)

	cli.log.Debug("configuration loaded", "file", cli.v.ConfigFileUsed())
	return nil
}

// openCache builds the configured stemmer behind its cache. The caller
// must close it.
func (cli *CLI) openCache() (*stemcache.Cache, error) {
	stemmer := morph.New(morph.Options{StripBarePrefix: cli.cfg.Stem.StripBarePrefix})
	c, err := stemcache.New(stemmer, cli.cfg.StemCache(), cli.metrics)
	if err != nil {
		return nil, fmt.Errorf("opening stem cache: %w", err)
	}
	cli.log.Debug("stem cache opened", "persistent", c.Persistent(), "size", cli.cfg.Cache.Size)
	return c, nil
}

func (cli *CLI) closeCache(c *stemcache.Cache) {
	if err := c.Close(); err != nil {
		cli.log.Error("closing stem cache", "error", err)
	}
}
