// Command franklin converts variant exports into spreadsheet reports.
//
//	franklin -i sample.txt exports/
//	franklin preview sample.xlsx -o sample.html
package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/aerissecure/franklin"
	"github.com/aerissecure/franklin/internal/config"
)

type rootFlags struct {
	inputs    []string
	config    string
	outputDir string
	geneMatch string
	noVerify  bool
	logLevel  string
}

func main() {
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).With().Timestamp().Logger()
	if err := newRootCommand(&log).Execute(); err != nil {
		log.Error().Err(err).Msg("> error")
		os.Exit(1)
	}
}

func newRootCommand(log *zerolog.Logger) *cobra.Command {
	var f rootFlags
	cmd := &cobra.Command{
		Use:           "franklin -i <file|dir>...",
		Short:         "Build variant spreadsheet reports from tab-separated exports",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// -i a.txt b.txt leaves b.txt as a positional argument
			inputs := append(f.inputs, args...)

			cfg, err := config.Load(f.config)
			if err != nil {
				return err
			}
			applyFlags(cmd, &cfg, f)
			if err := cfg.Validate(); err != nil {
				return err
			}

			level, _ := cfg.Level()
			policy, _ := cfg.GenePolicy()
			*log = log.Level(level)

			opts := franklin.DefaultOptions()
			opts.Extension = cfg.Extension
			opts.OutputDir = cfg.OutputDir
			opts.GeneMatch = policy
			opts.Verify = cfg.Verify
			opts.Logger = *log

			written, err := franklin.Run(inputs, opts)
			if err != nil {
				return err
			}
			log.Info().Int("reports", len(written)).Msg("done")
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&f.inputs, "inputs", "i", nil, "input file(s) or folder(s), space or comma separated")
	cmd.Flags().StringVar(&f.config, "config", "", "YAML settings file")
	cmd.Flags().StringVarP(&f.outputDir, "output-dir", "o", "", "write reports here instead of next to the inputs")
	cmd.Flags().StringVar(&f.geneMatch, "gene-match", "", "clinical gene matching: exact or fold")
	cmd.Flags().BoolVar(&f.noVerify, "no-verify", false, "skip re-reading reports before moving them into place")
	cmd.Flags().StringVar(&f.logLevel, "log-level", "", "debug, info, warn or error")
	cmd.MarkFlagRequired("inputs")

	cmd.AddCommand(newPreviewCommand())
	return cmd
}

// applyFlags overrides cfg with the flags set on the command line.
func applyFlags(cmd *cobra.Command, cfg *config.Config, f rootFlags) {
	flags := cmd.Flags()
	if flags.Changed("output-dir") {
		cfg.OutputDir = f.outputDir
	}
	if flags.Changed("gene-match") {
		cfg.GeneMatch = f.geneMatch
	}
	if flags.Changed("no-verify") {
		cfg.Verify = !f.noVerify
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
}
