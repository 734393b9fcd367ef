// Package main provides the vcfindex command-line tool.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Exit codes
const (
	ExitSuccess = 0
	ExitError   = 1
	ExitUsage   = 2
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// usageError marks errors caused by bad invocation rather than bad data.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func usagef(format string, args ...any) error {
	return &usageError{err: fmt.Errorf(format, args...)}
}

// exactArgs is cobra.ExactArgs reporting a usage error.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != n {
			return usagef("%s: expected %d argument(s), got %d", cmd.Name(), n, len(args))
		}
		return nil
	}
}

// minArgs is cobra.MinimumNArgs reporting a usage error.
func minArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < n {
			return usagef("%s: expected at least %d argument(s), got %d", cmd.Name(), n, len(args))
		}
		return nil
	}
}

func run(args []string, stdout, stderr io.Writer) int {
	viper.Reset()
	root := newRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	if logger != nil {
		_ = logger.Sync()
	}
	if err == nil {
		return ExitSuccess
	}

	fmt.Fprintf(stderr, "Error: %v\n", err)
	var ue *usageError
	if errors.As(err, &ue) || strings.HasPrefix(err.Error(), "unknown command") ||
		strings.HasPrefix(err.Error(), "unknown flag") {
		fmt.Fprintf(stderr, "Run 'vcfindex --help' for usage.\n")
		return ExitUsage
	}
	if errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(stderr, "Hint: Check that the file path is correct\n")
	}
	return ExitError
}

var (
	cfgFile string
	verbose bool
	logger  *zap.Logger
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vcfindex",
		Short: "Coordinate-aware queries over VCF files",
		Long: `vcfindex loads VCF records into a sorted, coordinate-aware in-memory index
and answers point and interval queries against it.

Chromosome order comes from a reference genome: a FASTA file (or its .fai
index) given with --genome or the "genome" config key.`,
		Example: `  vcfindex stats --genome ref.fa calls.vcf.gz
  vcfindex query --genome ref.fa calls.vcf chr1:12345 chr2:500
  vcfindex count --genome ref.fa --mask low_complexity.bed calls.vcf chr1 1 100000
  vcfindex separate --genome ref.fa -o split.vcf.gz calls.vcf
  vcfindex export --genome ref.fa --db calls.duckdb calls.vcf`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initConfig(cmd); err != nil {
				return err
			}
			l, err := newLogger(viper.GetString("log.level"), verbose, cmd.ErrOrStderr())
			if err != nil {
				return usagef("%v", err)
			}
			logger = l
			return nil
		},
	}
	cmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	pf := cmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "Config file (default: ~/.vcfindex.yaml)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	pf.String("genome", "", "Reference FASTA or .fai defining chromosome order")
	pf.Bool("with-multibase", false, "Keep records whose alleles span more than one base")
	pf.Bool("lenient", false, "Skip malformed VCF lines instead of failing")
	pf.Int("max-skipped", 0, "With --lenient, fail after this many skipped lines (0 = no limit)")

	_ = viper.BindPFlag("genome", pf.Lookup("genome"))
	_ = viper.BindPFlag("load.with_multibase", pf.Lookup("with-multibase"))
	_ = viper.BindPFlag("load.lenient", pf.Lookup("lenient"))
	_ = viper.BindPFlag("load.max_skipped", pf.Lookup("max-skipped"))

	cmd.AddCommand(newStatsCmd())
	cmd.AddCommand(newQueryCmd())
	cmd.AddCommand(newCountCmd())
	cmd.AddCommand(newSeparateCmd())
	cmd.AddCommand(newExportCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// initConfig reads ~/.vcfindex.yaml (or --config) and VCFINDEX_* variables.
func initConfig(cmd *cobra.Command) error {
	viper.SetDefault("tracker.max_linear", 3)
	viper.SetDefault("log.level", "warn")

	viper.SetEnvPrefix("VCFINDEX")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".vcfindex")
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// newLogger builds a console logger on w. Verbose forces debug level.
func newLogger(level string, verbose bool, w io.Writer) (*zap.Logger, error) {
	lvl := zapcore.WarnLevel
	if level != "" {
		if err := lvl.UnmarshalText([]byte(level)); err != nil {
			return nil, fmt.Errorf("invalid log level %q", level)
		}
	}
	if verbose {
		lvl = zapcore.DebugLevel
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.TimeKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(w), lvl)
	return zap.New(core), nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "vcfindex version %s (%s) built %s\n", version, commit, date)
			return nil
		},
	}
}
