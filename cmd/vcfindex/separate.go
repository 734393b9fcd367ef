package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/vcfindex/internal/variantset"
	"github.com/inodb/vcfindex/internal/xopen"
)

func newSeparateCmd() *cobra.Command {
	var outputFile string
	cmd := &cobra.Command{
		Use:   "separate <vcf>",
		Short: "Split adjacent substitutions into single-base records",
		Long: `Split records whose reference and alternate alleles all have the same
length greater than one (for example AT>TG) into one record per changed
position. Split records carry the "separated" filter. The result is written
as VCF, sorted in genome order.

Multi-base records are always kept for this command.`,
		Example: `  vcfindex separate --genome ref.fa calls.vcf > split.vcf
  vcfindex separate --genome ref.fa -o split.vcf.gz calls.vcf.gz`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			viper.Set("load.with_multibase", true)
			set, _, err := loadSet(args[0])
			if err != nil {
				return err
			}

			split := set.Decompose()
			logger.Info("separated records", zap.Int("split", split), zap.Int("records", set.Size()))

			return writeSet(cmd, set, outputFile)
		},
	}
	cmd.Flags().StringVarP(&outputFile, "output", "o", "-", "Output file ('-' for stdout, .gz to compress)")
	return cmd
}

func writeSet(cmd *cobra.Command, set *variantset.Set, path string) error {
	if path == "-" {
		_, err := set.WriteTo(cmd.OutOrStdout())
		return err
	}

	out, err := xopen.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	if _, err := set.WriteTo(out); err != nil {
		out.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return out.Close()
}
