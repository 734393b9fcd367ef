package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/inodb/vcfindex/internal/genome"
	"github.com/inodb/vcfindex/internal/variantset"
	"github.com/inodb/vcfindex/internal/xopen"
)

func newCountCmd() *cobra.Command {
	var maskFile string
	cmd := &cobra.Command{
		Use:   "count <vcf> <chrom> <start> <end>",
		Short: "Count variants in a closed interval",
		Long: `Count the variants on <chrom> with start <= position <= end (1-based,
inclusive). With --mask, variants inside regions of a BED file are not
counted.`,
		Example: `  vcfindex count --genome ref.fa calls.vcf chr1 1 1000000
  vcfindex count --genome ref.fa --mask repeats.bed calls.vcf chr1 1 1000000`,
		Args: exactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := strconv.Atoi(args[2])
			if err != nil {
				return usagef("invalid start %q", args[2])
			}
			end, err := strconv.Atoi(args[3])
			if err != nil {
				return usagef("invalid end %q", args[3])
			}

			set, _, err := loadSet(args[0])
			if err != nil {
				return err
			}

			if maskFile == "" {
				fmt.Fprintln(cmd.OutOrStdout(), set.CountInNamedInterval(args[1], start, end))
				return nil
			}

			mask, err := readMask(maskFile, set.Genome())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), countUnmasked(set, mask, args[1], start, end))
			return nil
		},
	}
	cmd.Flags().StringVar(&maskFile, "mask", "", "BED file of regions to exclude")
	return cmd
}

func readMask(path string, g *genome.Info) (*genome.BitSet, error) {
	in, err := xopen.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open mask: %w", err)
	}
	defer in.Close()

	mask := genome.NewBitSet(g)
	if err := mask.ReadBED(in, g); err != nil {
		return nil, fmt.Errorf("read mask: %w", err)
	}
	logger.Debug("mask loaded", zap.String("path", path))
	return mask, nil
}

// countUnmasked counts records in [start, end] whose position is not set in
// mask. Mask bits are 0-based, record positions 1-based. Records on
// unresolved chromosomes cannot be masked.
func countUnmasked(set *variantset.Set, mask *genome.BitSet, chrom string, start, end int) int {
	c := set.Genome().IndexOf(chrom)
	if c == genome.Unresolved || start > end {
		return set.CountInNamedInterval(chrom, start, end)
	}

	n := 0
	i := set.IndexOf(genome.Locus{Chrom: c, Pos: start}).Index
	for ; ; i++ {
		r, ok := set.Get(i)
		if !ok || r.Chrom != c || r.Pos > end {
			break
		}
		if mask.Test(c, r.Pos-1) {
			continue
		}
		n++
	}
	return n
}
