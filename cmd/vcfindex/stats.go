package main

import (
	"fmt"
	"math"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/inodb/vcfindex/internal/genome"
)

func newStatsCmd() *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "stats <vcf>",
		Short: "Summarize a VCF file",
		Long: `Load a VCF file and report how many records were kept, filtered out, or
skipped, followed by per-chromosome record counts in genome order.`,
		Example: `  vcfindex stats --genome ref.fa calls.vcf
  vcfindex stats --genome ref.fa --all calls.vcf.gz`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			set, report, err := loadSet(args[0])
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "records\t%d\n", set.Size())
			fmt.Fprintf(tw, "filtered\t%d\n", report.Filtered)
			fmt.Fprintf(tw, "skipped\t%d\n", report.Skipped)
			fmt.Fprintf(tw, "header lines\t%d\n", len(set.Header()))
			fmt.Fprintf(tw, "unresolved\t%d\n",
				set.CountInInterval(genome.Unresolved, math.MinInt, math.MaxInt))

			g := set.Genome()
			for i, name := range g.Names() {
				n := set.CountInInterval(i, math.MinInt, math.MaxInt)
				if n == 0 && !all {
					continue
				}
				fmt.Fprintf(tw, "%s\t%d\n", name, n)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "List chromosomes without records too")
	return cmd
}
