package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/inodb/vcfindex/internal/genome"
	"github.com/inodb/vcfindex/internal/variantset"
	"github.com/inodb/vcfindex/internal/xopen"
)

func newQueryCmd() *cobra.Command {
	var lociFile string
	cmd := &cobra.Command{
		Use:   "query <vcf> [chr:pos ...]",
		Short: "Look up variants at loci",
		Long: `Look up each locus in the loaded VCF. Loci are given as chr:pos arguments or
one per line in --loci. Queries share a locality-aware cursor, so sorted
loci are answered with a few comparisons each.

Output is one line per locus: the locus, "found" or "missing", the index in
the sorted set (or the insertion point), and the record when found.`,
		Example: `  vcfindex query --genome ref.fa calls.vcf chr1:12345 chr7:140753336
  vcfindex query --genome ref.fa --loci positions.txt calls.vcf.gz`,
		Args: minArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 && lociFile == "" {
				return usagef("query: no loci given")
			}

			set, _, err := loadSet(args[0])
			if err != nil {
				return err
			}
			g := set.Genome()

			tracker := variantset.NewTracker(set)
			tracker.SetMaxLinearSteps(viper.GetInt("tracker.max_linear"))

			out := bufio.NewWriter(cmd.OutOrStdout())
			answer := func(text string) error {
				l, err := genome.ParseLocus(text, g)
				if err != nil {
					return usagef("%v", err)
				}
				res := tracker.IndexOf(l)
				if !res.Found {
					fmt.Fprintf(out, "%s\tmissing\t%d\n", text, res.Index)
					return nil
				}
				r, _ := set.Get(res.Index)
				fmt.Fprintf(out, "%s\tfound\t%d\t%s", text, res.Index, r.String(g))
				return nil
			}

			for _, text := range args[1:] {
				if err := answer(text); err != nil {
					return err
				}
			}

			if lociFile != "" {
				in, err := xopen.Open(lociFile)
				if err != nil {
					return fmt.Errorf("open loci file: %w", err)
				}
				defer in.Close()

				scanner := bufio.NewScanner(in)
				for scanner.Scan() {
					text := strings.TrimSpace(scanner.Text())
					if text == "" || strings.HasPrefix(text, "#") {
						continue
					}
					if err := answer(text); err != nil {
						return err
					}
				}
				if err := scanner.Err(); err != nil {
					return fmt.Errorf("read loci file: %w", err)
				}
			}
			return out.Flush()
		},
	}
	cmd.Flags().StringVar(&lociFile, "loci", "", "File with one chr:pos per line ('-' for stdin)")
	cmd.Flags().Int("max-linear", 3, "Linear steps the cursor takes before binary search")
	_ = viper.BindPFlag("tracker.max_linear", cmd.Flags().Lookup("max-linear"))
	return cmd
}
