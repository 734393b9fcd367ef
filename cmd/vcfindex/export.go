package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/inodb/vcfindex/internal/duckdb"
)

func newExportCmd() *cobra.Command {
	var (
		dbPath string
		force  bool
	)
	cmd := &cobra.Command{
		Use:   "export <vcf>",
		Short: "Export a VCF file to a DuckDB database",
		Long: `Load a VCF file and write its records, in sorted order, to the "variants"
table of a DuckDB database. Header lines go to the "header" table. The
source file's size and modification time are recorded in "exports"; an
unchanged file is not exported again unless --force is given.`,
		Example: `  vcfindex export --genome ref.fa --db calls.duckdb calls.vcf.gz
  duckdb calls.duckdb "SELECT chrom, count(*) FROM variants GROUP BY chrom"`,
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if dbPath == "" {
				return usagef("export: --db is required")
			}
			path := args[0]

			fp, err := duckdb.StatFile(path)
			if err != nil {
				return fmt.Errorf("stat %s: %w", path, err)
			}

			store, err := duckdb.Open(dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			if !force {
				stale, err := store.Stale(fp)
				if err != nil {
					return err
				}
				if !stale {
					fmt.Fprintf(cmd.OutOrStdout(), "%s is up to date in %s\n", path, dbPath)
					return nil
				}
			}

			set, _, err := loadSet(path)
			if err != nil {
				return err
			}
			if err := store.WriteSet(set); err != nil {
				return fmt.Errorf("export variants: %w", err)
			}
			if err := store.RecordExport(fp, set.Size()); err != nil {
				return err
			}

			logger.Info("exported variants", zap.String("db", dbPath), zap.Int("records", set.Size()))
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d records to %s\n", set.Size(), dbPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "DuckDB database path")
	cmd.Flags().BoolVar(&force, "force", false, "Export even if the source is unchanged")
	return cmd
}
