package main

import (
	"fmt"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/vcfindex/internal/genome"
	"github.com/inodb/vcfindex/internal/variantset"
)

// loadGenome reads the reference named by the genome setting.
func loadGenome() (*genome.Info, error) {
	path := viper.GetString("genome")
	if path == "" {
		return nil, usagef("no reference genome: use --genome or 'vcfindex config set genome <path>'")
	}
	g, err := genome.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load genome: %w", err)
	}
	logger.Debug("genome loaded", zap.String("path", path), zap.Int("chromosomes", g.Count()))
	return g, nil
}

func loadOptions() variantset.LoadOptions {
	return variantset.LoadOptions{
		WithMultiBase: viper.GetBool("load.with_multibase"),
		Lenient:       viper.GetBool("load.lenient"),
		MaxSkipped:    viper.GetInt("load.max_skipped"),
		Logger:        logger,
	}
}

// loadSet loads the reference genome and the VCF at path.
func loadSet(path string) (*variantset.Set, *variantset.LoadReport, error) {
	g, err := loadGenome()
	if err != nil {
		return nil, nil, err
	}

	set, report, err := variantset.LoadFile(path, g, loadOptions())
	if err != nil {
		return nil, report, err
	}
	logger.Info("loaded variants",
		zap.String("path", path),
		zap.Int("records", report.Records),
		zap.Int("filtered", report.Filtered),
		zap.Int("skipped", report.Skipped))
	return set, report, nil
}
