package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"prism/internal/driver"
	"prism/internal/engine"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long:  `Config resolves prism.toml by walking up from the working directory and prints the effective settings`,
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

func runConfig(cmd *cobra.Command, _ []string) error {
	cfg, found, err := driver.LoadConfig(".")
	if err != nil {
		return err
	}
	if !found {
		fmt.Fprintf(os.Stdout, "no %s found, using defaults\n", driver.ConfigFileName)
	}

	threshold := cfg.Engine.LineThreshold
	if threshold <= 0 {
		threshold = engine.DefaultLineThreshold
	}
	workers := cfg.Engine.MaxWorkers
	if workers <= 0 {
		workers = engine.DefaultMaxWorkers
	}
	fmt.Fprintf(os.Stdout, "line_threshold = %d\n", threshold)
	fmt.Fprintf(os.Stdout, "max_workers    = %d\n", workers)

	reg := driver.NewRegistry(cfg)
	for _, id := range reg.Languages() {
		tok, _ := reg.ForLanguage(id)
		fmt.Fprintf(os.Stdout, "languages.%s.range = %q\n", id, tok.RangeStrategy().String())
	}
	return nil
}
