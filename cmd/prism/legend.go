package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"prism/internal/semtok"
)

var legendCmd = &cobra.Command{
	Use:   "legend",
	Short: "Print the semantic token legend",
	Long:  `Legend prints the token type names in legend order; encoded token streams index into this list`,
	Args:  cobra.NoArgs,
	RunE:  runLegend,
}

func init() {
	legendCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func runLegend(cmd *cobra.Command, _ []string) error {
	format, _ := cmd.Flags().GetString("format")
	legend := semtok.Legend()

	switch format {
	case "pretty":
		for i, name := range legend {
			fmt.Fprintf(os.Stdout, "%2d  %s\n", i, name)
		}
		return nil
	case "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(legend)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
