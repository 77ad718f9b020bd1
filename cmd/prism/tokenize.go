package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"prism/internal/diagfmt"
	"prism/internal/driver"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] file",
	Short: "Tokenize a source file",
	Long:  `Tokenize breaks a source file into highlighted tokens, one per line of output`,
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenize,
}

func init() {
	tokenizeCmd.Flags().String("format", "pretty", "output format (pretty|json|msgpack|data)")
	tokenizeCmd.Flags().String("language", "", "language id, overrides extension detection")
	tokenizeCmd.Flags().String("range", "", "tokenize only lines START:END (1-based, inclusive)")
}

func runTokenize(cmd *cobra.Command, args []string) error {
	filePath := args[0]

	formatFlag, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	format, ok := diagfmt.ParseTokenFormat(formatFlag)
	if !ok {
		return fmt.Errorf("unknown format: %s", formatFlag)
	}
	language, _ := cmd.Flags().GetString("language")
	rangeFlag, _ := cmd.Flags().GetString("range")
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	reg, err := loadRegistry()
	if err != nil {
		return err
	}

	var result *driver.TokenizeResult
	if rangeFlag != "" {
		startLine, endLine, err := parseLineRange(rangeFlag)
		if err != nil {
			return err
		}
		result, err = reg.TokenizeRange(cmd.Context(), filePath, language, startLine, endLine)
		if err != nil {
			return fmt.Errorf("tokenization failed: %w", err)
		}
	} else {
		result, err = reg.Tokenize(cmd.Context(), filePath, language, maxDiagnostics)
		if err != nil {
			return fmt.Errorf("tokenization failed: %w", err)
		}
	}

	if result.Bag.HasErrors() || result.Bag.HasWarnings() {
		opts := diagfmt.PrettyOpts{
			Color:   useColor(cmd, os.Stderr),
			Context: 2,
		}
		diagfmt.Pretty(os.Stderr, result.Bag, result.FileSet, opts)
	}

	return diagfmt.FormatTokens(os.Stdout, result.Tokens, result.Language, format)
}

// parseLineRange parses "START:END" into zero-based inclusive lines.
func parseLineRange(value string) (uint32, uint32, error) {
	parts := strings.SplitN(value, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid range %q, expected START:END", value)
	}
	start, err := strconv.ParseUint(parts[0], 10, 32)
	if err != nil || start == 0 {
		return 0, 0, fmt.Errorf("invalid range start %q, expected a 1-based line number", parts[0])
	}
	end, err := strconv.ParseUint(parts[1], 10, 32)
	if err != nil || end < start {
		return 0, 0, fmt.Errorf("invalid range end %q", parts[1])
	}
	return uint32(start - 1), uint32(end - 1), nil
}

func loadRegistry() (*driver.Registry, error) {
	cfg, _, err := driver.LoadConfig(".")
	if err != nil {
		return nil, err
	}
	return driver.NewRegistry(cfg), nil
}
