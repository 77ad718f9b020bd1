package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"prism/internal/lsp"
)

var serveCmd = &cobra.Command{
	Use:          "serve",
	Short:        "Run the Prism language server over stdio",
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	serveCmd.Flags().Int("debounce", 300, "diagnostics debounce in milliseconds")
}

func runServe(cmd *cobra.Command, _ []string) error {
	debounceMs, _ := cmd.Flags().GetInt("debounce")
	maxDiagnostics, _ := cmd.Root().PersistentFlags().GetInt("max-diagnostics")

	reg, err := loadRegistry()
	if err != nil {
		return err
	}

	server := lsp.NewServer(os.Stdin, os.Stdout, lsp.ServerOptions{
		Registry:       reg,
		Debounce:       time.Duration(debounceMs) * time.Millisecond,
		MaxDiagnostics: maxDiagnostics,
	})
	if err := server.Run(cmd.Context()); err != nil {
		if errors.Is(err, lsp.ErrExit) {
			return nil
		}
		if errors.Is(err, lsp.ErrExitWithoutShutdown) {
			return fmt.Errorf("lsp exit without shutdown")
		}
		return err
	}
	return nil
}
