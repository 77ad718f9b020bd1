package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"prism/internal/diagfmt"
	"prism/internal/driver"
	"prism/internal/source"
	"prism/internal/ui"
)

var scanCmd = &cobra.Command{
	Use:   "scan [flags] [dir]",
	Short: "Tokenize every recognized file under a directory",
	Long:  `Scan walks a directory, tokenizes every file of a supported language in parallel and reports diagnostics`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runScan,
}

func init() {
	scanCmd.Flags().Int("jobs", 0, "number of parallel workers (0 = all CPUs)")
	scanCmd.Flags().Bool("no-progress", false, "disable the interactive progress display")
}

func runScan(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}
	jobs, _ := cmd.Flags().GetInt("jobs")
	noProgress, _ := cmd.Flags().GetBool("no-progress")
	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	reg, err := loadRegistry()
	if err != nil {
		return err
	}

	files, err := reg.ListFiles(dir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		if !quiet {
			fmt.Fprintf(os.Stderr, "no recognized files under %s (extensions: %v)\n", dir, reg.Extensions())
		}
		return nil
	}

	showProgress := !noProgress && !quiet && isTerminal(os.Stderr)

	var (
		fileSet *source.FileSet
		results []driver.ScanDirResult
		scanErr error
	)
	if showProgress {
		events := make(chan driver.ScanEvent, len(files))
		model := ui.NewScanModel("scanning "+dir, files, events)
		prog := tea.NewProgram(model, tea.WithOutput(os.Stderr))

		g := new(errgroup.Group)
		g.Go(func() error {
			defer close(events)
			fileSet, results, scanErr = reg.ScanDir(cmd.Context(), dir, maxDiagnostics, jobs, func(ev driver.ScanEvent) {
				events <- ev
			})
			return nil
		})
		if _, err := prog.Run(); err != nil {
			return err
		}
		if err := g.Wait(); err != nil {
			return err
		}
	} else {
		fileSet, results, scanErr = reg.ScanDir(cmd.Context(), dir, maxDiagnostics, jobs, nil)
	}
	if scanErr != nil {
		return scanErr
	}

	opts := diagfmt.PrettyOpts{
		Color:   useColor(cmd, os.Stderr),
		Context: 1,
	}
	totalTokens := 0
	filesWithErrors := 0
	for _, res := range results {
		totalTokens += len(res.Tokens)
		if res.Bag.HasErrors() {
			filesWithErrors++
		}
		if res.Bag.Len() > 0 {
			diagfmt.Pretty(os.Stderr, res.Bag, fileSet, opts)
		}
	}
	if !quiet {
		fmt.Fprintf(os.Stdout, "%d files, %d tokens, %d files with errors\n",
			len(results), totalTokens, filesWithErrors)
	}
	if filesWithErrors > 0 {
		cmd.SilenceUsage = true
		return fmt.Errorf("%d files with errors", filesWithErrors)
	}
	return nil
}
