package main

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"dedupetree/pkg/cache"
	"dedupetree/pkg/dedupe"
	"dedupetree/pkg/dirscan"
	"dedupetree/pkg/log"
	"dedupetree/pkg/models"
	"dedupetree/pkg/report"
	"dedupetree/pkg/scanner"
)

const version = "0.1.0"

var (
	deleteMode bool
	extensions string
	minSize    int64
	minFiles   int
	minDirSize int64
	logFile    string
	verbose    bool

	rootCmd = &cobra.Command{
		Use:   "dedupe-tree <directory>",
		Short: "Find and remove duplicate files and directory trees",
		Long: `dedupe-tree finds duplicate files and duplicate directory subtrees by
SHA256 content checksums, keeps one canonical copy per duplicate set, and can
replace the remaining copies with symbolic links.

By default it runs in dry-run mode with a full report. Use --delete to apply
the changes.`,
		Args:    cobra.ExactArgs(1),
		Version: version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				log.SetDebugMode()
			}
		},
		RunE:          runDedupe,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	rootCmd.Flags().BoolVar(&deleteMode, "delete", false, "Replace duplicates with links (default is dry-run with report)")
	rootCmd.Flags().StringVar(&extensions, "extensions", "", "Comma-separated list of file extensions to include (e.g. '.txt,.py,.md')")
	rootCmd.Flags().Int64Var(&minSize, "min-size", 0, "Minimum file size in bytes to consider")
	rootCmd.Flags().IntVar(&minFiles, "min-files", 2, "Minimum files in a directory to consider for directory deduplication")
	rootCmd.Flags().Int64Var(&minDirSize, "min-dir-size", 0, "Minimum directory subtree size in bytes to consider")
	rootCmd.Flags().StringVar(&logFile, "log-file", "", "Mirror log output to a file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(cacheCmd)
}

func runDedupe(cmd *cobra.Command, args []string) error {
	start := time.Now()
	root := args[0]

	if logFile != "" {
		closeLog, err := log.SetLogFile(logFile)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer func() { _ = closeLog() }()
	}

	// Long scans stop cooperatively on Ctrl-C
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	session := uuid.NewString()
	log.Info().Str("session", session).Str("root", root).Msg("Starting scan")

	// The cache is fail-open: without it every checksum is computed directly
	store, err := cache.Open("")
	if err != nil {
		log.Warn().Err(err).Msg("Checksum cache unavailable, computing checksums directly")
		store = nil
	} else {
		defer func() { _ = store.Close() }()
	}

	report.ModePanel(deleteMode, root, extensions, minSize, minFiles)

	opts := scanner.Options{MinSize: minSize}
	if extensions != "" {
		opts.Extensions = strings.Split(extensions, ",")
	}

	fileScanner := scanner.New(store)
	spinner, _ := pterm.DefaultSpinner.Start("Scanning files...")
	if err := fileScanner.Scan(ctx, root, opts); err != nil {
		spinner.Fail("File scan failed")
		return err
	}
	spinner.Success(fmt.Sprintf("Found %d files", len(fileScanner.Files)))

	dirScanner := dirscan.New(store)
	spinner, _ = pterm.DefaultSpinner.Start("Scanning directory trees...")
	if err := dirScanner.Scan(ctx, root, minFiles); err != nil {
		spinner.Fail("Directory scan failed")
		return err
	}
	if minDirSize > 0 {
		dirScanner.Directories = filterBySize(dirScanner.Directories, minDirSize)
	}
	spinner.Success(fmt.Sprintf("Found %d directories", len(dirScanner.Directories)))

	if len(fileScanner.Files) == 0 && len(dirScanner.Directories) == 0 {
		pterm.Warning.Println("No files or directories found to process.")
		return nil
	}

	fileGroups := fileScanner.Duplicates()
	dirGroups := dirScanner.Duplicates()
	if len(fileGroups) == 0 && len(dirGroups) == 0 {
		pterm.Success.Println("No duplicate files or directories found!")
		return nil
	}

	scanErrors := append(append([]models.ItemError(nil), fileScanner.Errors...), dirScanner.Errors...)
	result := dedupe.Analyze(fileGroups, dirGroups, scanErrors)

	report.Summary(result)
	report.Detailed(result)
	report.Errors(result.Errors)

	if deleteMode {
		if err := applyRemoval(result); err != nil {
			return err
		}
	} else {
		report.DryRunSummary(result, scanTotals(fileScanner, dirScanner))
	}

	pterm.Printfln("\nTotal time: %.2f seconds", time.Since(start).Seconds())
	return nil
}

func applyRemoval(result models.Result) error {
	total := result.FilesToRemove + result.DirectoriesToRemove
	if total == 0 {
		pterm.Warning.Println("Nothing to delete.")
		return nil
	}

	var parts []string
	if result.FilesToRemove > 0 {
		parts = append(parts, fmt.Sprintf("%d files", result.FilesToRemove))
	}
	if result.DirectoriesToRemove > 0 {
		parts = append(parts, fmt.Sprintf("%d directories", result.DirectoriesToRemove))
	}

	confirmed, err := pterm.DefaultInteractiveConfirm.
		Show(fmt.Sprintf("Really replace %s with links?", strings.Join(parts, " and ")))
	if err != nil {
		return err
	}
	if !confirmed {
		pterm.Warning.Println("Aborted.")
		return nil
	}

	files, dirs, errs := dedupe.Execute(result, false)
	report.Removed(files, dirs, errs)
	return nil
}

func scanTotals(fileScanner *scanner.Scanner, dirScanner *dirscan.Scanner) report.ScanTotals {
	totals := report.ScanTotals{
		FilesScanned:       len(fileScanner.Files),
		DirectoriesScanned: len(dirScanner.Directories),
	}
	for _, f := range fileScanner.Files {
		totals.FileSpace += f.Size
	}
	for _, d := range dirScanner.Directories {
		totals.DirectorySpace += d.Size
	}
	return totals
}

func filterBySize(dirs []models.DirectoryInfo, minBytes int64) []models.DirectoryInfo {
	kept := dirs[:0]
	for _, d := range dirs {
		if d.Size >= minBytes {
			kept = append(kept, d)
		}
	}
	return kept
}
