package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/pyoutline/internal/scan"
)

var watchCmd = &cobra.Command{
	Use:   "watch <root>",
	Short: "Regenerate the outline report whenever files change",
	Long: `Watch generates the report once, then keeps watching the root directory
and regenerates the report after each burst of changes. Stop with Ctrl-C.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVarP(&generateOutput, "output", "o", "", "report file path (default report.txt)")
	watchCmd.Flags().StringVar(&generateIgnoreFile, "ignore-file", "", "ignore file path, relative to the root (default .gitignore)")
	watchCmd.Flags().StringSliceVar(&generateInclude, "include", nil, "glob patterns for files to outline (default **/*.py)")
	watchCmd.Flags().IntVar(&generateConcurrency, "concurrency", 0, "maximum files parsed in parallel")
}

func runWatch(cmd *cobra.Command, args []string) error {
	root := args[0]

	cfg, err := loadGenerateConfig(cmd, root)
	if err != nil {
		return err
	}
	matcher, err := loadIgnoreMatcher(root, cfg.IgnoreFile)
	if err != nil {
		return err
	}
	discovery, err := scan.NewDiscovery(root, cfg.Include, matcher)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := scan.NewRunner(root, scan.WithConcurrency(cfg.Concurrency))
	regenerate := func() {
		report, err := runner.GenerateReport(ctx, discovery)
		if err != nil {
			slog.Warn("report generation failed", "error", err)
			return
		}
		if err := os.WriteFile(cfg.Report, []byte(report), 0o644); err != nil {
			slog.Warn("failed to write report", "path", cfg.Report, "error", err)
			return
		}
		fmt.Printf("Report updated: %s\n", cfg.Report)
	}

	regenerate()

	watcher, err := scan.NewWatcher(root, matcher, regenerate)
	if err != nil {
		return err
	}

	fmt.Printf("Watching %s for changes. Press Ctrl-C to stop.\n", root)
	if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
