package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/mvp-joe/pyoutline/internal/config"
	"github.com/mvp-joe/pyoutline/internal/scan"
)

var (
	generateOutput      string
	generateIgnoreFile  string
	generateInclude     []string
	generateConcurrency int
	generateQuiet       bool
)

var generateCmd = &cobra.Command{
	Use:     "generate <root>",
	Aliases: []string{"gen"},
	Short:   "Generate the outline report for a directory tree",
	Long: `Generate walks the root directory, outlines every included Python file,
and writes the combined report. Files matching the ignore file's patterns
are excluded; files that fail to parse become one-line stubs.`,
	Args: cobra.ExactArgs(1),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVarP(&generateOutput, "output", "o", "", "report file path (default report.txt)")
	generateCmd.Flags().StringVar(&generateIgnoreFile, "ignore-file", "", "ignore file path, relative to the root (default .gitignore)")
	generateCmd.Flags().StringSliceVar(&generateInclude, "include", nil, "glob patterns for files to outline (default **/*.py)")
	generateCmd.Flags().IntVar(&generateConcurrency, "concurrency", 0, "maximum files parsed in parallel")
	generateCmd.Flags().BoolVarP(&generateQuiet, "quiet", "q", false, "suppress progress output")
}

func runGenerate(cmd *cobra.Command, args []string) error {
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
	paths, err := discovery.Discover()
	if err != nil {
		return err
	}

	opts := []scan.RunnerOption{scan.WithConcurrency(cfg.Concurrency)}

	var bar *progressbar.ProgressBar
	if !generateQuiet && len(paths) > 0 {
		bar = progressbar.NewOptions(len(paths),
			progressbar.OptionSetDescription("Outlining files"),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
			progressbar.OptionSetItsString("files/s"),
		)
		opts = append(opts, scan.WithProgress(func(string) {
			bar.Add(1)
		}))
	}

	report, err := scan.NewRunner(root, opts...).Generate(cmd.Context(), paths)
	if err != nil {
		return err
	}
	if bar != nil {
		bar.Finish()
		fmt.Println()
	}

	if err := os.WriteFile(cfg.Report, []byte(report), 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if !generateQuiet {
		fmt.Printf("Report generated successfully to %s.\n", cfg.Report)
	}
	return nil
}

// loadGenerateConfig loads the root's configuration and applies flag
// overrides, flags winning over file and environment values.
func loadGenerateConfig(cmd *cobra.Command, root string) (*config.Config, error) {
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%s is not a valid directory", root)
	}

	cfg, err := config.NewLoader(root).Load()
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("output") {
		cfg.Report = generateOutput
	}
	if cmd.Flags().Changed("ignore-file") {
		cfg.IgnoreFile = generateIgnoreFile
	}
	if cmd.Flags().Changed("include") {
		cfg.Include = generateInclude
	}
	if cmd.Flags().Changed("concurrency") {
		cfg.Concurrency = generateConcurrency
	}

	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadIgnoreMatcher compiles the ignore file's patterns. A missing ignore
// file simply means nothing is excluded.
func loadIgnoreMatcher(root, ignoreFile string) (*scan.Matcher, error) {
	path := ignoreFile
	if !filepath.IsAbs(path) {
		path = filepath.Join(root, path)
	}

	matcher, err := scan.Load(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load ignore file %s: %w", path, err)
	}
	return matcher, nil
}
