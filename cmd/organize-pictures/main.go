package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jacobtruman/OrganizePictures/internal/app"
	"github.com/jacobtruman/OrganizePictures/internal/config"
	"github.com/jacobtruman/OrganizePictures/internal/dates"
	"github.com/jacobtruman/OrganizePictures/internal/media"
	"github.com/jacobtruman/OrganizePictures/internal/model"
	"github.com/jacobtruman/OrganizePictures/internal/organize"
	"github.com/jacobtruman/OrganizePictures/internal/watch"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newApp reads the config and creates an App. The caller must defer a.Close().
func newApp(cmd *cobra.Command) (*app.App, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		// Run with defaults when no config file exists.
		cfg = config.NewConfig(defaults["base_dir"])
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	a, err := app.New(cfg, verbose)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}

	return a, nil
}

// buildOptions assembles pipeline options from the root command's flags.
func buildOptions(cmd *cobra.Command) (organize.Options, error) {
	source, _ := cmd.Flags().GetString("source")
	dest, _ := cmd.Flags().GetString("destination")
	exts, _ := cmd.Flags().GetStringSlice("extension")
	mediaType, _ := cmd.Flags().GetString("type")
	subdirs, _ := cmd.Flags().GetBool("subdirs")
	cleanup, _ := cmd.Flags().GetBool("cleanup")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	offsetSpec, _ := cmd.Flags().GetString("offset")
	subtract, _ := cmd.Flags().GetBool("minus")

	var opts organize.Options

	absSource, err := filepath.Abs(source)
	if err != nil {
		return opts, fmt.Errorf("resolving source: %w", err)
	}
	absDest, err := filepath.Abs(dest)
	if err != nil {
		return opts, fmt.Errorf("resolving destination: %w", err)
	}

	var offset dates.Offset
	if offsetSpec != "" {
		offset, err = dates.ParseOffset(offsetSpec)
		if err != nil {
			return opts, fmt.Errorf("parsing offset %q: %w", offsetSpec, err)
		}
	}
	offset.Subtract = subtract

	opts = organize.Options{
		SourceDir:     absSource,
		DestDir:       absDest,
		Extensions:    media.NormalizeExtensions(exts),
		MediaType:     mediaType,
		SubDirs:       subdirs,
		Cleanup:       cleanup,
		DryRun:        dryRun,
		Offset:        offset,
		ConfirmDelete: confirmDelete,
	}
	return opts, nil
}

// confirmDelete prompts before cleanup deletes source files. Non-interactive
// sessions decline, so scripted runs never delete without a terminal.
func confirmDelete(paths []string) bool {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Fprintln(os.Stderr, "stdin is not a terminal; skipping cleanup deletion")
		return false
	}
	fmt.Printf("Delete %d source file(s)? [y/N] ", len(paths))
	var answer string
	fmt.Scanln(&answer)
	return answer == "y" || answer == "Y"
}

func printSummary(summary model.Summary) {
	fmt.Printf("Moved: %d  Duplicates: %d  Failed: %d  Skipped: %d",
		summary.Moved, summary.Duplicate, summary.Failed, summary.Skipped)
	if summary.Deleted > 0 {
		fmt.Printf("  Deleted: %d", summary.Deleted)
	}
	fmt.Println()

	for _, f := range summary.Files {
		if f.Status == model.StatusFailed {
			fmt.Printf("  failed: %s (%s)\n", f.SourcePath, f.Reason)
		}
	}
}

var rootCmd = &cobra.Command{
	Use:   "organize-pictures",
	Short: "Organize photos and videos into a date-based directory tree",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := buildOptions(cmd)
		if err != nil {
			return err
		}

		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		summary, err := a.Organize(ctx, opts)
		if err != nil {
			return fmt.Errorf("organize failed: %w", err)
		}

		printSummary(summary)
		return nil
	},
}

// watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the source directory and organize new files as they arrive",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := buildOptions(cmd.Root())
		if err != nil {
			return err
		}
		debounce, _ := cmd.Flags().GetDuration("debounce")

		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		exts := opts.Extensions
		if len(exts) == 0 {
			mc := a.Config().Media
			exts = media.NewPolicy(mc.ImageExtensions, mc.VideoExtensions, false).Extensions(opts.MediaType)
		}

		w, err := watch.New(opts.SourceDir, exts, debounce, a.Logger())
		if err != nil {
			return fmt.Errorf("starting watcher: %w", err)
		}
		defer w.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go w.Run(ctx)

		// Pick up anything already present before waiting for events.
		summary, err := a.Organize(ctx, opts)
		if err != nil {
			return fmt.Errorf("initial organize failed: %w", err)
		}
		printSummary(summary)

		fmt.Printf("Watching %s\n", opts.SourceDir)
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-w.Triggers():
				summary, err := a.Organize(ctx, opts)
				if err != nil {
					return fmt.Errorf("organize failed: %w", err)
				}
				printSummary(summary)
			}
		}
	},
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg := config.NewConfig(defaults["base_dir"])

		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Base Dir: %s\n", defaults["base_dir"])
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		fmt.Printf("Configuration from %s:\n\n", defaults["config_path"])
		fmt.Printf("Base Dir: %s\n", cfg.BaseDir)
		fmt.Printf("Log Dir:  %s\n", cfg.LogDir)
		fmt.Printf("Database: %s\n", cfg.Database)
		if len(cfg.Media.ImageExtensions) > 0 {
			fmt.Printf("Image Extensions: %s\n", strings.Join(cfg.Media.ImageExtensions, ", "))
		}
		if len(cfg.Media.VideoExtensions) > 0 {
			fmt.Printf("Video Extensions: %s\n", strings.Join(cfg.Media.VideoExtensions, ", "))
		}
		if cfg.Convert.Disabled {
			fmt.Println("Conversion: disabled")
		}
		return nil
	},
}

// history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View organization run history",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		runs, err := a.History(limit)
		if err != nil {
			return err
		}

		if len(runs) == 0 {
			fmt.Println("No runs recorded.")
			return nil
		}

		for _, r := range runs {
			duration := ""
			if r.FinishedAt != nil {
				duration = r.FinishedAt.Sub(r.StartedAt).Truncate(time.Millisecond).String()
			}
			fmt.Printf("%s  %s  moved:%d dup:%d failed:%d skipped:%d  %s\n",
				r.StartedAt.Format("2006-01-02 15:04:05"),
				r.SourceDir,
				r.Moved, r.Duplicate, r.Failed, r.Skipped,
				duration,
			)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringP("source", "s", ".", "Source directory to scan")
	rootCmd.PersistentFlags().StringP("destination", "d", ".", "Destination directory for organized files")
	rootCmd.PersistentFlags().StringSliceP("extension", "e", nil, "Only process these extensions (e.g. jpg,mp4)")
	rootCmd.PersistentFlags().StringP("type", "t", "", "Only process this media type (image or video)")
	rootCmd.PersistentFlags().BoolP("subdirs", "b", false, "Nest files under YYYY/Mon/ subdirectories")
	rootCmd.PersistentFlags().BoolP("cleanup", "c", false, "Delete source files after successful placement")
	rootCmd.PersistentFlags().StringP("offset", "o", "", "Date offset to apply (e.g. 1Y2M3D4h5m6s)")
	rootCmd.PersistentFlags().BoolP("minus", "m", false, "Subtract the offset instead of adding it")
	rootCmd.PersistentFlags().Bool("dry-run", false, "Report what would happen without changing anything")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)

	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().IntP("limit", "n", 50, "Maximum number of runs to show")
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().Duration("debounce", 5*time.Second, "Quiet period before a batch run")
}
