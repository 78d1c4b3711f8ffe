// gif2video converts animated GIFs to mp4 in place, optionally stamping a
// capture date and removing the originals.
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

	"github.com/jacobtruman/OrganizePictures/internal/dates"
	"github.com/jacobtruman/OrganizePictures/internal/exiftool"
	"github.com/jacobtruman/OrganizePictures/internal/fs"
)

const tagLayout = "2006:01:02 15:04:05"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "gif2video [DIR]",
	Short: "Convert GIFs to mp4 videos",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pattern, _ := cmd.Flags().GetString("pattern")
		dateSpec, _ := cmd.Flags().GetString("date")
		cleanup, _ := cmd.Flags().GetBool("cleanup")

		dir := "."
		if len(args) > 0 {
			dir = args[0]
		}

		var stamp time.Time
		if dateSpec != "" {
			var err error
			stamp, err = time.Parse("2006-01-02", dateSpec)
			if err != nil {
				return fmt.Errorf("parsing date %q: %w", dateSpec, err)
			}
		}

		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return fmt.Errorf("bad pattern %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			fmt.Println("No files matched.")
			return nil
		}

		gw, err := exiftool.NewGateway()
		if err != nil {
			return err
		}
		defer gw.Close()
		fsmgr := fs.NewManager()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		converted := 0
		for _, src := range matches {
			if strings.ToLower(filepath.Ext(src)) != ".gif" {
				continue
			}
			if err := ctx.Err(); err != nil {
				return err
			}

			out, err := gw.Transcode(ctx, src, ".mp4")
			if err != nil {
				fmt.Fprintf(os.Stderr, "%s: %v\n", src, err)
				continue
			}

			dest := strings.TrimSuffix(src, filepath.Ext(src)) + ".mp4"
			if err := fsmgr.Move(out, dest); err != nil {
				fmt.Fprintf(os.Stderr, "%s: %v\n", src, err)
				continue
			}

			// Stamp the flag date, or fall back to a date embedded in
			// the source filename.
			when := stamp
			if when.IsZero() {
				if t, ok := dates.FromFilename(src); ok {
					when = t
				}
			}
			if !when.IsZero() {
				tags := map[string]string{
					"CreateDate":      when.Format(tagLayout),
					"TrackCreateDate": when.Format(tagLayout),
					"MediaCreateDate": when.Format(tagLayout),
				}
				if err := gw.WriteTags(dest, tags); err != nil {
					fmt.Fprintf(os.Stderr, "%s: writing date tags: %v\n", dest, err)
				}
			}

			if cleanup {
				if err := fsmgr.Remove(src); err != nil {
					fmt.Fprintf(os.Stderr, "%s: removing source: %v\n", src, err)
				}
			}

			fmt.Printf("%s -> %s\n", src, dest)
			converted++
		}

		fmt.Printf("Converted %d file(s)\n", converted)
		return nil
	},
}

func init() {
	rootCmd.Flags().String("pattern", "*.gif", "Glob pattern for files to convert")
	rootCmd.Flags().String("date", "", "Capture date to stamp on converted videos (YYYY-MM-DD)")
	rootCmd.Flags().Bool("cleanup", false, "Delete source GIFs after conversion")
}
