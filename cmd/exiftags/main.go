// exiftags prints the metadata tags of media files, either through exiftool
// or with the built-in EXIF decoder.
package main

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
	"github.com/spf13/cobra"

	"github.com/jacobtruman/OrganizePictures/internal/exiftool"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "exiftags FILE...",
	Short: "Print media file metadata tags",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		wanted, _ := cmd.Flags().GetStringSlice("tags")
		decode, _ := cmd.Flags().GetBool("decode")

		filter := make(map[string]bool, len(wanted))
		for _, tag := range wanted {
			filter[strings.ToLower(tag)] = true
		}

		if decode {
			return printDecoded(args, filter)
		}
		return printExiftool(args, filter)
	},
}

func printExiftool(paths []string, filter map[string]bool) error {
	gw, err := exiftool.NewGateway()
	if err != nil {
		return err
	}
	defer gw.Close()

	for _, path := range paths {
		tags, err := gw.ReadTags(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			continue
		}

		fmt.Printf("== %s\n", path)
		keys := make([]string, 0, len(tags))
		for key := range tags {
			if len(filter) > 0 && !filter[strings.ToLower(key)] {
				continue
			}
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			fmt.Printf("%s: %s\n", key, tags[key])
		}
	}
	return nil
}

// printDecoded reads EXIF directly from JPEG/TIFF bytes, with no external
// tool required.
func printDecoded(paths []string, filter map[string]bool) error {
	for _, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			continue
		}

		x, err := exif.Decode(f)
		f.Close()
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			continue
		}

		fmt.Printf("== %s\n", path)
		x.Walk(tagPrinter{filter: filter})
	}
	return nil
}

type tagPrinter struct {
	filter map[string]bool
}

func (p tagPrinter) Walk(name exif.FieldName, tag *tiff.Tag) error {
	if len(p.filter) > 0 && !p.filter[strings.ToLower(string(name))] {
		return nil
	}
	fmt.Printf("%s: %s\n", name, tag.String())
	return nil
}

func init() {
	rootCmd.Flags().StringSlice("tags", nil, "Only print these tags")
	rootCmd.Flags().Bool("decode", false, "Use the built-in EXIF decoder instead of exiftool")
}
