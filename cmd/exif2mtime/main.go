package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/quidome/exif2mtime-go/pkg/config"
)

const version = "0.2.0"

func main() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := config.Default()

	rootCmd := &cobra.Command{
		Use:     "exif2mtime [file or directory...]",
		Short:   "Set file modification times from embedded capture dates",
		Long:    "exif2mtime reads the capture date from the metadata of photos and videos and sets each file's modification time to it. Sidecar files (.xmp, .xcf) take the date of the media file they belong to.",
		Version: version,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, args)
		},
	}

	rootCmd.SetOut(os.Stdout)
	rootCmd.SetErr(os.Stderr)

	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&opts.Recurse, "recurse", "r", false, "recursively process directories")
	flags.BoolVarP(&opts.DryRun, "dry-run", "d", false, "display dates without applying them")
	flags.BoolVarP(&opts.AnyDate, "any-date", "a", false, "process files with any mtime (default is only files modified in the current year)")
	flags.StringVarP(&opts.Timezone, "timezone", "t", opts.Timezone, "IANA timezone for date conversion (default is the local timezone, or $"+config.EnvTimezone+")")
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "enable verbose output")
	flags.StringVar(&opts.Reader, "reader", opts.Reader, "metadata reader: auto, exiftool or goexif")

	rootCmd.Flags().StringVar(&opts.NewTagsPath, "newtags", opts.NewTagsPath, "file collecting unrecognized date tags")
	rootCmd.Flags().BoolVar(&opts.CompanionModTime, "companion-mtime", false, "let sidecars use their companion's mtime when it has no metadata date")

	rootCmd.AddCommand(newScanCmd(&opts))

	return rootCmd
}

func newScanCmd(opts *config.Options) *cobra.Command {
	var dates bool

	scanCmd := &cobra.Command{
		Use:   "scan [file or directory...]",
		Short: "List the files that would be processed",
		Long:  "Scan files and directories and print every media and sidecar file that passes the extension and year filters. With --dates the resolved capture date is printed as well; no file is modified.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, *opts, args, dates)
		},
	}

	scanCmd.Flags().BoolVar(&dates, "dates", false, "resolve and print capture dates")

	return scanCmd
}
