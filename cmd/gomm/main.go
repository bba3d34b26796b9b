package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"gomm/internal/app"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var config app.Config

	rootCmd := &cobra.Command{
		Use:   "gomm",
		Short: "CCSDS OMM toolkit",
		Long: `Read, write and convert CCSDS Orbit Mean-Elements Messages.

Decodes OMM and NDM XML documents into typed messages, re-encodes them as
schema-conformant XML, converts SGP4-theory messages to two-line element sets,
and fetches fresh element data from Celestrak or Space-Track.

Example usage:
  gomm show iss.xml
  gomm tle iss.xml
  gomm fetch --source celestrak --group stations`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&config.Verbose, "verbose", "v", false, "Verbose logging")

	showCmd := &cobra.Command{
		Use:   "show <file.xml>",
		Short: "Decode a file and pretty-print its messages",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.NewApplication(config).Show(args[0])
		},
	}

	tleCmd := &cobra.Command{
		Use:   "tle <file.xml>",
		Short: "Convert SGP4-theory messages to two-line element sets",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.NewApplication(config).ConvertTLE(args[0])
		},
	}

	encodeCmd := &cobra.Command{
		Use:   "encode <file.xml>",
		Short: "Decode a file and re-encode it as NDM XML on stdout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.NewApplication(config).Reencode(args[0])
		},
	}

	fetchCmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch current element data from Celestrak or Space-Track",
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.NewApplication(config).Fetch(context.Background())
		},
	}
	fetchCmd.Flags().StringVarP(&config.Source, "source", "s", "celestrak", "Data source (celestrak or spacetrack)")
	fetchCmd.Flags().StringVarP(&config.Group, "group", "g", app.DefaultGroup, "Celestrak group name")
	fetchCmd.Flags().StringVarP(&config.Name, "name", "n", "", "Object name")
	fetchCmd.Flags().StringVar(&config.IntlDes, "intdes", "", "International designator")
	fetchCmd.Flags().IntVarP(&config.CatNr, "catnr", "c", 0, "NORAD catalog number")
	fetchCmd.Flags().IntVar(&config.Limit, "limit", app.DefaultLimit, "Space-Track row limit")
	fetchCmd.Flags().StringVarP(&config.ArchiveDir, "archive-dir", "a", "", "Archive raw XML snapshots to this directory")
	fetchCmd.Flags().StringVar(&config.Credentials, "credentials", "", "Space-Track credentials YAML file")
	fetchCmd.Flags().StringVar(&config.CookieFile, "cookie-file", app.DefaultCookieFile, "Space-Track session cookie file")
	fetchCmd.Flags().BoolVarP(&config.UTC, "utc", "u", true, "Use UTC for archive rotation")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			app.ShowVersion()
		},
	}

	rootCmd.AddCommand(showCmd, tleCmd, encodeCmd, fetchCmd, versionCmd)
	return rootCmd
}
