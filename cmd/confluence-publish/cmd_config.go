/*
Copyright © 2024 paul <paul@denknerd.org>
*/

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var configUsage = strings.TrimSpace(`
Commands in this namespace are to help you configure the app.  Find out what the current config is,
or learn where it's being read from.
`)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Commands to work with the app config",
	Long:  configUsage,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Output current config",
	Long: `
Is something not working for you?  Have a look whether your config is as you expect.  Every global
setting is listed with its effective value, after the config file and flags were combined.
`,
	Args: cobra.ExactArgs(0),
	Run: func(cmd *cobra.Command, args []string) {
		showConfig(cmd.OutOrStdout(), cmd.Root().PersistentFlags())
	},
}

var configWhichCmd = &cobra.Command{
	Use:   "which",
	Short: "Tell me the resolved config path",
	Long: `
Output the filename that's being used to store your config.
`,
	Args: cobra.ExactArgs(0),
	Run: func(cmd *cobra.Command, args []string) {
		if ConfigActual == "" {
			fmt.Fprintf(cmd.OutOrStdout(), "No config file, looked for: %s\n", Config)
			return
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Config path: %s\n", ConfigActual)
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configWhichCmd)
}

// showConfig prints the global flags, then the file-only settings.  Command-specific flags like
// --prune aren't visible from here.
func showConfig(w io.Writer, flags *pflag.FlagSet) {
	fmt.Fprintf(w, "Config file: %s\n\n", Config)

	flags.VisitAll(func(f *pflag.Flag) {
		source := "default"
		if f.Changed {
			source = "set"
		}
		fmt.Fprintf(w, "  %-16s %-40s (%s)\n", f.Name, f.Value.String(), source)
	})

	if len(ParsedConfig.Properties) > 0 {
		fmt.Fprintf(w, "\nProperties:\n")
		for _, k := range sortedKeys(ParsedConfig.Properties) {
			fmt.Fprintf(w, "  %s: %s\n", k, ParsedConfig.Properties[k])
		}
	}
}
