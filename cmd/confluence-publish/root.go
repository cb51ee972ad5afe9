/*
Copyright © 2024 paul <paul@denknerd.org>
*/

package main

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"

	"github.com/fatih/structs"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"github.com/toothbrush/confluence-publish/internal/termfmt"
)

const defaultConfig = "~/.config/confluence-publish.yaml"

var (
	// Store the result of binding cobra flags
	Config string
	Debug  bool

	// ConfigActual is the config file that was really read, empty if there was none.
	ConfigActual string

	// Command to run to retrieve API Personal Access Token
	AuthTokenCmd []string

	AuthUsername string
	Endpoint     string
	Protocol     string
	Space        string
	ParentPage   string
	SitePath     string
	Workers      int

	ParsedConfig YamlConfig
)

// Build the cobra command that handles our command line tool.
var rootCmd = &cobra.Command{
	Use:   "confluence-publish",
	Short: "Publish a tree of Markdown documents to Confluence",
	Long: `
Keep your documentation next to your code and still have it on the wiki.  This tool converts a site
of Markdown pages to Confluence wiki markup and mirrors its page tree onto a Confluence space, so
that running it again only updates what's there.
`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := initializeConfig(cmd); err != nil {
			return fmt.Errorf("confluence-publish: failed to initialise config: %w", err)
		}
		if _, ok := os.LookupEnv("NO_COLOR"); ok {
			termfmt.Enabled = false
		}
		return nil
	},
}

func init() {
	// Define cobra flags, the default value has the lowest (least significant) precedence
	rootCmd.PersistentFlags().StringVar(&Config, "config", "", "config file location (default: "+defaultConfig+", respects CONFLUENCE_PUBLISH_CONFIG)")
	rootCmd.PersistentFlags().BoolVar(&Debug, "debug", false, "display debug output")
	rootCmd.PersistentFlags().StringSliceVar(&AuthTokenCmd, "auth-token-cmd", []string{}, "shell command to retrieve Atlassian auth token")
	rootCmd.PersistentFlags().StringVar(&AuthUsername, "auth-username", "", "your Atlassian username")
	rootCmd.PersistentFlags().StringVar(&Endpoint, "endpoint", "", "Confluence base URL, or your Atlassian ORG name, e.g. ORG in ORG.atlassian.net")
	rootCmd.PersistentFlags().StringVar(&Protocol, "protocol", "rest", "remote API flavour: rest or xmlrpc")
	rootCmd.PersistentFlags().StringVar(&Space, "space", "", "key of the space to publish to, unless the site names one")
	rootCmd.PersistentFlags().StringVar(&ParentPage, "parent-page", "", "title of an existing page to publish the site below")
	rootCmd.PersistentFlags().StringVar(&SitePath, "site", "site.yaml", "site descriptor")
	rootCmd.PersistentFlags().IntVar(&Workers, "workers", 8, "maximum number of concurrent Confluence calls")
}

func initializeConfig(cmd *cobra.Command) error {
	explicit := true
	if Config == "" {
		// Did the user provide an ENV?
		if envConfig := os.Getenv("CONFLUENCE_PUBLISH_CONFIG"); envConfig != "" {
			Config = envConfig
		} else {
			// As fallback, search for config in home XDG-ish directory
			Config = defaultConfig
			explicit = false
		}
	}
	config, err := homedir.Expand(Config)
	if err != nil {
		return fmt.Errorf("confluence-publish: unable to expand homedir: %w", err)
	}
	Config = config

	if _, err := os.Stat(Config); errors.Is(err, os.ErrNotExist) {
		if explicit {
			fmt.Printf("Couldn't read config file %s, does it exist?  Override with --config.\n", Config)
			return fmt.Errorf("confluence-publish: specified config file does not exist: %w", err)
		}
		// Everything can be passed as flags, so a missing default config is fine.
		debugLog("No config file at %s, using flags only\n", Config)
		return nil
	}

	yamlFile, err := os.ReadFile(Config)
	if err != nil {
		return fmt.Errorf("confluence-publish: error reading config file: %w", err)
	}

	// I'd like to bark if a user sets a flag we don't recognise:
	if err := yaml.UnmarshalStrict(yamlFile, &ParsedConfig); err != nil {
		return fmt.Errorf("confluence-publish: issue parsing config file: %w", err)
	}
	ConfigActual = Config

	if err := bindFlags(cmd, ParsedConfig); err != nil {
		return fmt.Errorf("confluence-publish: failed to bind flags: %w", err)
	}

	return nil
}

type YamlConfig struct {
	WithVCR                *bool `yaml:"with-vcr"`
	Prune                  *bool `yaml:"prune"`
	ChildrenTitlesPrefixed *bool `yaml:"children-titles-prefixed"`
	IncludePersonal        *bool `yaml:"include-personal-spaces"`

	Endpoint     string   `yaml:"endpoint"`
	Protocol     string   `yaml:"protocol"`
	AuthUsername string   `yaml:"auth-username"`
	AuthTokenCmd []string `yaml:"auth-token-cmd"`
	Space        string   `yaml:"space"`
	ParentPage   string   `yaml:"parent-page"`
	Site         string   `yaml:"site"`
	Workers      int      `yaml:"workers"`

	// Properties are template variables for page sources.  They only exist in the config file.
	Properties map[string]string `yaml:"properties"`
}

// Bind each config file value to the cobra flag of the same name, unless that flag was given on the
// command line.
func bindFlags(cmd *cobra.Command, v YamlConfig) error {
	for _, field := range structs.Fields(v) {
		key := field.Tag("yaml")
		if key == "" {
			return fmt.Errorf("confluence-publish: could not retrieve struct tag 'yaml'")
		}
		if flag := cmd.Flag(key); flag == nil {
			// hmm... the flag is unknown.  but that can legitimately happen if you're running
			// e.g. `list spaces` which has no `prune` flag but your YAML file does define that
			// flag...  file-only keys like `properties` never have one.
			continue
		}
		if cmd.Flags().Changed(key) {
			continue
		}

		switch field.Kind() {
		case reflect.Ptr:
			// err, this is crappy, but i know YamlConfig only uses pointers for bools.....
			b, ok := field.Value().(*bool)
			if !ok {
				return fmt.Errorf("confluence-publish: found unrecognised field: %+v", field)
			}
			if b != nil {
				cmd.Flags().Set(key, strconv.FormatBool(*b))
			}

		case reflect.String:
			s, ok := field.Value().(string)
			if !ok {
				return fmt.Errorf("confluence-publish: found unrecognised field: %+v", field)
			}
			if s != "" {
				cmd.Flags().Set(key, s)
			}

		case reflect.Int:
			n, ok := field.Value().(int)
			if !ok {
				return fmt.Errorf("confluence-publish: found unrecognised field: %+v", field)
			}
			if n != 0 {
				cmd.Flags().Set(key, strconv.Itoa(n))
			}

		case reflect.Slice:
			ss, ok := field.Value().([]string)
			if !ok {
				return fmt.Errorf("confluence-publish: found unrecognised field: %+v", field)
			}
			for _, s := range ss {
				// yes, repeatedly calling Set() appends to the slice...
				cmd.Flags().Set(key, s)
			}

		case reflect.Map:
			// file-only, read straight from ParsedConfig.

		default:
			return fmt.Errorf("confluence-publish: found unrecognised field: %+v", field)
		}
	}

	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		return fmt.Errorf("confluence-publish: execution error: %w", err)
	}

	return nil
}
