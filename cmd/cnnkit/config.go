package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"go.lorenzomilicia.dev/cnnkit/internal/config"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Pipeline configuration commands",
	Long:  `Parent command for reading and validating pipeline configuration files.`,
}

var showKey string
var showFormat string

var configShowCmd = &cobra.Command{
	Use:   "show <file>",
	Short: "Print a YAML or JSON config document",
	Long:  `Load a YAML (.yaml/.yml) or JSON (.json) file and print it, or a single value with --key a.b.c.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := loadDocument(args[0])
		if err != nil {
			return err
		}

		var v any = doc
		if showKey != "" {
			var ok bool
			if v, ok = doc.Get(showKey); !ok {
				return fmt.Errorf("key %q not found in %s", showKey, args[0])
			}
		}

		out, err := formatValue(v, showFormat)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), out)
		return nil
	},
}

var configPath string
var paramsPath string

var configCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the pipeline config and params files",
	RunE: func(cmd *cobra.Command, args []string) error {
		store := newStore()

		doc, err := store.ReadYAML(configPath)
		if err != nil {
			return err
		}
		cfg, err := config.DecodeConfig(doc)
		if err != nil {
			return fmt.Errorf("%s: %w", configPath, err)
		}

		doc, err = store.ReadYAML(paramsPath)
		if err != nil {
			return err
		}
		params, err := config.DecodeParams(doc)
		if err != nil {
			return fmt.Errorf("%s: %w", paramsPath, err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "artifacts root: %s\n", cfg.ArtifactsRoot)
		fmt.Fprintf(cmd.OutOrStdout(), "directories:    %s\n", strings.Join(cfg.Directories(), ", "))
		fmt.Fprintf(cmd.OutOrStdout(), "image size:     %v\n", params.ImageSize)
		fmt.Fprintf(cmd.OutOrStdout(), "batch size:     %d\n", params.BatchSize)
		fmt.Fprintf(cmd.OutOrStdout(), "epochs:         %d\n", params.Epochs)
		return nil
	},
}

var configDirsQuiet bool

var configDirsCmd = &cobra.Command{
	Use:   "dirs",
	Short: "Create every directory referenced by the pipeline config",
	RunE: func(cmd *cobra.Command, args []string) error {
		store := newStore()

		doc, err := store.ReadYAML(configPath)
		if err != nil {
			return err
		}
		cfg, err := config.DecodeConfig(doc)
		if err != nil {
			return fmt.Errorf("%s: %w", configPath, err)
		}
		return store.EnsureDirectories(cfg.Directories(), !configDirsQuiet)
	},
}

func loadDocument(path string) (config.Document, error) {
	store := newStore()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return store.LoadJSON(path)
	case ".yaml", ".yml":
		return store.ReadYAML(path)
	default:
		return config.Document{}, fmt.Errorf("unsupported config extension %q (want .yaml, .yml or .json)", filepath.Ext(path))
	}
}

func formatValue(v any, format string) (string, error) {
	switch format {
	case "json":
		b, err := json.MarshalIndent(v, "", "    ")
		if err != nil {
			return "", err
		}
		return string(b) + "\n", nil
	case "yaml":
		b, err := yaml.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(b), nil
	default:
		return "", fmt.Errorf("unknown format %q (want yaml or json)", format)
	}
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd, configCheckCmd, configDirsCmd)

	configShowCmd.Flags().StringVarP(&showKey, "key", "k", "", "Dotted key to print instead of the whole document")
	configShowCmd.Flags().StringVarP(&showFormat, "format", "f", "yaml", "Output format: yaml or json")

	for _, c := range []*cobra.Command{configCheckCmd, configDirsCmd} {
		c.Flags().StringVarP(&configPath, "config", "c", "config/config.yaml", "Pipeline config file")
	}
	configCheckCmd.Flags().StringVarP(&paramsPath, "params", "p", "params.yaml", "Pipeline params file")
	configDirsCmd.Flags().BoolVarP(&configDirsQuiet, "quiet", "q", false, "Do not log each directory")
}
