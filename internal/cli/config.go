package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"yase/internal/config"
)

var configForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a configuration file with the default settings",
	Long: `Write a configuration file with the default settings.

Without a path the file is written to ~/.config/yase/config.yaml. A path
ending in .toml produces TOML, anything else YAML.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		cmd.Printf("separator:         %q\n", cfg.Transcode.Separator)
		cmd.Printf("input encoding:    %s\n", cfg.Transcode.InputEncoding)
		cmd.Printf("table encoding:    %s\n", cfg.Transcode.TableEncoding)
		cmd.Printf("no replace:        %t\n", cfg.Transcode.NoReplace)
		cmd.Printf("replacements:      %s\n", orDefault(cfg.Transcode.Replacements, "bundled"))
		cmd.Printf("normalize unicode: %t\n", cfg.Transcode.NormalizeUnicode)
		cmd.Printf("output format:     %s\n", orDefault(cfg.Output.Format, "from extension"))
		cmd.Printf("progress:          %s\n", cfg.Progress.Mode)
		cmd.Printf("unknown top:       %d\n", cfg.Report.UnknownTop)
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVarP(&configForce, "force", "f", false, "overwrite an existing file")
	configCmd.AddCommand(configInitCmd, configShowCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	var path string
	if len(args) == 1 {
		path = args[0]
	} else {
		p, err := config.DefaultUserConfigPath()
		if err != nil {
			return fmt.Errorf("resolve config path: %w", err)
		}
		path = p
	}
	if !configForce {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	if err := config.Save(path, config.Default()); err != nil {
		return fmt.Errorf("write config %s: %w", path, err)
	}
	cmd.Printf("wrote %s\n", path)
	return nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
