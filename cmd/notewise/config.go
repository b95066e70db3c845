package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jeanpaul/notewise/internal/config"
	"github.com/jeanpaul/notewise/internal/llm"
	"github.com/jeanpaul/notewise/internal/tui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change the configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, key := range config.Keys {
			val, err := cfg.Get(key)
			if err != nil {
				return err
			}
			if key == "api_key" && val != "" {
				val = llm.MaskKey(val)
			}
			if val == "" || (key == "timeout" && val == "0") {
				val = tui.HelpStyle.Render("(default)")
			}
			fmt.Printf("  %s %s\n", tui.LabelStyle.Render(fmt.Sprintf("%-14s", key+":")), val)
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set one key and save the config file",
	Long:  "Set one key and save the config file. Keys: service, model, api_key, timeout, base_url, system_prompt, notes_dir, extensions (comma separated).",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		// Edit the file as written so env overrides and $VAR secrets stay out of it.
		path := configPath()
		stored, err := config.LoadFile(path)
		if err != nil {
			return err
		}
		if err := stored.Set(args[0], args[1]); err != nil {
			return err
		}
		if err := stored.Save(path); err != nil {
			return err
		}
		logger.Debug("config saved")
		fmt.Printf("%s %s in %s\n", tui.SuccessStyle.Render("Set"), args[0], tui.PathStyle.Render(path))
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		path := configPath()
		if _, err := os.Stat(path); err != nil {
			fmt.Printf("%s %s\n", path, tui.HelpStyle.Render("(not created yet)"))
			return
		}
		fmt.Println(path)
	},
}

// configPath is the file in use: --config, the file Load found, or the
// default location.
func configPath() string {
	switch {
	case cfgFile != "":
		return cfgFile
	case cfgUsed != "":
		return cfgUsed
	}
	return config.DefaultPath()
}

func init() {
	configCmd.AddCommand(configShowCmd, configSetCmd, configPathCmd)
	rootCmd.AddCommand(configCmd)
}
