package commands

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/emredev/devai/internal/config"
	"github.com/emredev/devai/internal/models"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `View and change devai settings. Settings live in ~/.devai/config.json.

Keys:
  context_threshold   history size that escalates routing to the architect
  min_response_chars  confidence length cutoff
  request_timeout     provider timeout in seconds
  max_tokens          provider output cap
  server_addr         serve listen address
  api_base            provider base URL override
  verbose             true/false
  copy_to_clipboard   true/false
  model.<TIER>        provider model for a tier, e.g. model.CODER`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.GetConfigPath()
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}

		if err := applyConfigValue(&cfg, args[0], args[1]); err != nil {
			return err
		}

		if err := config.SaveConfig(cfg); err != nil {
			return err
		}
		fmt.Printf("Set %s = %s\n", args[0], args[1])
		return nil
	},
}

func applyConfigValue(cfg *config.Config, key, value string) error {
	if tierName, ok := strings.CutPrefix(key, "model."); ok {
		tier, valid := models.ParseTier(tierName)
		if !valid {
			return fmt.Errorf("unknown tier %q", tierName)
		}
		if cfg.Models == nil {
			cfg.Models = make(map[string]string)
		}
		cfg.Models[tier.String()] = value
		return nil
	}

	switch key {
	case "context_threshold":
		return setInt(&cfg.ContextThreshold, value)
	case "min_response_chars":
		return setInt(&cfg.MinResponseChars, value)
	case "request_timeout":
		return setInt(&cfg.RequestTimeout, value)
	case "max_tokens":
		return setInt(&cfg.MaxTokens, value)
	case "server_addr":
		cfg.ServerAddr = value
	case "api_base":
		cfg.APIBase = value
	case "verbose":
		return setBool(&cfg.Verbose, value)
	case "copy_to_clipboard":
		return setBool(&cfg.CopyToClipboard, value)
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	return nil
}

func setInt(target *int, value string) error {
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return fmt.Errorf("value must be a positive integer, got %q", value)
	}
	*target = n
	return nil
}

func setBool(target *bool, value string) error {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("value must be true or false, got %q", value)
	}
	*target = b
	return nil
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configSetCmd)
}
