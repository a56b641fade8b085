package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// listKeys are always stored as lists, even with a single element.
var listKeys = map[string]bool{"ingest.processors": true}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Read and write raw configuration keys",
	Long: `Reads and writes dotted keys in the config file, for example:

  microverse config set embedding.provider ollama
  microverse config set retrieval.top_k 8
  microverse config set ingest.processors chunker,cleaner
  microverse config get corpus.backend`,
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print a configuration value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if configStore == nil {
			return errors.New("config store not configured")
		}
		v, ok := configStore.Get(args[0])
		if !ok {
			return fmt.Errorf("%s is not set", args[0])
		}
		cmd.Println(formatValue(v))
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Long: `Sets a configuration value. Integers, floats and booleans are stored
typed; values containing commas are stored as lists.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if configStore == nil {
			return errors.New("config store not configured")
		}
		value := parseValue(args[1])
		if str, ok := value.(string); ok && listKeys[args[0]] {
			value = []string{str}
		}
		if err := configStore.Set(args[0], value); err != nil {
			return fmt.Errorf("failed to set %s: %w", args[0], err)
		}
		cmd.Printf("%s = %s\n", args[0], formatValue(value))
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all configuration values",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if configStore == nil {
			return errors.New("config store not configured")
		}
		for _, key := range configStore.Keys() {
			v, _ := configStore.Get(key)
			if strings.HasSuffix(key, "api_key") || strings.HasSuffix(key, ".dsn") {
				cmd.Printf("%s = %s\n", key, mutedStyle.Render("(hidden)"))
				continue
			}
			cmd.Printf("%s = %s\n", key, formatValue(v))
		}
		cmd.Println(mutedStyle.Render(configStore.Path()))
		return nil
	},
}

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configListCmd)
	rootCmd.AddCommand(configCmd)
}

// parseValue types a command-line value.
func parseValue(s string) any {
	if strings.Contains(s, ",") {
		parts := strings.Split(s, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	switch strings.ToLower(s) {
	case "true":
		return true
	case "false":
		return false
	}
	return s
}

func formatValue(v any) string {
	switch val := v.(type) {
	case []string:
		return strings.Join(val, ",")
	case []any:
		parts := make([]string, len(val))
		for i, p := range val {
			parts[i] = fmt.Sprint(p)
		}
		return strings.Join(parts, ",")
	default:
		return fmt.Sprint(val)
	}
}
