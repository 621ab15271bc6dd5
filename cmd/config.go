// config.go implements the "sprout config" command for configuration
// management.
//
// Design: config follows a cascade model similar to git: local config
// (.sprout/config.yaml) takes precedence over global
// (~/.sprout/config.yaml). The --local flag forces use of local config
// even if it doesn't exist yet. Writes go to the same place reads came
// from.

package cmd

import (
	"fmt"

	"github.com/jpl-au/sprout/internal/config"
	"github.com/spf13/cobra"
)

var configLocal bool

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "View or set config values",
	Long: `View or set config values.

  sprout config                   # show config
  sprout config output.dir        # show output.dir value
  sprout config output.dir src/   # set output.dir

Configuration locations:
  Global: ~/.sprout/config.yaml
  Local:  .sprout/config.yaml

Uses local config if it exists, otherwise global.
Use --local to use local config instead.`,
	Args: cobra.MaximumNArgs(2),
	RunE: runConfig,
}

func runConfig(_ *cobra.Command, args []string) error {
	var cfg *config.Config
	var err error
	if configLocal {
		cfg, err = config.LoadScope(config.ScopeLocal)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return PrintJSONError(fmt.Errorf("config load: %w", err))
	}

	scopeName := "global"
	if cfg.Scope() == config.ScopeLocal {
		scopeName = "local"
	}

	switch len(args) {
	case 0:
		values := map[string]string{}
		for _, k := range config.ValidKeys() {
			v, err := cfg.Get(k)
			if err != nil {
				return PrintJSONError(err)
			}
			values[k] = v
			if !JSON() {
				fmt.Fprintf(Out(), "%s: %s\n", k, v)
			}
		}
		return PrintJSON(values)

	case 1:
		v, err := cfg.Get(args[0])
		if err != nil {
			return PrintJSONError(fmt.Errorf("config get %q: %w", args[0], err))
		}
		if !JSON() {
			fmt.Fprintln(Out(), v)
		}
		return PrintJSON(map[string]string{args[0]: v})

	default:
		if err := cfg.Set(args[0], args[1]); err != nil {
			return PrintJSONError(fmt.Errorf("config set %q: %w", args[0], err))
		}
		if err := cfg.Save(); err != nil {
			return PrintJSONError(fmt.Errorf("config save: %w", err))
		}
		if !JSON() {
			fmt.Fprintf(Out(), "%s = %s (%s)\n", args[0], args[1], scopeName)
		}
		return PrintJSON(map[string]string{args[0]: args[1], "scope": scopeName})
	}
}

func init() {
	configCmd.Flags().BoolVar(&configLocal, "local", false, "Use local config (.sprout/config.yaml)")
	rootCmd.AddCommand(configCmd)
}
