// Package app provides the commands of the modsel CLI.
package app

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/armn3t/go-modfilter/internal/config"
)

// NewRootCmd creates the modsel root command with all subcommands attached.
// Every call returns an independent command tree with its own viper instance.
func NewRootCmd() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix(config.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	rootCmd := &cobra.Command{
		Use:               "modsel",
		DisableAutoGenTag: true,
		SilenceUsage:      true,
		Short:             "Select modules with [module]type filter expressions",
		Long: `modsel applies include and exclude filter expressions of the form
[modulePattern]typePattern to a list of module names and prints the modules
that survive.`,
		Run: func(cmd *cobra.Command, _ []string) {
			if err := cmd.Help(); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error displaying help: %v\n", err)
			}
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.Bool("debug", false, "Enable debug logging")
	flags.String("config", "", "Path to a YAML filter set")
	flags.StringSlice("include", nil, "Include filter expression (repeatable)")
	flags.StringSlice("exclude", nil, "Exclude filter expression (repeatable)")
	for _, name := range []string{"debug", "config", "include", "exclude"} {
		if err := v.BindPFlag(name, flags.Lookup(name)); err != nil {
			panic(fmt.Sprintf("binding flag %q: %v", name, err))
		}
	}

	rootCmd.AddCommand(newSelectCmd(v))
	rootCmd.AddCommand(newValidateCmd(v))
	rootCmd.AddCommand(newCompareCmd(v))

	return rootCmd
}

func newLogger(v *viper.Viper) (*zap.Logger, error) {
	if v.GetBool("debug") {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// loadFilterSet merges the config file, if any, with filters given as flags.
func loadFilterSet(v *viper.Viper) (*config.Config, error) {
	fileCfg := &config.Config{}
	if path := v.GetString("config"); path != "" {
		var err error
		fileCfg, err = config.LoadConfig(path)
		if err != nil {
			return nil, err
		}
	}

	return fileCfg.Merge(&config.Config{
		Include: v.GetStringSlice("include"),
		Exclude: v.GetStringSlice("exclude"),
	}), nil
}

// resolveModules picks the candidate modules: positional arguments first,
// then the config file, then one name per line from stdin.
func resolveModules(cmd *cobra.Command, args []string, cfg *config.Config) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}
	if len(cfg.Modules) > 0 {
		return cfg.Modules, nil
	}
	return readModules(cmd.InOrStdin())
}

func readModules(r io.Reader) ([]string, error) {
	var modules []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			modules = append(modules, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read modules: %w", err)
	}
	return modules, nil
}
