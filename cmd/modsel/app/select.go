package app

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/armn3t/go-modfilter"
)

func newSelectCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "select [modules...]",
		Short: "Print the modules that pass the filters",
		Long: `Print the modules that pass the include filters and are not removed by
the exclude filters, one per line.

Modules are taken from the arguments, then from the "modules" list of the
config file, then from stdin (one per line).

Examples:
  modsel select --include '[Coverlet*]*' --exclude '[*.Tests]*' bin/*.dll
  find . -name '*.dll' | modsel select --config filters.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSelect(cmd, args, v)
		},
	}
	cmd.Flags().Bool("parallel", false, "Scan large module lists on all CPUs")
	cmd.Flags().Bool("strict", false, "Fail when a filter expression is invalid instead of skipping it")
	return cmd
}

func runSelect(cmd *cobra.Command, args []string, v *viper.Viper) error {
	log, err := newLogger(v)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	filters, err := loadFilterSet(v)
	if err != nil {
		return err
	}

	strict, err := cmd.Flags().GetBool("strict")
	if err != nil {
		return fmt.Errorf("failed to get strict flag: %w", err)
	}
	if err := filters.Validate(); err != nil {
		if strict {
			return fmt.Errorf("invalid filters: %w", err)
		}
		log.Warn("invalid filter expressions will be skipped", zap.Error(err))
	}

	modules, err := resolveModules(cmd, args, filters)
	if err != nil {
		return err
	}

	parallel, err := cmd.Flags().GetBool("parallel")
	if err != nil {
		return fmt.Errorf("failed to get parallel flag: %w", err)
	}

	selector := modfilter.NewSelector(modfilter.WithLogger(log))
	var kept []string
	if parallel {
		kept = selector.SelectParallel(modules, filters.Include, filters.Exclude)
	} else {
		kept = selector.Select(modules, filters.Include, filters.Exclude)
	}

	for _, module := range kept {
		fmt.Fprintln(cmd.OutOrStdout(), module)
	}
	return nil
}
