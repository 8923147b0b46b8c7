package app

import (
	"fmt"
	"slices"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/armn3t/go-modfilter"
)

func newCompareCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "compare [modules...]",
		Short: "Time per-module matching against batch selection",
		Long: `Run the filters once per module with IsModuleExcluded and IsModuleIncluded,
then once over all modules with SelectModules, and report both durations and
whether the two approaches kept the same modules.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(cmd, args, v)
		},
	}
}

// comparison is the outcome of running both selection approaches.
type comparison struct {
	perModule     []string
	batch         []string
	perModuleTime time.Duration
	batchTime     time.Duration
}

func (c comparison) equal() bool {
	a := slices.Clone(c.perModule)
	b := slices.Clone(c.batch)
	slices.Sort(a)
	slices.Sort(b)
	return slices.Equal(a, b)
}

func compareApproaches(modules, include, exclude []string) comparison {
	var c comparison

	start := time.Now()
	for _, module := range modules {
		if modfilter.IsModuleExcluded(module, exclude) || !modfilter.IsModuleIncluded(module, include) {
			continue
		}
		c.perModule = append(c.perModule, module)
	}
	c.perModuleTime = time.Since(start)

	start = time.Now()
	c.batch = modfilter.SelectModules(modules, include, exclude)
	c.batchTime = time.Since(start)

	return c
}

func runCompare(cmd *cobra.Command, args []string, v *viper.Viper) error {
	filters, err := loadFilterSet(v)
	if err != nil {
		return err
	}

	modules, err := resolveModules(cmd, args, filters)
	if err != nil {
		return err
	}

	c := compareApproaches(modules, filters.Include, filters.Exclude)

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Per-module approach: %v (%d kept)\n", c.perModuleTime, len(c.perModule))
	fmt.Fprintf(out, "Batch approach:      %v (%d kept)\n", c.batchTime, len(c.batch))
	fmt.Fprintf(out, "Results match: %t\n", c.equal())
	return nil
}
