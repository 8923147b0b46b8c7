package app

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/armn3t/go-modfilter"
)

func newValidateCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [filters...]",
		Short: "Check filter expressions",
		Long: `Check filter expressions given as arguments, or every include and exclude
expression of the config file and flags when no arguments are given.

Each expression is printed with "valid" or the rule it breaks. The command
fails if any expression is invalid.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, args, v)
		},
	}
}

func runValidate(cmd *cobra.Command, args []string, v *viper.Viper) error {
	filters := args
	if len(filters) == 0 {
		set, err := loadFilterSet(v)
		if err != nil {
			return err
		}
		filters = append(append(filters, set.Include...), set.Exclude...)
	}

	invalid := 0
	for _, filter := range filters {
		_, err := modfilter.ParseFilterExpression(filter)
		var exprErr *modfilter.ExpressionError
		switch {
		case err == nil:
			fmt.Fprintf(cmd.OutOrStdout(), "%s\tvalid\n", filter)
		case errors.As(err, &exprErr):
			invalid++
			fmt.Fprintf(cmd.OutOrStdout(), "%s\tinvalid: %s\n", filter, exprErr.Reason)
		default:
			return err
		}
	}

	if invalid > 0 {
		return fmt.Errorf("%d of %d filter expressions are invalid", invalid, len(filters))
	}
	return nil
}
