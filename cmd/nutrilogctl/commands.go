package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/pageza/nutrilog/backend/internal/database"
	"github.com/pageza/nutrilog/backend/internal/service"
)

const (
	targetAll          = "all"
	targetRecipes      = "recipes"
	targetConsumptions = "consumptions"
)

type dbOpener func() (*gorm.DB, error)

func newMigrateCmd(open dbOpener) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := open()
			if err != nil {
				return err
			}
			if err := database.Migrate(db); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
			return nil
		},
	}
}

func newRecalcCmd(open dbOpener) *cobra.Command {
	var (
		target string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "recalc",
		Short: "Refresh stale cached nutrition totals",
		Long: "Recomputes the nutrition of every recipe and logged meal from the current " +
			"product catalog and rewrites cached totals that drifted.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := open()
			if err != nil {
				return err
			}
			return recalculate(cmd.Context(), db, target, asJSON, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&target, "only", targetAll, "what to recalculate: all, recipes or consumptions")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	return cmd
}

// recalculate refreshes the cached totals of target and writes one report per
// entity.
func recalculate(ctx context.Context, db *gorm.DB, target string, asJSON bool, out io.Writer) error {
	reports := make(map[string]service.RecalcReport)
	switch target {
	case targetAll, targetRecipes, targetConsumptions:
	default:
		return fmt.Errorf("unknown target %q", target)
	}

	if target != targetConsumptions {
		report, err := service.NewRecipeService(db).RecalculateTotals(ctx)
		if err != nil {
			return err
		}
		reports[targetRecipes] = report
	}
	if target != targetRecipes {
		report, err := service.NewConsumptionService(db).RecalculateTotals(ctx)
		if err != nil {
			return err
		}
		reports[targetConsumptions] = report
	}

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	}
	for _, name := range []string{targetRecipes, targetConsumptions} {
		r, ok := reports[name]
		if !ok {
			continue
		}
		fmt.Fprintf(out, "%-13s checked=%d refreshed=%d failed=%d\n", name, r.Checked, r.Refreshed, r.Failed)
	}
	return nil
}
