/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/gomhd/store"
)

// ShowCmd represents the show command
var ShowCmd = &cobra.Command{
	Use:   "show",
	Short: "List stored runs and plot their snapshots",
	Long: `
Reads a run database written by "gomhd 1D --db",

gomhd show --db runs.db                         # list runs
gomhd show --db runs.db --run 1                 # list the stored steps of run 1
gomhd show --db runs.db --run 1 --step 400 -q by`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := ShowOptions{DBFile: viper.GetString("showDB")}
		opts.RunID, _ = cmd.Flags().GetInt64("run")
		opts.Step, _ = cmd.Flags().GetInt("step")
		opts.Field, _ = cmd.Flags().GetString("graphField")
		return Show(context.Background(), opts, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(ShowCmd)
	ShowCmd.Flags().String("db", "gomhd.db", "SQLite file written by the 1D command")
	ShowCmd.Flags().Int64("run", 0, "run to show, 0 lists the runs")
	ShowCmd.Flags().Int("step", -1, "step to plot, -1 lists the stored steps")
	ShowCmd.Flags().StringP("graphField", "q", "rho", "which field should be plotted - rho, ux, uy, uz, pg, e, bx, by, bz")
	_ = viper.BindPFlag("showDB", ShowCmd.Flags().Lookup("db"))
}

type ShowOptions struct {
	DBFile string
	RunID  int64
	Step   int
	Field  string
}

func Show(ctx context.Context, opts ShowOptions, out io.Writer) (err error) {
	var (
		db *store.Store
	)
	if db, err = store.Open(opts.DBFile); err != nil {
		return
	}
	defer func() { _ = db.Close() }()
	if opts.RunID == 0 {
		var runs []store.RunMeta
		if runs, err = db.ListRuns(ctx); err != nil {
			return
		}
		for _, r := range runs {
			fmt.Fprintf(out, "[%d]\t\"%s\" %s %s N=%d DT=%g FinalTime=%g %s\n",
				r.ID, r.Title, r.Case, r.Integrator, r.N, r.DT, r.FinalTime, r.Created.Format("2006-01-02 15:04:05"))
		}
		return
	}
	if _, err = db.LoadRun(ctx, opts.RunID); err != nil {
		return
	}
	if opts.Step < 0 {
		var steps []int
		if steps, err = db.ListSteps(ctx, opts.RunID); err != nil {
			return
		}
		fmt.Fprintf(out, "run %d steps: %v\n", opts.RunID, steps)
		return
	}
	t, state, err := db.LoadSnapshot(ctx, opts.RunID, opts.Step)
	if err != nil {
		return
	}
	plot, err := PlotField(state, opts.Field, t)
	if err != nil {
		return
	}
	fmt.Fprintln(out, plot)
	return
}
