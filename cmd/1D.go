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
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/notargets/gomhd/FD1D"
	"github.com/notargets/gomhd/InputParameters"
	"github.com/notargets/gomhd/model_problems/MHD1D"
	"github.com/notargets/gomhd/store"
	"github.com/notargets/gomhd/types"
)

// OneDCmd represents the 1D command
var OneDCmd = &cobra.Command{
	Use:   "1D",
	Short: "One Dimensional ideal MHD solution",
	Long: `
Integrates the 1.5D ideal MHD equations for one of the initial condition cases,

gomhd 1D -I case.yaml
gomhd 1D --case brio_wu --n 800 --finalTime 0.1 --graph --graphField by`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		m1d := &Model1D{
			InputFile:   viper.GetString("inputFile"),
			DBFile:      viper.GetString("db"),
			MetricsAddr: viper.GetString("metricsAddr"),
		}
		m1d.Graph, _ = cmd.Flags().GetBool("graph")
		m1d.GraphField, _ = cmd.Flags().GetString("graphField")
		if m1d.IP, err = processInput(m1d.InputFile, cmd.Flags()); err != nil {
			return
		}
		m1d.IP.Print()
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		return Run1D(ctx, m1d, logger, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(OneDCmd)
	var (
		ip = InputParameters.NewInputParameters1D()
	)
	OneDCmd.Flags().StringP("inputFile", "I", "", "YAML file for input parameters like:\n\t- Case\n\t- NumPoints\n\t- DT\n\t- FinalTime")
	OneDCmd.Flags().StringP("case", "c", ip.Case, "Case to run: uniform, density_wave, brio_wu, alfven_wave")
	OneDCmd.Flags().IntP("n", "n", ip.N, "Number of grid points")
	OneDCmd.Flags().Float64("dt", ip.DT, "Fixed time step")
	OneDCmd.Flags().Float64("finalTime", ip.FinalTime, "FinalTime - the target end time for the sim")
	OneDCmd.Flags().Float64("gamma", ip.Gamma, "Ratio of specific heats")
	OneDCmd.Flags().Float64("stretch", ip.Stretch, "Grid clustering, > 0 toward the middle, < 0 toward the ends")
	OneDCmd.Flags().String("integrator", ip.Integrator, "Time integrator: euler or rk3")
	OneDCmd.Flags().String("bc", ip.BC, "Boundary condition: none, dirichlet or neuman")
	OneDCmd.Flags().Bool("parallel", false, "evaluate the eight equations concurrently")
	OneDCmd.Flags().String("db", "", "SQLite file to store the run and its snapshots")
	OneDCmd.Flags().String("metricsAddr", "", "address to serve Prometheus metrics on, e.g. :2112")
	OneDCmd.Flags().BoolP("graph", "g", false, "plot a field at the end of the run")
	OneDCmd.Flags().StringP("graphField", "q", "rho", "which field should be plotted - rho, ux, uy, uz, pg, e, bx, by, bz")
	for _, key := range []string{"inputFile", "db", "metricsAddr"} {
		_ = viper.BindPFlag(key, OneDCmd.Flags().Lookup(key))
	}
}

type Model1D struct {
	IP          *InputParameters.InputParameters1D
	InputFile   string
	DBFile      string
	MetricsAddr string
	Graph       bool
	GraphField  string
}

// processInput reads the input file when given, then applies the flags that
// were set on the command line.
func processInput(inputFile string, flags *pflag.FlagSet) (ip *InputParameters.InputParameters1D, err error) {
	ip = InputParameters.NewInputParameters1D()
	if len(inputFile) != 0 {
		if err = ip.ReadFile(inputFile); err != nil {
			return nil, err
		}
	}
	if flags != nil {
		set := func(name string, apply func()) {
			if flags.Changed(name) {
				apply()
			}
		}
		set("case", func() { ip.Case, _ = flags.GetString("case") })
		set("n", func() { ip.N, _ = flags.GetInt("n") })
		set("dt", func() { ip.DT, _ = flags.GetFloat64("dt") })
		set("finalTime", func() { ip.FinalTime, _ = flags.GetFloat64("finalTime") })
		set("gamma", func() { ip.Gamma, _ = flags.GetFloat64("gamma") })
		set("stretch", func() { ip.Stretch, _ = flags.GetFloat64("stretch") })
		set("integrator", func() { ip.Integrator, _ = flags.GetString("integrator") })
		set("bc", func() { ip.BC, _ = flags.GetString("bc") })
		set("parallel", func() { ip.Parallel, _ = flags.GetBool("parallel") })
	}
	if err = ip.Validate(); err != nil {
		return nil, err
	}
	return
}

// NewSolver1D builds the grid, the initial state and the solver described by ip
func NewSolver1D(ip *InputParameters.InputParameters1D) (c *MHD1D.Solver, err error) {
	var (
		g          *FD1D.Grid
		s0         *MHD1D.FieldState
		ct         MHD1D.CaseType
		integrator MHD1D.IntegratorType
		bc         types.BCFLAG
	)
	if ct, err = MHD1D.NewCaseType(ip.Case); err != nil {
		return
	}
	if integrator, err = MHD1D.NewIntegratorType(ip.Integrator); err != nil {
		return
	}
	if bc, err = types.NewBCFLAG(ip.BC); err != nil {
		return
	}
	if g, err = FD1D.NewStretchedGrid(ip.XMin, ip.XMax, ip.N, ip.Stretch); err != nil {
		return
	}
	if s0, err = MHD1D.InitializeCase(g, ct, ip.Gamma); err != nil {
		return
	}
	if c, err = MHD1D.NewSolver(g, s0, ip.Gamma, ip.DT, ip.FinalTime, integrator, bc); err != nil {
		return
	}
	c.Parallel = ip.Parallel
	c.SnapshotFrequency = ip.SnapshotFrequency
	if ip.LogFrequency > 0 {
		c.LogFrequency = ip.LogFrequency
	}
	return
}

func Run1D(ctx context.Context, m1d *Model1D, logger *zap.Logger, out io.Writer) (err error) {
	var (
		c   *MHD1D.Solver
		reg = prometheus.NewRegistry()
	)
	if c, err = NewSolver1D(m1d.IP); err != nil {
		return
	}
	c.Logger = logger
	if c.Metrics, err = MHD1D.NewMetrics(reg); err != nil {
		return
	}
	if len(m1d.MetricsAddr) != 0 {
		var shutdown func()
		if _, shutdown, err = serveMetrics(m1d.MetricsAddr, reg, logger); err != nil {
			return
		}
		defer shutdown()
	}
	if len(m1d.DBFile) != 0 {
		var (
			db    *store.Store
			runID int64
		)
		if db, err = store.Open(m1d.DBFile); err != nil {
			return
		}
		defer func() { _ = db.Close() }()
		if runID, err = db.CreateRun(ctx, store.RunMeta{
			Title:      m1d.IP.Title,
			Case:       m1d.IP.Case,
			Integrator: c.Integrator.String(),
			N:          m1d.IP.N,
			Gamma:      c.Gamma,
			DT:         c.DT,
			FinalTime:  c.FinalTime,
		}); err != nil {
			return
		}
		logger.Info("recording run", zap.String("db", db.Path()), zap.Int64("run", runID))
		c.Observer = &store.Recorder{Store: db, RunID: runID}
	}
	start := time.Now()
	if err = c.Run(ctx); err != nil {
		var se *MHD1D.SimulationError
		if errors.As(err, &se) {
			logger.Error("run stopped", zap.Int("step", se.Step), zap.Float64("time", se.Time), zap.Error(se.Wrapped))
		}
		return
	}
	logger.Info("run complete",
		zap.Int("steps", c.Steps),
		zap.Float64("time", c.Time),
		zap.Duration("wall", time.Since(start)))
	if m1d.Graph {
		var plot string
		if plot, err = PlotField(c.State(), m1d.GraphField, c.Time); err != nil {
			return
		}
		fmt.Fprintln(out, plot)
	}
	return
}

// serveMetrics returns the bound address, addr may use port 0
func serveMetrics(addr string, reg *prometheus.Registry, logger *zap.Logger) (bound string, shutdown func(), err error) {
	var ln net.Listener
	if ln, err = net.Listen("tcp", addr); err != nil {
		return "", nil, fmt.Errorf("metrics listener: %w", err)
	}
	bound = ln.Addr().String()
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("metrics server stopped", zap.Error(err))
		}
	}()
	logger.Info("serving metrics", zap.String("addr", bound))
	shutdown = func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
	return
}

// PlotField renders one primitive field of s as an ASCII chart
func PlotField(s *MHD1D.FieldState, field string, t float64) (plot string, err error) {
	var f MHD1D.FieldName
	if f, err = MHD1D.NewFieldName(field); err != nil {
		return
	}
	data := s.Field(f).Data()
	if len(data) == 0 {
		return "", fmt.Errorf("field %s is empty", f)
	}
	plot = asciigraph.Plot(data,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("%s at t = %8.5f, x in [%g, %g]",
			f, t, s.X.AtVec(0), s.X.AtVec(s.X.Len()-1))))
	return
}
