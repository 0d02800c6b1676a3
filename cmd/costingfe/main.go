package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/1cFE/1costingfe/internal/config"
)

// app carries state shared by every subcommand.
type app struct {
	v          *viper.Viper
	configFile string
	output     string
	xlsx       string
	out        io.Writer
	cfg        *config.Config
}

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintln(os.Stderr, err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{v: config.NewViper()}

	rootCmd := &cobra.Command{
		Use:           "costingfe",
		Short:         "Fusion power plant costing: sizing, LCOE and sensitivity analysis",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			a.out = cmd.OutOrStdout()
			cfg, err := config.Load(a.v, a.configFile)
			if err != nil {
				return err
			}
			a.cfg = cfg
			return nil
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "", "YAML config file")
	pf.StringVarP(&a.output, "output", "o", "table", "output format: table, markdown or json")
	pf.StringVar(&a.xlsx, "xlsx", "", "also write results to this Excel workbook")
	pf.String("log-level", "info", "log level: debug, info, warn, error")
	pf.String("log-format", "console", "log format: console or json")
	pf.String("defaults", "", "YAML file of default engineering parameters")
	pf.String("constants", "", "YAML file of costing constants")
	pf.Int("workers", 0, "concurrent evaluations for compare and sweep (0 = all CPUs)")
	for key, flag := range map[string]string{
		config.KeyLogLevel:      "log-level",
		config.KeyLogFormat:     "log-format",
		config.KeyDefaultsFile:  "defaults",
		config.KeyConstantsFile: "constants",
		config.KeyBatchWorkers:  "workers",
	} {
		_ = a.v.BindPFlag(key, pf.Lookup(flag))
	}

	rootCmd.AddCommand(forwardCmd(a))
	rootCmd.AddCommand(sensitivityCmd(a))
	rootCmd.AddCommand(backcastCmd(a))
	rootCmd.AddCommand(compareCmd(a))
	rootCmd.AddCommand(sweepCmd(a))
	rootCmd.AddCommand(conceptsCmd(a))
	rootCmd.AddCommand(serveCmd(a))
	return rootCmd
}

// scenarioFlags selects a plant either from a scenario file or from flags.
type scenarioFlags struct {
	concept string
	fuel    string
	net     float64
	sets    map[string]string
}

func (f *scenarioFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.concept, "concept", "tokamak", "confinement concept")
	cmd.Flags().StringVar(&f.fuel, "fuel", "dt", "fuel: dt, dd, dhe3 or pb11")
	cmd.Flags().Float64Var(&f.net, "net", 1000, "net electric target (MW)")
	cmd.Flags().StringToStringVar(&f.sets, "set", nil, "engineering override name=value (repeatable)")
}

func forwardCmd(a *app) *cobra.Command {
	var sf scenarioFlags
	cmd := &cobra.Command{
		Use:   "forward [scenario]",
		Short: "Size a plant for its net electric target and compute LCOE",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return a.runForward(args, sf)
		},
	}
	sf.register(cmd)
	return cmd
}

func sensitivityCmd(a *app) *cobra.Command {
	var sf scenarioFlags
	var method string
	cmd := &cobra.Command{
		Use:   "sensitivity [scenario]",
		Short: "Rank parameters by LCOE elasticity",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return a.runSensitivity(args, sf, method)
		},
	}
	sf.register(cmd)
	cmd.Flags().StringVar(&method, "method", "", "central (default) or forward")
	return cmd
}

func backcastCmd(a *app) *cobra.Command {
	var sf scenarioFlags
	var bf backcastFlags
	cmd := &cobra.Command{
		Use:   "backcast [scenario]",
		Short: "Solve for the parameter values that reach a target LCOE",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return a.runBackcast(args, sf, bf)
		},
	}
	sf.register(cmd)
	cmd.Flags().Float64Var(&bf.target, "target", 0, "target LCOE ($/MWh)")
	cmd.Flags().StringVar(&bf.param, "param", "", "free parameter")
	cmd.Flags().Float64Var(&bf.min, "min", 0, "lower bound of the free parameter")
	cmd.Flags().Float64Var(&bf.max, "max", 1, "upper bound of the free parameter")
	return cmd
}

func compareCmd(a *app) *cobra.Command {
	var sf scenarioFlags
	cmd := &cobra.Command{
		Use:   "compare [scenario]",
		Short: "Rank concept and fuel combinations by LCOE",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCompare(cmd.Context(), args, sf)
		},
	}
	sf.register(cmd)
	return cmd
}

func sweepCmd(a *app) *cobra.Command {
	var sf scenarioFlags
	var sw sweepFlags
	cmd := &cobra.Command{
		Use:   "sweep [scenario]",
		Short: "Scan one parameter and summarize LCOE",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSweep(cmd.Context(), args, sf, sw)
		},
	}
	sf.register(cmd)
	cmd.Flags().StringVar(&sw.param, "param", "", "parameter to sweep")
	cmd.Flags().Float64Var(&sw.from, "from", 0, "first value")
	cmd.Flags().Float64Var(&sw.to, "to", 0, "last value")
	cmd.Flags().IntVar(&sw.points, "points", 11, "number of points")
	return cmd
}

func conceptsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "concepts",
		Short: "List confinement concepts and fuels",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return a.runConcepts()
		},
	}
}

func serveCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runServe(cmd.Context())
		},
	}
	cmd.Flags().IntP("port", "p", 8080, "HTTP server port")
	_ = a.v.BindPFlag(config.KeyServerPort, cmd.Flags().Lookup("port"))
	return cmd
}
