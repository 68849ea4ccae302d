package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/samuelfneumann/gridmdp/agent"
	"github.com/samuelfneumann/gridmdp/environment/envconfig"
	"github.com/samuelfneumann/gridmdp/environment/gridworld"
	"github.com/samuelfneumann/gridmdp/experiment"
	"github.com/samuelfneumann/gridmdp/experiment/trackers"
	"github.com/samuelfneumann/gridmdp/render"
	"github.com/samuelfneumann/gridmdp/utils/progressbar"
)

const progressWidth = 40

// options holds the flags shared by all commands
type options struct {
	seed        uint64
	randomReset bool
	noColor     bool
	progress    bool
	pngDir      string
	chartFile   string
	dataDir     string
}

func main() {
	var o options

	root := &cobra.Command{
		Use:           "gridmdp",
		Short:         "Solve gridworld MDPs with value iteration and Q-learning",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().Uint64Var(&o.seed, "seed", 1,
		"Seed of the random source shared by the environment and solver")
	root.PersistentFlags().BoolVar(&o.randomReset, "random-reset", false,
		"Reset Q-learning episodes to a random empty cell")
	root.PersistentFlags().BoolVar(&o.noColor, "no-color", false,
		"Disable colored output")
	root.PersistentFlags().BoolVar(&o.progress, "progress", false,
		"Display a progress bar on stderr while solving")
	root.PersistentFlags().StringVar(&o.pngDir, "png", "",
		"Directory to save a PNG of each result to")
	root.PersistentFlags().StringVar(&o.chartFile, "chart", "",
		"HTML file to plot tracked residuals and returns to")
	root.PersistentFlags().StringVar(&o.dataDir, "data", "",
		"Directory to save tracked data to")

	root.AddCommand(runCommand(&o), solveCommand(&o))

	if err := root.Execute(); err != nil {
		log.Fatalf("[MAIN] [ERROR] %v", err)
	}
}

func runCommand(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "run <grid> <queries>",
		Short: "Answer each query of a query file on a grid file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQueries(args[0], args[1], *o)
		},
	}
}

func solveCommand(o *options) *cobra.Command {
	var method string
	var iterations int

	cmd := &cobra.Command{
		Use:   "solve <grid>",
		Short: "Run a single solver on a grid file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return solve(args[0], agent.Type(method), iterations, *o)
		},
	}
	cmd.Flags().StringVar(&method, "method", string(agent.ValueIteration),
		"Solver to run: MDP (value iteration) or RL (Q-learning)")
	cmd.Flags().IntVar(&iterations, "iterations", -1,
		"Sweeps or episodes to run, defaults to the grid file's K or "+
			"Episodes")
	return cmd
}

func runQueries(gridFile, queryFile string, o options) error {
	envConf, err := envconfig.Load(gridFile)
	if err != nil {
		return err
	}
	queries, err := experiment.LoadQueries(queryFile)
	if err != nil {
		return err
	}
	log.Printf("[MAIN] [INFO] %d queries on %v with seed %d", len(queries),
		gridFile, o.seed)

	term := render.NewTerminal(os.Stdout, !o.noColor, false)
	series := make(map[string][]float64)

	for i, q := range queries {
		name := fmt.Sprintf("query%02d", i+1)

		// Every query starts from a fresh grid and the same seed
		e, env, err := q.Config(envConf, o.randomReset).CreateExp(o.seed)
		if err != nil {
			return fmt.Errorf("%v: %v", name, err)
		}
		if err := execute(e, name, q.Method, q.Steps, o, series); err != nil {
			return fmt.Errorf("%v: %v", name, err)
		}

		fmt.Println(q)
		if err := answer(term, env, e.Agent, q.Method, q.Kind); err != nil {
			return err
		}

		pos := envConf.GridPosition(q.Cell)
		if err := term.Cell(env, e.Agent, pos); err != nil {
			log.Printf("[MAIN] [WARN] %v: %v", name, err)
		}

		if err := savePNG(env, e.Agent, q.Method, name, o); err != nil {
			return err
		}
	}

	return saveChart(series, "Queries on "+filepath.Base(gridFile), o)
}

func solve(gridFile string, method agent.Type, iterations int,
	o options) error {
	envConf, err := envconfig.Load(gridFile)
	if err != nil {
		return err
	}

	c := experiment.NewConfig(method, envConf, o.randomReset)
	if iterations >= 0 {
		c.Iterations = iterations
	}

	e, env, err := c.CreateExp(o.seed)
	if err != nil {
		return err
	}
	series := make(map[string][]float64)
	if err := execute(e, "solve", method, c.Iterations, o, series); err != nil {
		return err
	}

	term := render.NewTerminal(os.Stdout, !o.noColor, true)
	if err := answer(term, env, e.Agent, method,
		experiment.BestPolicy); err != nil {
		return err
	}
	if method == agent.QLearning {
		if err := term.QValues(env); err != nil {
			return err
		}
	}

	if err := savePNG(env, e.Agent, method, "solve", o); err != nil {
		return err
	}
	return saveChart(series, string(method)+" on "+filepath.Base(gridFile),
		o)
}

// execute registers the trackers of the solver, runs the experiment and
// collects the tracked data into series
func execute(e *experiment.Online, name string, method agent.Type,
	steps int, o options, series map[string][]float64) error {
	filename := func(tracker string) string {
		if o.dataDir == "" {
			return ""
		}
		return filepath.Join(o.dataDir, fmt.Sprintf("%v_%v.bin", name,
			tracker))
	}

	if r, ok := e.Agent.(agent.Residualer); ok {
		e.Register(trackers.NewResidual(r, filename("residual")))
	} else {
		e.Register(trackers.NewReturn(filename("return")))
		e.Register(trackers.NewEpisodeLength(filename("length")))
	}

	if o.progress {
		label := fmt.Sprintf("%v %v", name, method)
		e.SetProgress(progressbar.NewManualProgressBar(os.Stderr, label,
			progressWidth, steps))
	}

	if err := e.Run(); err != nil {
		return err
	}

	if o.dataDir != "" {
		if err := os.MkdirAll(o.dataDir, 0755); err != nil {
			return fmt.Errorf("could not create data directory: %v", err)
		}
		if err := e.Save(); err != nil {
			return err
		}
	}

	for _, t := range e.Trackers() {
		series[fmt.Sprintf("%v %v", name, t.Name())] = t.Data()
	}
	return nil
}

// answer prints the grid a query asks for. Value iteration always shows
// its values, Q-learning shows learned values for policy queries and
// action estimates otherwise.
func answer(term *render.Terminal, env *gridworld.GridWorld,
	p agent.Policy, method agent.Type, kind experiment.QueryKind) error {
	switch {
	case method == agent.ValueIteration:
		return term.Values(env, p)
	case kind == experiment.BestPolicy:
		return term.LearnedValues(env, p)
	default:
		return term.QValues(env)
	}
}

func savePNG(env *gridworld.GridWorld, p agent.Policy, method agent.Type,
	name string, o options) error {
	if o.pngDir == "" {
		return nil
	}
	if err := os.MkdirAll(o.pngDir, 0755); err != nil {
		return fmt.Errorf("could not create image directory: %v", err)
	}

	filename := filepath.Join(o.pngDir, name+".png")
	img := render.NewImage(env, p, method == agent.QLearning)
	if err := img.SavePNG(filename); err != nil {
		return err
	}
	log.Printf("[MAIN] [INFO] saved %v", filename)
	return nil
}

func saveChart(series map[string][]float64, title string, o options) error {
	if o.chartFile == "" || len(series) == 0 {
		return nil
	}

	f, err := os.Create(o.chartFile)
	if err != nil {
		return fmt.Errorf("could not create chart file: %v", err)
	}
	defer f.Close()

	if err := render.Chart(f, title, series); err != nil {
		return err
	}
	log.Printf("[MAIN] [INFO] saved %v", o.chartFile)
	return nil
}
