package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/pflag"

	"github.com/anrid/intervaltree/pkg/config"
	"github.com/anrid/intervaltree/pkg/console"
	"github.com/anrid/intervaltree/pkg/logger"
	"github.com/anrid/intervaltree/pkg/session"
)

func main() {
	configFile := pflag.StringP("config", "c", "itree.yaml", "Path to a YAML config file. A missing file means defaults.")
	script := pflag.StringP("script", "s", "-", "Path or URL to a command script, one command per line (insert, delete, search, overlaps, list, tree, height, undo, reset, load). Use - for stdin.")
	seed := pflag.String("seed", "", "Path or URL to a CSV file with intervals to load before the script runs. Each record is either low,high or a single range column (1-5, a CIDR block).")
	balancing := pflag.StringP("balancing", "b", "", "Balancing policy: redblack or avl (overrides config)")
	ipEndpoints := pflag.Bool("ip", false, "Render endpoints as IPv4 addresses")
	noColor := pflag.Bool("no-color", false, "Disable colored output")
	stopOnError := pflag.Bool("stop-on-error", false, "Abort the script at the first failing command")
	verbose := pflag.BoolP("verbose", "v", false, "Verbose output, helps when troubleshooting.")

	pflag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "itree: %v\n", err)
		os.Exit(2)
	}

	if *balancing != "" {
		cfg.Balancing = *balancing
	}
	if *ipEndpoints {
		cfg.IPEndpoints = true
	}
	if *noColor {
		cfg.Color = false
	}
	if *stopOnError {
		cfg.StopOnError = true
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "itree: %v\n", err)
		pflag.Usage()
		os.Exit(2)
	}

	log, err := logger.New(cfg.Environment == config.Production, *verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "itree: %v\n", err)
		os.Exit(2)
	}
	defer log.Sync()

	if code := run(cfg, log, *script, *seed); code != 0 {
		log.Sync()
		os.Exit(code)
	}
}

func run(cfg config.Config, log logger.Logger, script, seed string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sess := session.New(session.Config{
		Balancing:    cfg.BalancingPolicy(),
		HistoryDepth: cfg.HistoryDepth,
		IPEndpoints:  cfg.IPEndpoints,
	}, log)

	params := console.RunParams{
		Script:      script,
		Seed:        seed,
		Output:      os.Stdout,
		Color:       cfg.Color,
		IPEndpoints: cfg.IPEndpoints,
		StopOnError: cfg.StopOnError,
	}
	if script == "-" {
		params.Input = os.Stdin
	}

	log.Debugf("starting with %s balancing", cfg.BalancingPolicy())

	sum, err := console.Run(ctx, sess, log, params)
	if err != nil {
		log.Errorf("%v", err)
		fmt.Fprintf(os.Stderr, "itree: %v\n", err)
		return 1
	}

	fmt.Printf("\nRan %d commands (%d failed) | %d intervals stored, height %d, %s tree\n",
		sum.Commands, sum.Failures, sess.Tree().Len(), sess.Tree().Height(), cfg.BalancingPolicy())
	if sum.Failures > 0 {
		return 1
	}
	return 0
}
