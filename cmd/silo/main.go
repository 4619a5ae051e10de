package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"

	"silo/config"
	"silo/conformance"
	"silo/engine"
	"silo/ops"
	"silo/trace"
	"silo/types"
)

func main() {
	configPath := flag.String("config", "", "YAML settings file")
	runPath := flag.String("run", "", "Run scenario file or directory (e.g., conformance/testdata)")
	listKinds := flag.Bool("kinds", false, "List registered kinds with their growth rules")
	dumpConfig := flag.Bool("dump-config", false, "Print the effective settings as YAML")
	parallel := flag.Int("parallel", 0, "Scenarios run at once (overrides the config file)")
	verbose := flag.Bool("v", false, "Report every scenario, not only failures")

	// Trace flags
	traceEnabled := flag.Bool("trace", false, "Enable dispatch tracing")
	traceFilter := flag.String("trace-filter", "", "Trace filter pattern (glob, e.g., 'subs*' or '+')")

	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}
	if *parallel > 0 {
		cfg.Conformance.Parallel = *parallel
	}
	if err := cfg.Apply(os.Stderr); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	if *traceEnabled {
		var filters []string
		if *traceFilter != "" {
			filters = strings.Split(*traceFilter, ",")
			for i := range filters {
				filters[i] = strings.TrimSpace(filters[i])
			}
		}
		trace.Init(true, filters, os.Stderr)
		log.Printf("Tracing enabled (filters: %v)", filters)
	}

	e := engine.New(ops.NewRegistry(cfg.RegistryOptions()...), conformance.Fixtures())

	if *dumpConfig {
		out, err := cfg.Marshal()
		if err != nil {
			log.Fatalf("Failed to marshal config: %v", err)
		}
		os.Stdout.Write(out)
	}
	if *listKinds {
		printKinds(e)
	}
	if *runPath != "" {
		if !runScenarios(e, *runPath, cfg.Conformance.Parallel, *verbose) {
			os.Exit(1)
		}
		return
	}
	if !*dumpConfig && !*listKinds {
		flag.Usage()
		os.Exit(2)
	}
}

// printKinds prints the kind table. On a terminal the fill element's
// fingerprint is abbreviated.
func printKinds(e *engine.Engine) {
	short := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "KIND\tCLASS\tGROWTH\tFILL\tSIZE\tFINGERPRINT")
	for _, k := range e.Dispatcher().Registry().Kinds() {
		fill, ok := engine.FillElement(k)
		if !ok {
			fmt.Fprintf(w, "%s\t%s\t%s\t-\t-\t-\n", k, k.ClassName(), e.Growth(k))
			continue
		}
		digest := types.Fingerprint(fill).String()
		if short {
			digest = digest[:12]
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", k, k.ClassName(), e.Growth(k),
			types.Format(fill), humanize.Bytes(uint64(types.BytesOf(fill.Rep()))), digest)
		fill.Release()
	}
	w.Flush()
}

// runScenarios reports failed scenarios and a summary. It returns false
// if any scenario failed.
func runScenarios(e *engine.Engine, path string, parallel int, verbose bool) bool {
	tests, err := conformance.LoadAll(path)
	if err != nil {
		log.Fatalf("Failed to load scenarios: %v", err)
	}
	log.Printf("Loaded %d scenarios from %s", len(tests), path)

	start := time.Now()
	results, err := conformance.NewRunner(e, parallel).RunAll(context.Background(), tests)
	if err != nil {
		log.Fatalf("Run failed: %v", err)
	}

	for _, r := range results {
		name := fmt.Sprintf("%s: %s", r.Test.File, r.Test.Test.Name)
		switch {
		case r.Skipped:
			if verbose {
				fmt.Printf("SKIP %s (%s)\n", name, r.SkipReason)
			}
		case !r.Passed:
			fmt.Printf("FAIL %s [%s]: %v\n", name, r.Test.Test.Operation(), r.Error)
		case verbose:
			fmt.Printf("ok   %s => %s (%s)\n", name, r.Result, r.Elapsed)
		}
	}

	stats := conformance.ComputeStats(results)
	fmt.Printf("%s in %s\n", conformance.FormatStats(stats), time.Since(start).Round(time.Millisecond))
	return stats.Failed == 0
}
