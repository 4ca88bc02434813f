// Command kontrakt is a thin CLI driver over the core engine, mirroring
// the teacher's cmd/dungeongen: load YAML policy, run one session, print
// a plain-text result. Wiring a real subject under test means a calling
// program registers its own types with an instancefactory.Factory and
// invokes the executor directly (spec.md §1 "Out of scope: IDE /
// build-tool integration and CLI front-ends") — this binary exercises
// the pipeline end-to-end against a small built-in sample subject so the
// policy-loading and reporting plumbing has something real to drive.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"kontrakt/pkg/executor"
	"kontrakt/pkg/instancefactory"
	"kontrakt/pkg/policy"
	"kontrakt/pkg/spec"
	"kontrakt/pkg/tracesink"
	"kontrakt/pkg/typedesc"
	"kontrakt/pkg/verdict"
)

const version = "0.1.0"

var (
	policyPath = flag.String("policy", "", "Path to YAML ExecutionPolicy file (optional)")
	seedFlag   = flag.Uint64("seed", 0, "Override the seed from policy (0 = use policy seed)")
	tracePath  = flag.String("trace", "", "Path to write the NDJSON trace snapshot (empty = skip)")
	verbose    = flag.Bool("verbose", false, "Enable verbose output")
	versionF   = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *versionF {
		fmt.Printf("kontrakt version %s\n", version)
		os.Exit(0)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	pol := &policy.ExecutionPolicy{}
	if *policyPath != "" {
		if *verbose {
			fmt.Printf("Loading execution policy from %s\n", *policyPath)
		}
		loaded, err := policy.LoadExecutionPolicy(*policyPath)
		if err != nil {
			return fmt.Errorf("failed to load policy: %w", err)
		}
		pol = loaded
	} else {
		loaded, err := policy.LoadExecutionPolicyFromBytes([]byte("{}\n"))
		if err != nil {
			return fmt.Errorf("failed to build default policy: %w", err)
		}
		pol = loaded
	}

	if *seedFlag != 0 {
		if *verbose {
			fmt.Printf("Overriding seed from %d to %d\n", pol.Determinism.Seed, *seedFlag)
		}
		pol.Determinism.Seed = *seedFlag
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer logger.Sync() //nolint:errcheck

	sink := tracesink.New(logger)
	runID := instancefactory.NextRunID(1)

	if *verbose {
		fmt.Printf("Using seed: %d\n", pol.Determinism.Seed)
		fmt.Printf("Run ID: %s\n", runID)
	}

	start := time.Now()
	factory := instancefactory.New(runID, pol.Determinism.Seed, start, 256)

	target, method := sampleSubject()
	factory.Register(target.ID, instancefactory.TypeCatalog{Constructor: target, Methods: []instancefactory.EntryPoint{method}})

	subject, err := factory.Resolve(target.ID)
	if err != nil {
		return fmt.Errorf("failed to resolve subject: %w", err)
	}

	entry, err := instancefactory.EntryPointFor(spec.ModeUserScenario, []instancefactory.EntryPoint{method})
	if err != nil {
		return fmt.Errorf("failed to select entry point: %w", err)
	}

	record := executor.RunUserScenario(subject, entry, factory.Context(), factory.Ephemeral())
	status := verdict.Decide(nil, []spec.AssertionRecord{record})
	elapsed := time.Since(start)

	sink.Emit(runID, tracesink.KindTestVerdict, status.String(), map[string]any{"seed": pol.Determinism.Seed, "elapsed_ms": elapsed.Milliseconds()})

	if *tracePath != "" {
		if err := sink.SnapshotTo(*tracePath); err != nil {
			logger.Warn("trace snapshot failed", zap.Error(err))
		}
	}

	fmt.Printf("Target: %s\n", target.ID)
	fmt.Printf("Status: %s\n", status)
	fmt.Printf("Completed in %v\n", elapsed)
	return nil
}

// sampleSubject builds a minimal constructible type descriptor so the
// CLI has a concrete subject to run a UserScenario against without
// requiring an external adapter. Real integrations register their own
// typedesc.Descriptor values built from application types instead.
func sampleSubject() (*typedesc.Descriptor, instancefactory.EntryPoint) {
	nameField := typedesc.Field{Name: "name", Type: typedesc.String()}

	type greeter struct{ name string }

	target := typedesc.ObjectOf("kontrakt.cli.Greeter", []typedesc.Field{nameField}, func(args []any) (any, error) {
		name, _ := args[0].(string)
		return &greeter{name: name}, nil
	})

	greet := instancefactory.EntryPoint{
		Name:     "Greet",
		IsMarker: true,
		Params:   []typedesc.Field{nameField},
		Invoke: func(subject any, args []any) ([]any, error) {
			g := subject.(*greeter)
			who, _ := args[0].(string)
			return []any{fmt.Sprintf("hello, %s and %s", g.name, who)}, nil
		},
	}

	return target, greet
}
