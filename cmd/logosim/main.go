// Command logosim groups near-duplicate logos from stored descriptor vectors.
//
// Usage:
//
//	logosim import  --db logos.sqlite --in descriptors.jsonl
//	logosim cluster --db logos.sqlite [--config logosim.toml] [--family hu] [--json]
//	logosim near    --db logos.sqlite --family orb --id example.com [--max 0.5] [--limit 10]
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
)

const usage = `usage: logosim <command> [flags]

commands:
  import   load descriptors from a JSON lines file into the store
  cluster  cluster the stored descriptors of each configured family
  near     list the logos closest to one logo
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "logosim:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return fmt.Errorf("missing command")
	}
	switch args[0] {
	case "import":
		return runImport(ctx, args[1:], stdout, stderr)
	case "cluster":
		return runCluster(ctx, args[1:], stdout, stderr)
	case "near":
		return runNear(ctx, args[1:], stdout, stderr)
	case "help", "-h", "--help":
		fmt.Fprint(stdout, usage)
		return nil
	}
	fmt.Fprint(stderr, usage)
	return fmt.Errorf("unknown command %q", args[0])
}
