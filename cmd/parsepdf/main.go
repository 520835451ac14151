package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"pimflow/internal/pipeline"
	"pimflow/internal/pipeline/extract"
)

// parsepdf runs the parsing pipeline against a local PDF and prints the
// result as JSON. Nothing is persisted or uploaded; useful for checking how
// a supplier's invoices parse before wiring them into the service.
func main() {
	timeout := flag.Duration("timeout", 30*time.Second, "extraction timeout")
	pretty := flag.Bool("pretty", true, "indent JSON output")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: parsepdf [flags] <invoice.pdf>")
		flag.PrintDefaults()
		os.Exit(1)
	}

	data, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		log.Fatalf("reading %s: %v", flag.Arg(0), err)
	}

	pipe := pipeline.New(extract.NewExtractor(*timeout), pipeline.DefaultRegistry())

	result, err := pipe.Parse(context.Background(), data)
	if err != nil {
		log.Fatalf("parsing failed: %v", err)
	}

	enc := json.NewEncoder(os.Stdout)
	if *pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(result); err != nil {
		log.Fatalf("encoding result: %v", err)
	}
}
