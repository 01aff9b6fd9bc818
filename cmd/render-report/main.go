package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joelkehle/clinical-triage/internal/report"
	"github.com/joelkehle/clinical-triage/internal/results"
)

func main() {
	dbPath := flag.String("db", "results/runs.db", "Path to the run store")
	runID := flag.String("run", "", "Run ID to render (defaults to the most recent run)")
	outputPath := flag.String("output", "", "Path to write the report (defaults to stdout markdown)")
	asHTML := flag.Bool("html", false, "Render HTML instead of markdown")
	asPDF := flag.Bool("pdf", false, "Render PDF through headless Chrome instead of markdown")
	flag.Parse()

	store, err := results.NewStore(*dbPath)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	defer store.Close()

	id := *runID
	if id == "" {
		runs, err := store.ListRuns()
		if err != nil {
			log.Fatalf("list runs: %v", err)
		}
		if len(runs) == 0 {
			log.Fatal("no stored runs")
		}
		id = runs[0].RunID
	}

	res, err := store.LoadRun(id)
	if err != nil {
		log.Fatalf("load run: %v", err)
	}
	markdown := report.BuildMarkdown(res)

	switch {
	case *asPDF:
		if *outputPath == "" {
			log.Fatal("-pdf requires -output")
		}
		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer cancel()
		pdf, err := report.NewChromiumPDFRenderer().Render(ctx, markdown)
		if err != nil {
			log.Fatalf("render pdf: %v", err)
		}
		if err := os.WriteFile(*outputPath, pdf, 0o644); err != nil {
			log.Fatalf("write pdf: %v", err)
		}
	case *asHTML:
		html, err := report.RenderHTML(markdown)
		if err != nil {
			log.Fatalf("render html: %v", err)
		}
		if err := writeOut(*outputPath, html); err != nil {
			log.Fatalf("write html: %v", err)
		}
	default:
		if err := writeOut(*outputPath, markdown); err != nil {
			log.Fatalf("write markdown: %v", err)
		}
	}
}

func writeOut(path, content string) error {
	if path == "" {
		_, err := fmt.Print(content)
		return err
	}
	return os.WriteFile(path, []byte(content), 0o644)
}
