package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joelkehle/clinical-triage/internal/classify"
	"github.com/joelkehle/clinical-triage/internal/condense"
	"github.com/joelkehle/clinical-triage/internal/config"
	"github.com/joelkehle/clinical-triage/internal/notes"
	"github.com/joelkehle/clinical-triage/internal/report"
	"github.com/joelkehle/clinical-triage/internal/results"
	"github.com/joelkehle/clinical-triage/internal/telemetry"
	"github.com/joelkehle/clinical-triage/internal/triage"
)

func main() {
	configPath := flag.String("config", "", "Path to YAML config (defaults apply when empty)")
	dataDir := flag.String("data-dir", "", "Override configured patient notes directory")
	resultsDir := flag.String("results-dir", "", "Override configured results directory")
	workers := flag.Int("workers", 0, "Override configured worker concurrency")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}
	if *resultsDir != "" {
		cfg.ResultsDir = *resultsDir
	}
	if *workers > 0 {
		cfg.WorkerConcurrency = *workers
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	shutdown, err := telemetry.Init(ctx, cfg.OTLPEndpoint, "clinical-triage")
	if err != nil {
		log.Fatalf("telemetry: %v", err)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			log.Printf("telemetry shutdown: %v", err)
		}
	}()

	scorer, cleanup, err := buildScorer(cfg)
	if err != nil {
		log.Fatalf("scorer: %v", err)
	}
	defer cleanup()

	policy, err := cfg.Policy()
	if err != nil {
		log.Fatalf("policy: %v", err)
	}
	adapter, err := classify.NewAdapter(scorer, policy, cfg.ClassificationTimeout())
	if err != nil {
		log.Fatalf("adapter: %v", err)
	}

	extractor, err := condense.NewLabExtractor(cfg.RecognizedObservations)
	if err != nil {
		log.Fatalf("lab extractor: %v", err)
	}
	assembler, err := condense.NewAssembler(extractor, cfg.MaxDocumentLength, cfg.RedactPHI)
	if err != nil {
		log.Fatalf("assembler: %v", err)
	}

	pipeline, err := triage.NewPipeline(assembler, adapter)
	if err != nil {
		log.Fatalf("pipeline: %v", err)
	}
	runner, err := triage.NewRunner(pipeline, cfg.WorkerConcurrency)
	if err != nil {
		log.Fatalf("runner: %v", err)
	}

	patients, err := notes.LoadPatients(cfg.DataDir)
	if err != nil {
		log.Fatalf("load patients: %v", err)
	}
	log.Printf("processing %d patient(s) from %s (workers=%d, scorer=%s)",
		len(patients), cfg.DataDir, cfg.WorkerConcurrency, cfg.Scorer)

	res := runner.Run(ctx, patients)
	log.Printf("run %s complete: %d verdict(s), %d failure(s)",
		res.RunID, res.VerdictCount(), res.FailureCount())

	if err := os.MkdirAll(cfg.ResultsDir, 0o755); err != nil {
		log.Fatalf("results dir: %v", err)
	}
	if err := results.WriteResults(filepath.Join(cfg.ResultsDir, "follow_up_results.txt"), res); err != nil {
		log.Fatalf("write results: %v", err)
	}
	if err := results.WriteCondensedNotes(cfg.ResultsDir, res); err != nil {
		log.Fatalf("write condensed notes: %v", err)
	}

	store, err := results.NewStore(filepath.Join(cfg.ResultsDir, "runs.db"))
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	defer store.Close()
	if err := store.SaveRun(res); err != nil {
		log.Fatalf("save run: %v", err)
	}

	html, err := report.RenderHTML(report.BuildMarkdown(res))
	if err != nil {
		log.Fatalf("render report: %v", err)
	}
	reportPath := filepath.Join(cfg.ResultsDir, res.RunID+"_report.html")
	if err := os.WriteFile(reportPath, []byte(html), 0o644); err != nil {
		log.Fatalf("write report: %v", err)
	}
	log.Printf("results in %s, report at %s", cfg.ResultsDir, reportPath)
}

// buildScorer constructs the configured scorer and a cleanup func for any
// held resources.
func buildScorer(cfg config.Config) (classify.Scorer, func(), error) {
	switch cfg.Scorer {
	case config.ScorerOnnx:
		scorer, err := classify.NewOnnxScorer(classify.OnnxScorerConfig{
			LibraryPath:   cfg.Onnx.LibraryPath,
			ModelPath:     cfg.Onnx.ModelPath,
			TokenizerPath: cfg.Onnx.TokenizerPath,
			Labels:        cfg.Onnx.Labels,
			MaxSeqLen:     cfg.Onnx.MaxSeqLen,
		})
		if err != nil {
			return nil, nil, err
		}
		return scorer, func() {
			if err := scorer.Close(); err != nil {
				log.Printf("onnx close: %v", err)
			}
		}, nil
	default:
		caller, err := classify.NewAnthropicCallerFromEnv()
		if err != nil {
			return nil, nil, err
		}
		return classify.NewAnthropicScorer(caller), func() {}, nil
	}
}
