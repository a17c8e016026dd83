package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/AlecAivazis/survey/v2"

	"github.com/goliatone/go-errorspec"
	"github.com/goliatone/go-errorspec/pkg/mapper"
	"github.com/goliatone/go-errorspec/pkg/model"
	pkgopenapi "github.com/goliatone/go-errorspec/pkg/openapi"
	"github.com/goliatone/go-errorspec/pkg/source"
)

func main() {
	var set config
	configPath := flag.String("config", "", "YAML config file")
	flag.StringVar(&set.Model, "model", "", "Smithy JSON AST model path or URL")
	flag.StringVar(&set.OpenAPI, "openapi", "", "OpenAPI document path or URL")
	flag.StringVar(&set.Service, "service", "", "service shape ID (required when the model declares several)")
	flag.StringVar(&set.Output, "output", "", "output file (stdout if empty)")
	flag.StringVar(&set.Format, "format", "", "output format: json or yaml (defaults to the input format)")
	flag.BoolVar(&set.Validate, "validate", false, "validate the rewritten document")
	flag.BoolVar(&set.ValidateExamples, "validate-examples", false, "also validate examples against their schemas")
	suffixes := flag.String("suffixes", "", "comma separated schema suffixes stripped by the const rewriter")
	flag.DurationVar(&set.HTTPTimeout, "http-timeout", 30*time.Second, "timeout for remote sources")
	flag.BoolVar(&set.Interactive, "interactive", false, "prompt for the service when the model declares several")
	flag.BoolVar(&set.Verbose, "verbose", false, "log mapper diagnostics to stderr")
	flag.Parse()
	set.SchemaSuffixes = append([]string{}, splitList(*suffixes)...)

	fileCfg, err := readConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	cfg := overlay(fileCfg, flag.CommandLine, set)
	if cfg.HTTPTimeout == 0 {
		cfg.HTTPTimeout = 30 * time.Second
	}
	if err := cfg.check(); err != nil {
		flag.Usage()
		log.Fatalf("Invalid arguments: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	out, err := run(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to process document: %v", err)
	}

	if cfg.Output != "" {
		if err := os.WriteFile(cfg.Output, out, 0o644); err != nil {
			log.Fatalf("Failed to write output: %v", err)
		}
		fmt.Printf("Document written to %s\n", cfg.Output)
		return
	}
	if _, err := os.Stdout.Write(out); err != nil {
		log.Fatalf("Failed to write output: %v", err)
	}
}

func run(ctx context.Context, cfg config) ([]byte, error) {
	logOutput := io.Discard
	if cfg.Verbose {
		logOutput = os.Stderr
	}
	logger := slog.New(slog.NewTextHandler(logOutput, &slog.HandlerOptions{Level: slog.LevelDebug}))

	var pipelineOptions []mapper.PipelineOption
	if cfg.SchemaSuffixes != nil {
		pipelineOptions = append(pipelineOptions, mapper.WithConstOptions(mapper.WithSchemaSuffixes(cfg.SchemaSuffixes...)))
	}
	pipeline, err := errorspec.NewPipeline(pipelineOptions...)
	if err != nil {
		return nil, err
	}

	processor, err := errorspec.New(
		errorspec.WithLoaderOptions(pkgopenapi.WithHTTPFallback(cfg.HTTPTimeout)),
		errorspec.WithPipeline(pipeline),
		errorspec.WithValidator(errorspec.NewValidator(pkgopenapi.WithExamplesValidation(cfg.ValidateExamples))),
		errorspec.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}

	modelSource, err := parseSource(cfg.Model)
	if err != nil {
		return nil, err
	}
	docSource, err := parseSource(cfg.OpenAPI)
	if err != nil {
		return nil, err
	}

	m, err := processor.LoadModel(ctx, modelSource)
	if err != nil {
		return nil, err
	}
	service, err := selectService(m, cfg.Service, cfg.Interactive)
	if err != nil {
		return nil, err
	}

	res, err := processor.Process(ctx, errorspec.Request{
		ModelValue:   m,
		Document:     docSource,
		Service:      service,
		Validate:     cfg.Validate,
		OutputFormat: pkgopenapi.Format(cfg.Format),
	})
	if err != nil {
		return nil, err
	}
	return res.Encoded, nil
}

// parseSource turns source.Parse panics on malformed URLs into errors.
func parseSource(raw string) (src source.Source, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("invalid source %q: %v", raw, r)
		}
	}()
	src = source.Parse(raw)
	if src == nil {
		return nil, fmt.Errorf("invalid source: %q", raw)
	}
	return src, nil
}

func selectService(m *model.Model, raw string, interactive bool) (model.ShapeID, error) {
	if raw != "" {
		return model.ParseShapeID(raw)
	}
	services := m.Services()
	if len(services) <= 1 || !interactive {
		return model.ShapeID{}, nil
	}

	options := make([]string, len(services))
	for i, s := range services {
		options[i] = s.ID.String()
	}
	var picked string
	prompt := &survey.Select{
		Message: "Service:",
		Options: options,
	}
	if err := survey.AskOne(prompt, &picked); err != nil {
		return model.ShapeID{}, fmt.Errorf("select service: %w", err)
	}
	if picked == "" {
		return model.ShapeID{}, errors.New("select service: no service chosen")
	}
	return model.ParseShapeID(picked)
}
