package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/shady333/gettingHWaccess/tools/dashgen/dashboards"
	"github.com/shady333/gettingHWaccess/tools/dashgen/rules"
	"github.com/shady333/gettingHWaccess/tools/dashgen/validate"
)

func main() {
	validateOnly := flag.Bool("validate", false, "validate generated artifacts without writing files")
	outputDir := flag.String("output", "", "override output directory")
	flag.Parse()

	cfg := DefaultConfig()
	if *outputDir != "" {
		cfg.OutputDir = *outputDir
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}

	if err := run(cfg, *validateOnly); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// artifact is one generated file relative to the output directory.
type artifact struct {
	path string
	data []byte
}

func run(cfg Config, validateOnly bool) error {
	artifacts, result, err := generate(cfg)
	if err != nil {
		return err
	}

	for _, w := range result.Warnings {
		fmt.Fprintf(os.Stderr, "warning: %s\n", w)
	}
	if !result.Ok() {
		for _, e := range result.Errors {
			fmt.Fprintf(os.Stderr, "invalid: %s\n", e)
		}
		return fmt.Errorf("%d validation errors", len(result.Errors))
	}

	if validateOnly {
		fmt.Println("validation passed")
		return nil
	}

	for _, a := range artifacts {
		path := filepath.Join(cfg.OutputDir, a.path)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", filepath.Dir(path), err)
		}
		if err := os.WriteFile(path, a.data, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		fmt.Printf("dashgen: wrote %s\n", path)
	}
	return nil
}

func generate(cfg Config) ([]artifact, validate.Result, error) {
	var (
		out    []artifact
		result validate.Result
	)

	if cfg.DashboardEnabled {
		dash, err := dashboards.BuildOverview().Build()
		if err != nil {
			return nil, result, fmt.Errorf("building overview dashboard: %w", err)
		}
		r := validate.Dashboard(dash, KnownMetrics)
		result.Errors = append(result.Errors, r.Errors...)
		result.Warnings = append(result.Warnings, r.Warnings...)

		data, err := json.MarshalIndent(dash, "", "  ")
		if err != nil {
			return nil, result, fmt.Errorf("marshaling dashboard: %w", err)
		}
		out = append(out, artifact{
			path: filepath.Join("grafana", "data", "hwaccess-overview.json"),
			data: append(data, '\n'),
		})
	}

	if cfg.RulesEnabled {
		for name, cr := range map[string]rules.PrometheusRule{
			"hwaccess-recording-rules.yaml": rules.RecordingRules(),
			"hwaccess-alerts.yaml":          rules.AlertRules(),
		} {
			r := validate.Rules(cr, KnownMetrics)
			result.Errors = append(result.Errors, r.Errors...)
			result.Warnings = append(result.Warnings, r.Warnings...)

			data, err := yaml.Marshal(cr)
			if err != nil {
				return nil, result, fmt.Errorf("marshaling %s: %w", name, err)
			}
			out = append(out, artifact{
				path: filepath.Join("prometheus", name),
				data: append([]byte(generatedHeader), data...),
			})
		}
	}

	return out, result, nil
}
