package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alnah/go-html2pdf/internal/config"
)

// envPrefix marks the variables this CLI reads.
const envPrefix = "HTML2PDF_"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	ConfigPath string        // HTML2PDF_CONFIG: config name or path
	Timeout    time.Duration // HTML2PDF_TIMEOUT: conversion timeout
	DPI        int           // HTML2PDF_DPI: size-reduction resolution
	Reducer    string        // HTML2PDF_REDUCER: size-reduction command
	OutputDir  string        // HTML2PDF_OUTPUT_DIR: output directory
	Workers    int           // HTML2PDF_WORKERS: concurrent image encodes
}

// knownEnvVars lists valid HTML2PDF_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	"HTML2PDF_CONFIG":     true,
	"HTML2PDF_TIMEOUT":    true,
	"HTML2PDF_DPI":        true,
	"HTML2PDF_REDUCER":    true,
	"HTML2PDF_OUTPUT_DIR": true,
	"HTML2PDF_WORKERS":    true,
}

// loadEnvConfig reads configuration from environment variables.
// Malformed or non-positive numbers and durations are ignored.
func loadEnvConfig() *envConfig {
	cfg := &envConfig{
		ConfigPath: os.Getenv("HTML2PDF_CONFIG"),
		Reducer:    os.Getenv("HTML2PDF_REDUCER"),
		OutputDir:  os.Getenv("HTML2PDF_OUTPUT_DIR"),
	}

	if timeout := os.Getenv("HTML2PDF_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		}
	}
	if dpi := os.Getenv("HTML2PDF_DPI"); dpi != "" {
		if n, err := strconv.Atoi(dpi); err == nil && n > 0 {
			cfg.DPI = n
		}
	}
	if workers := os.Getenv("HTML2PDF_WORKERS"); workers != "" {
		if n, err := strconv.Atoi(workers); err == nil && n > 0 {
			cfg.Workers = n
		}
	}

	return cfg
}

// warnUnknownEnvVars logs warnings for unrecognized HTML2PDF_* variables.
// Helps catch typos like HTML2PDF_TIMOUT.
func warnUnknownEnvVars(w io.Writer) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, envPrefix) {
			name := strings.SplitN(env, "=", 2)[0]
			if !knownEnvVars[name] {
				fmt.Fprintf(w, "warning: unknown environment variable %s (typo?)\n", name)
			}
		}
	}
}

// applyEnvConfig overlays set environment values on the config file.
// Precedence: CLI flags > env vars > config file > defaults
// (CLI flags are applied later via mergeFlags).
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	if env.Timeout > 0 {
		cfg.Render.Timeout = env.Timeout.String()
	}
	if env.DPI > 0 {
		cfg.Reduce.DPI = env.DPI
	}
	if env.Reducer != "" {
		cfg.Reduce.Command = env.Reducer
	}
	if env.OutputDir != "" {
		cfg.Output.Dir = env.OutputDir
	}
	if env.Workers > 0 {
		cfg.Transcode.Workers = env.Workers
	}
}
