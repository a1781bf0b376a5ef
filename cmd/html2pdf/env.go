package main

import (
	"context"
	"io"
	"os"

	html2pdf "github.com/alnah/go-html2pdf"
)

// Converter is the part of html2pdf.Converter the CLI uses.
type Converter interface {
	Convert(ctx context.Context, req html2pdf.ConversionRequest) (*html2pdf.Result, error)
	Close() error
}

// Compile-time interface implementation check.
var _ Converter = (*html2pdf.Converter)(nil)

// Environment holds injectable dependencies for testability.
type Environment struct {
	Stdout io.Writer
	Stderr io.Writer

	// NewConverter builds the converter for one run.
	NewConverter func(opts ...html2pdf.Option) (Converter, error)
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		NewConverter: func(opts ...html2pdf.Option) (Converter, error) {
			return html2pdf.NewConverter(opts...)
		},
	}
}
