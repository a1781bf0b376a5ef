package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	html2pdf "github.com/alnah/go-html2pdf"
	"github.com/alnah/go-html2pdf/internal/config"
	"github.com/alnah/go-html2pdf/internal/hints"
)

// Exit codes for the html2pdf CLI.
const (
	ExitSuccess = 0 // PDF generated
	ExitFailure = 1 // any error
)

// exitCodeFor returns the exit code for err.
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}
	return ExitFailure
}

// runState is what a run knew when it failed. Every field may be zero.
type runState struct {
	configName string
	cfg        *config.Config
	res        *html2pdf.Result
}

// hintFor returns an actionable hint for err, or "".
func hintFor(err error, st runState) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return hints.ForTimeout()
	case errors.Is(err, html2pdf.ErrBrowserConnect), errors.Is(err, html2pdf.ErrPageCreate):
		return hints.ForBrowserConnect()
	case errors.Is(err, html2pdf.ErrSourceRead), errors.Is(err, html2pdf.ErrEmptySource):
		return hints.ForSourceRead()
	case errors.Is(err, html2pdf.ErrResourceInjection):
		return hints.ForResourceInjection()
	case errors.Is(err, html2pdf.ErrGeometryMeasurement):
		return hints.ForGeometry()
	case errors.Is(err, html2pdf.ErrSizeReduction):
		tempPath := ""
		if st.res != nil {
			tempPath = st.res.Artifact.TempPath
		}
		return hints.ForSizeReduction(reducerExecutable(st.cfg), tempPath)
	case errors.Is(err, html2pdf.ErrPDFEmission):
		return hints.ForOutputDirectory()
	case errors.Is(err, config.ErrConfigNotFound):
		var searched []string
		if st.configName != "" && !strings.ContainsAny(st.configName, `/\`) {
			searched = config.SearchPaths(st.configName)
		}
		return hints.ForConfigNotFound(searched)
	}
	return ""
}

// reportError prints err with its hint and returns the exit code.
func reportError(env *Environment, err error, st runState) int {
	fmt.Fprintf(env.Stderr, "error: %v%s\n", err, hintFor(err, st))
	return exitCodeFor(err)
}
