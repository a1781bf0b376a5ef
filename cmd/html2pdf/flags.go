package main

import (
	"io"

	flag "github.com/spf13/pflag"
)

// defaultSource is converted when --source is not given.
const defaultSource = "index.html"

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// reduceFlags holds size-reduction flags.
type reduceFlags struct {
	dpi      int
	command  string
	disabled bool
}

// convertFlags holds all flags for the convert command.
type convertFlags struct {
	common         commonFlags
	source         string
	output         string
	timeout        string
	workers        int
	noTranscode    bool
	strictGeometry bool
	reduce         reduceFlags

	// changed reports whether a flag was set on the command line.
	changed func(name string) bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs")
}

// addReduceFlags adds size-reduction flags to a FlagSet.
func addReduceFlags(fs *flag.FlagSet, f *reduceFlags) {
	fs.IntVarP(&f.dpi, "dpi", "r", 0, "image resolution for size reduction")
	fs.StringVar(&f.command, "reducer", "", "size-reduction command (default: embedded Ghostscript script)")
	fs.BoolVar(&f.disabled, "no-reduce", false, "skip size reduction")
}

// parseConvertFlags parses convert flags. stderr receives usage on error.
func parseConvertFlags(args []string, stderr io.Writer) (*convertFlags, []string, error) {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	fs.SetOutput(stderr)
	f := &convertFlags{}

	fs.StringVarP(&f.source, "source", "s", defaultSource, "HTML file to convert")
	fs.StringVarP(&f.output, "output", "o", "", "output name (default: page title)")
	fs.StringVarP(&f.timeout, "timeout", "t", "", "conversion timeout (e.g., 30s, 2m)")
	fs.IntVarP(&f.workers, "workers", "w", 0, "concurrent image encodes (0 = auto)")
	fs.BoolVar(&f.noTranscode, "no-transcode", false, "serve images unmodified")
	fs.BoolVar(&f.strictGeometry, "strict-geometry", false, "fail when the body cannot be measured")

	addCommonFlags(fs, &f.common)
	addReduceFlags(fs, &f.reduce)

	fs.Usage = func() { printConvertUsage(stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}

	f.changed = fs.Changed
	return f, fs.Args(), nil
}
