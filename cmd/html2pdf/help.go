package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: html2pdf [command] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  convert    Convert an HTML file to a single-page PDF (default)")
	fmt.Fprintln(w, "  doctor     Check Chrome, size reduction and environment")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'html2pdf help <command>' for details on a specific command.")
}

// printConvertUsage prints usage for the convert command.
func printConvertUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: html2pdf [convert] [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Render an HTML file to one PDF page sized to its content.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -s, --source <path>       HTML file (default index.html)")
	fmt.Fprintln(w, "  -o, --output <name>       Output name; .pdf is optional (default: page title)")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -t, --timeout <dur>       Conversion timeout (default 2m)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Rendering:")
	fmt.Fprintln(w, "      --strict-geometry     Fail when the body cannot be measured")
	fmt.Fprintln(w, "      --no-transcode        Serve images unmodified (no WebP)")
	fmt.Fprintln(w, "  -w, --workers <n>         Concurrent image encodes (0 = auto)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Size reduction:")
	fmt.Fprintln(w, "  -r, --dpi <n>             Image resolution (default 300)")
	fmt.Fprintln(w, "      --reducer <cmd>       Command run as: cmd -r <dpi> -o <out> <in>")
	fmt.Fprintln(w, "      --no-reduce           Keep the PDF as printed")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show debug logs")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  HTML2PDF_CONFIG, HTML2PDF_TIMEOUT, HTML2PDF_DPI, HTML2PDF_REDUCER,")
	fmt.Fprintln(w, "  HTML2PDF_OUTPUT_DIR, HTML2PDF_WORKERS, ROD_BROWSER_BIN, ROD_NO_SANDBOX")
}

// printDoctorUsage prints usage for the doctor command.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: html2pdf doctor [--json]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check that Chrome and the size-reduction command are available,")
	fmt.Fprintln(w, "report the environment and verify the temp directory is writable.")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "convert":
		printConvertUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: html2pdf version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: html2pdf help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
