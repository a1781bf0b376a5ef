package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"slices"
	"strings"

	"github.com/go-rod/rod/lib/launcher"
	flag "github.com/spf13/pflag"

	"github.com/alnah/go-html2pdf/internal/config"
	"github.com/alnah/go-html2pdf/internal/fileutil"
	"github.com/alnah/go-html2pdf/internal/hints"
)

// Report sections, in print order.
const (
	sectionBrowser = "Browser"
	sectionReducer = "Size reduction"
	sectionEnv     = "Environment"
	sectionSystem  = "System"
)

var doctorSections = []string{sectionBrowser, sectionReducer, sectionEnv, sectionSystem}

// Overall report status.
const (
	statusReady    = "ready"
	statusWarnings = "warnings"
	statusErrors   = "errors"
)

type severity string

const (
	severityOK    severity = "ok"
	severityWarn  severity = "warn"
	severityError severity = "error"
)

var severityTags = map[severity]string{
	severityOK:    "[OK]",
	severityWarn:  "[WARN]",
	severityError: "[ERROR]",
}

// finding is one line of the report.
type finding struct {
	Section string   `json:"section"`
	Level   severity `json:"level"`
	Message string   `json:"message"`
}

type browserProbe struct {
	Path    string `json:"path,omitempty"`
	Version string `json:"version,omitempty"`
	Sandbox bool   `json:"sandbox"`
}

type reducerProbe struct {
	Executable string `json:"executable"`
	Path       string `json:"path,omitempty"` // empty when not on PATH
}

type envProbe struct {
	OS        string   `json:"os"`
	Arch      string   `json:"arch"`
	Container string   `json:"container,omitempty"` // the signal that matched
	CI        bool     `json:"ci"`
	Variables []string `json:"variables,omitempty"` // HTML2PDF_* names
}

type systemProbe struct {
	TempDir string `json:"temp_dir"`
}

// doctorReport is what doctor prints, as text or JSON.
type doctorReport struct {
	Status   string       `json:"status"`
	Browser  browserProbe `json:"browser"`
	Reducer  reducerProbe `json:"reducer"`
	Env      envProbe     `json:"environment"`
	System   systemProbe  `json:"system"`
	Findings []finding    `json:"findings"`
}

func (r *doctorReport) note(section string, level severity, format string, args ...any) {
	r.Findings = append(r.Findings, finding{
		Section: section,
		Level:   level,
		Message: fmt.Sprintf(format, args...),
	})
}

func (r *doctorReport) has(level severity) bool {
	return slices.ContainsFunc(r.Findings, func(f finding) bool { return f.Level == level })
}

// runDoctorCmd prints the report and exits 1 only when a check errored.
// Warnings still allow a conversion to run.
func runDoctorCmd(args []string, env *Environment) int {
	fs := flag.NewFlagSet("doctor", flag.ContinueOnError)
	fs.SetOutput(env.Stderr)
	asJSON := fs.Bool("json", false, "print the report as JSON")
	fs.Usage = func() { printDoctorUsage(env.Stderr) }

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		return ExitFailure
	}

	report := diagnose(loadEnvConfig())

	if *asJSON {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(report)
	} else {
		report.writeText(env.Stdout)
	}

	if report.Status == statusErrors {
		return ExitFailure
	}
	return ExitSuccess
}

func diagnose(envCfg *envConfig) *doctorReport {
	r := &doctorReport{Env: envProbe{OS: runtime.GOOS, Arch: runtime.GOARCH}}

	probeBrowser(r)
	probeReducer(r, envCfg)
	probeEnvironment(r)
	probeTempDir(r)

	switch {
	case r.has(severityError):
		r.Status = statusErrors
	case r.has(severityWarn):
		r.Status = statusWarnings
	default:
		r.Status = statusReady
	}
	return r
}

// probeBrowser finds the browser rod will launch. A missing browser is
// only a warning: rod downloads Chromium on first use. A ROD_BROWSER_BIN
// that does not exist is an error, since the launch would fail.
func probeBrowser(r *doctorReport) {
	bin := os.Getenv("ROD_BROWSER_BIN")
	switch {
	case bin != "" && !fileutil.FileExists(bin):
		r.note(sectionBrowser, severityError, "ROD_BROWSER_BIN=%s does not exist", bin)
		return
	case bin == "":
		var found bool
		if bin, found = launcher.LookPath(); !found {
			r.note(sectionBrowser, severityWarn,
				"Chrome/Chromium not found; it is downloaded on first run (or set ROD_BROWSER_BIN)")
			return
		}
	}

	r.Browser.Path = bin
	r.Browser.Sandbox = os.Getenv("ROD_NO_SANDBOX") != "1"
	r.note(sectionBrowser, severityOK, "found at %s", bin)

	out, err := exec.Command(bin, "--version").Output() // #nosec G204 -- detected browser path
	if err != nil {
		r.note(sectionBrowser, severityWarn, "could not read version: %v", err)
	} else {
		r.Browser.Version = strings.TrimSpace(string(out))
		r.note(sectionBrowser, severityOK, "%s", r.Browser.Version)
	}

	if !r.Browser.Sandbox {
		r.note(sectionBrowser, severityOK, "sandbox disabled (ROD_NO_SANDBOX=1)")
	}
}

// probeReducer resolves the reducer the way convert would, without flags,
// and looks its executable up on PATH.
func probeReducer(r *doctorReport, envCfg *envConfig) {
	cfg := config.DefaultConfig()
	applyEnvConfig(envCfg, cfg)

	r.Reducer.Executable = reducerExecutable(cfg)
	path, err := exec.LookPath(r.Reducer.Executable)
	if err != nil {
		r.note(sectionReducer, severityWarn,
			"%s not found: PDFs cannot be reduced (use --no-reduce)", r.Reducer.Executable)
		return
	}
	r.Reducer.Path = path
	r.note(sectionReducer, severityOK, "%s at %s", r.Reducer.Executable, path)
}

func probeEnvironment(r *doctorReport) {
	r.note(sectionEnv, severityOK, "platform %s/%s", r.Env.OS, r.Env.Arch)

	r.Env.Container = containerSignal()
	r.Env.CI = hints.InCI()
	if r.Env.Container != "" {
		r.note(sectionEnv, severityOK, "container detected (%s)", r.Env.Container)
	}
	if r.Env.CI {
		r.note(sectionEnv, severityOK, "CI detected")
	}
	if (r.Env.Container != "" || r.Env.CI) && os.Getenv("ROD_NO_SANDBOX") != "1" {
		r.note(sectionEnv, severityWarn, "container or CI without ROD_NO_SANDBOX=1; Chrome's sandbox usually fails there")
	}

	for _, kv := range os.Environ() {
		name, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(name, envPrefix) {
			r.Env.Variables = append(r.Env.Variables, name)
		}
	}
	slices.Sort(r.Env.Variables)
	for _, name := range r.Env.Variables {
		if knownEnvVars[name] {
			r.note(sectionEnv, severityOK, "%s is set", name)
		} else {
			r.note(sectionEnv, severityWarn, "unknown variable %s (typo?)", name)
		}
	}
}

// containerSignal names the first container marker found, or "".
func containerSignal() string {
	switch {
	case hints.IsInContainer():
		return "/.dockerenv"
	case os.Getenv("container") != "":
		return "container=" + os.Getenv("container")
	case os.Getenv("KUBERNETES_SERVICE_HOST") != "":
		return "KUBERNETES_SERVICE_HOST"
	}
	return ""
}

// probeTempDir checks where convert writes the prepared HTML and the
// reducer script.
func probeTempDir(r *doctorReport) {
	r.System.TempDir = os.TempDir()

	f, err := os.CreateTemp("", "html2pdf-doctor-*")
	if err != nil {
		r.note(sectionSystem, severityError, "temp directory %s is not writable: %v", r.System.TempDir, err)
		return
	}
	_ = f.Close()
	_ = os.Remove(f.Name())
	r.note(sectionSystem, severityOK, "temp directory %s is writable", r.System.TempDir)
}

func (r *doctorReport) writeText(w io.Writer) {
	fmt.Fprintln(w, "html2pdf doctor")
	for _, section := range doctorSections {
		fmt.Fprintf(w, "\n%s\n", section)
		for _, f := range r.Findings {
			if f.Section == section {
				fmt.Fprintf(w, "  %-7s %s\n", severityTags[f.Level], f.Message)
			}
		}
	}
	fmt.Fprintf(w, "\nStatus: %s\n", r.Status)
}
