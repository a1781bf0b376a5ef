package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	flag "github.com/spf13/pflag"

	html2pdf "github.com/alnah/go-html2pdf"
	"github.com/alnah/go-html2pdf/internal/assets"
	"github.com/alnah/go-html2pdf/internal/config"
	"github.com/alnah/go-html2pdf/internal/reducer"
)

// Sentinel errors for CLI operations.
var (
	ErrInvalidTimeout = errors.New("invalid timeout")
	ErrInvalidArgs    = errors.New("unexpected arguments")
)

// defaultReducerExecutable is what the embedded script runs.
const defaultReducerExecutable = "gs"

// runConvert parses flags, converts one document and reports the outcome.
// Returns the process exit code.
func runConvert(ctx context.Context, args []string, env *Environment) int {
	flags, rest, err := parseConvertFlags(args, env.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return ExitSuccess
	}
	if err != nil {
		fmt.Fprintln(env.Stderr, err)
		return ExitFailure
	}

	logger := newLogger(env.Stderr, flags.common.verbose, flags.common.quiet)
	if !flags.common.quiet {
		warnUnknownEnvVars(env.Stderr)
	}

	if len(rest) > 0 {
		return reportError(env, fmt.Errorf("%w: %s (use --source)", ErrInvalidArgs, strings.Join(rest, " ")), runState{})
	}

	envCfg := loadEnvConfig()
	st := runState{configName: configName(flags, envCfg)}

	cfg, err := resolveConfig(flags, envCfg)
	if err != nil {
		return reportError(env, err, st)
	}
	st.cfg = cfg

	conv, err := env.NewConverter(buildOptions(cfg, logger)...)
	if err != nil {
		return reportError(env, err, st)
	}
	defer func() { _ = conv.Close() }()

	res, err := conv.Convert(ctx, html2pdf.ConversionRequest{
		SourcePath: flags.source,
		OutputName: flags.output,
	})
	if err != nil {
		st.res = res
		return reportError(env, err, st)
	}

	fmt.Fprintf(env.Stdout, "PDF generated: %s\n", res.Artifact.FinalPath)
	return ExitSuccess
}

// configName returns the config requested by --config or HTML2PDF_CONFIG.
func configName(flags *convertFlags, env *envConfig) string {
	if flags.common.config != "" {
		return flags.common.config
	}
	return env.ConfigPath
}

// resolveConfig builds the effective configuration.
// Precedence: flags > env vars > config file > defaults.
func resolveConfig(flags *convertFlags, env *envConfig) (*config.Config, error) {
	name := configName(flags, env)

	cfg := config.DefaultConfig()
	if name != "" {
		var err error
		cfg, err = config.LoadConfig(name)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	}

	applyEnvConfig(env, cfg)
	if err := mergeFlags(flags, cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// mergeFlags applies flags that were set on the command line.
func mergeFlags(flags *convertFlags, cfg *config.Config) error {
	if flags.timeout != "" {
		d, err := time.ParseDuration(flags.timeout)
		if err != nil {
			return fmt.Errorf("%w: %q: %v", ErrInvalidTimeout, flags.timeout, err)
		}
		if d <= 0 {
			return fmt.Errorf("%w: %q must be positive", ErrInvalidTimeout, flags.timeout)
		}
		cfg.Render.Timeout = d.String()
	}

	if flags.strictGeometry {
		cfg.Render.StrictGeometry = true
	}
	if flags.noTranscode {
		cfg.Transcode.Enabled = false
	}
	if flags.changed != nil && flags.changed("workers") {
		cfg.Transcode.Workers = flags.workers
	}

	if flags.reduce.disabled {
		cfg.Reduce.Enabled = false
	}
	if flags.reduce.command != "" {
		cfg.Reduce.Command = flags.reduce.command
	}
	if flags.changed != nil && flags.changed("dpi") {
		cfg.Reduce.DPI = flags.reduce.dpi
	}

	return nil
}

// buildOptions maps the configuration onto converter options.
func buildOptions(cfg *config.Config, logger *slog.Logger) []html2pdf.Option {
	reducerOpts := []reducer.Option{
		reducer.WithCommand(cfg.Reduce.Command),
		reducer.WithScript(cfg.Reduce.Script),
		reducer.WithDPI(cfg.Reduce.DPI),
	}
	if cfg.Reduce.ScriptsDir != "" {
		if resolver, err := assets.NewAssetResolver(cfg.Reduce.ScriptsDir); err == nil {
			reducerOpts = append(reducerOpts, reducer.WithScriptLoader(resolver))
		} else {
			logger.Warn("ignoring reduce.scriptsDir", "dir", cfg.Reduce.ScriptsDir, "error", err)
		}
	}

	return []html2pdf.Option{
		html2pdf.WithTimeout(cfg.TimeoutDuration()),
		html2pdf.WithNetworkIdle(cfg.NetworkIdleDuration()),
		html2pdf.WithStrictGeometry(cfg.Render.StrictGeometry),
		html2pdf.WithOutputDir(cfg.Output.Dir),
		html2pdf.WithTranscoding(cfg.Transcode.Enabled),
		html2pdf.WithTranscodeWorkers(cfg.Transcode.Workers),
		html2pdf.WithTranscodeLevel(cfg.Transcode.Level),
		html2pdf.WithSizeReduction(cfg.Reduce.Enabled),
		html2pdf.WithReducer(reducerOpts...),
		html2pdf.WithBrowser(cfg.Browser.Bin, cfg.Browser.NoSandbox),
		html2pdf.WithLogger(logger),
	}
}

// reducerExecutable names the program size reduction depends on.
func reducerExecutable(cfg *config.Config) string {
	if cfg != nil {
		if fields := strings.Fields(cfg.Reduce.Command); len(fields) > 0 {
			return fields[0]
		}
	}
	return defaultReducerExecutable
}
