package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/punchline"
	"github.com/aretw0/punchline/internal/config"
	"github.com/aretw0/punchline/internal/presentation/tui"
	"github.com/aretw0/punchline/internal/runtime"
	httpadapter "github.com/aretw0/punchline/pkg/adapters/http"
	"github.com/aretw0/punchline/pkg/domain"
	"github.com/aretw0/punchline/pkg/observability"
	"github.com/aretw0/punchline/pkg/runner"
	"github.com/prometheus/client_golang/prometheus"
)

// SessionOptions contains all the configuration for the run command.
type SessionOptions struct {
	ConfigPath string
	EnvFile    string
	Debug      bool
	LogFile    string
	NoBanner   bool
	JSON       bool
	SessionID  string

	// Overrides are dotted config keys set from flags (e.g. "critic": "llm").
	Overrides map[string]any

	// Stdin, Stdout and Stderr default to the process streams.
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

func (o *SessionOptions) streams() (io.Reader, io.Writer, io.Writer) {
	in, out, errw := o.Stdin, o.Stdout, o.Stderr
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	if errw == nil {
		errw = os.Stderr
	}
	return in, out, errw
}

// LoadConfig resolves the configuration: defaults, YAML file, .env and
// environment, then overrides. The result is validated.
func LoadConfig(path, envFile string, overrides map[string]any) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := config.LoadDotEnv(envFile); err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	if err := cfg.Apply(overrides); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// RunSession executes one interactive session until the user quits,
// retries run out, input ends or a signal arrives.
func RunSession(opts SessionOptions) error {
	sigCtx := NewSignalContext(context.Background())
	defer sigCtx.Cancel()
	return runSession(sigCtx, sigCtx.Signal, opts)
}

func runSession(ctx context.Context, signalOf func() os.Signal, opts SessionOptions) error {
	stdin, stdout, stderr := opts.streams()

	cfg, err := LoadConfig(opts.ConfigPath, opts.EnvFile, opts.Overrides)
	if err != nil {
		return err
	}

	logFile := cfg.Log.File
	if opts.LogFile != "" {
		logFile = opts.LogFile
	}
	logger, closeLog, err := createLogger(cfg.Log.Level, logFile, opts.Debug, stderr)
	if err != nil {
		return err
	}
	defer closeLog()

	var handler runner.IOHandler
	if opts.JSON {
		handler = runner.NewJSONHandler(stdin, stdout)
	} else {
		var textOpts []runner.TextHandlerOption
		if f, ok := stdout.(*os.File); ok && tui.IsTerminal(f) {
			textOpts = append(textOpts, runner.WithTextHandlerRenderer(tui.NewRenderer(tui.Width(f, 80))))
		}
		handler = runner.NewTextHandler(stdin, stdout, textOpts...)
		if !opts.NoBanner {
			tui.PrintBanner(stdout, punchline.Version)
		}
	}

	backends, err := BuildBackends(ctx, cfg, runner.NewHumanCritic(handler), logger)
	if err != nil {
		return fmt.Errorf("error initializing backends: %w", err)
	}
	defer func() {
		if err := backends.Close(); err != nil {
			logger.Warn("closing backends", "err", err)
		}
	}()

	registry := prometheus.NewRegistry()
	hooks := observability.NewMetrics(registry).Hooks()
	if opts.Debug {
		hooks = hooks.Merge(createDebugHooks(logger))
	}

	engine, err := runtime.NewEngine(backends.Services,
		runtime.WithLogger(logger),
		runtime.WithLifecycleHooks(hooks),
		runtime.WithPolicy(runtime.Policy{
			MaxRetries:  cfg.Policy.MaxRetries,
			Threshold:   cfg.Policy.SimilarityThreshold,
			Dimension:   cfg.Policy.Dimension,
			BrowseLimit: cfg.Policy.BrowseLimit,
		}),
		runtime.WithPromptBuilder(cfg.WriterPrompt),
		runtime.WithCatalogue(cfg.CategoryList(), cfg.LanguageList()),
		runtime.WithCallTimeout(cfg.Services.Timeout),
		runtime.WithLocker(backends.Locker, cfg.Lock.TTL),
		runtime.WithEchoDrafts(cfg.Critic == config.CriticLLM),
	)
	if err != nil {
		return fmt.Errorf("error initializing engine: %w", err)
	}

	runnerOpts := []runner.Option{
		runner.WithLogger(logger),
		runner.WithInputHandler(handler),
		runner.WithSignals(false),
	}

	serveCtx, stopServer := context.WithCancel(ctx)
	defer stopServer()
	serverDone := make(chan error, 1)
	if cfg.Metrics.Addr != "" {
		streams := httpadapter.NewStreamManager(logger)
		router := httpadapter.NewHandler(&httpadapter.Server{
			Gatherer: registry,
			Streams:  streams,
			Version:  punchline.Version,
			Logger:   logger,
		})
		runnerOpts = append(runnerOpts, runner.WithTransitionHook(streams.Publish))
		go func() {
			serverDone <- httpadapter.Serve(serveCtx, cfg.Metrics.Addr, router, logger)
		}()
	} else {
		serverDone <- nil
	}

	session, err := engine.Start(ctx, opts.SessionID)
	if err != nil {
		return fmt.Errorf("failed to init session: %w", err)
	}
	logger.Info("Session Created", "session_id", session.ID, "critic", cfg.Critic)

	final, runErr := runner.NewRunner(runnerOpts...).Run(ctx, engine, session)

	if ctx.Err() != nil && runErr == nil {
		runErr = ctx.Err()
	}
	if !opts.JSON {
		logCompletion(stdout, final, runErr, signalOf())
	}

	stopServer()
	if err := <-serverDone; err != nil {
		logger.Warn("metrics server stopped", "err", err)
	}

	var svcErr *domain.ServiceError
	if errors.As(runErr, &svcErr) {
		logger.Error("session aborted", "session_id", session.ID, "service", svcErr.Service, "op", svcErr.Op, "err", svcErr.Err)
	}
	return handleExecutionError(runErr)
}
