package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	bionic "github.com/tassa-yoniso-manasi-karoto/go-bionic"
	"github.com/tassa-yoniso-manasi-karoto/go-bionic/internal/config"
	"github.com/tassa-yoniso-manasi-karoto/go-bionic/internal/server"
)

var (
	configPath string
	debug      bool
)

func main() {
	root := &cobra.Command{
		Use:           "bionic",
		Short:         "Render text as bionic reading markup",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (yaml, toml or json)")
	root.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	root.AddCommand(serveCmd(), renderCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	if debug {
		cfg.LogLevel = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).
		Level(cfg.LogLevel).
		With().Timestamp().Logger()
	bionic.SetLogger(logger)
	return cfg, logger, nil
}

func serveCmd() *cobra.Command {
	var start startOptions
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP service",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			analyzer, closer := newAnalyzer(ctx, cfg, logger, start)
			defer closer.Close()

			srv := server.New(bionic.NewRenderer(analyzer), server.Options{
				Addr:           cfg.Addr,
				AllowedOrigins: cfg.AllowedOrigins,
				Logger:         logger,
			})
			return srv.Run(ctx)
		},
	}
	cmd.Flags().BoolVar(&start.recreate, "recreate", false, "remove and recreate the analyzer container")
	cmd.Flags().BoolVar(&start.noCache, "no-cache", false, "with --recreate, rebuild the image without cache")
	return cmd
}

func renderCmd() *cobra.Command {
	var mode string
	cmd := &cobra.Command{
		Use:   "render [text...]",
		Short: "Render text given as arguments or on stdin",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}

			text := strings.Join(args, " ")
			if len(args) == 0 {
				b, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("failed to read stdin: %w", err)
				}
				text = string(b)
			}
			if err := bionic.ValidateInput(text); err != nil {
				return err
			}

			var analyzer bionic.Analyzer
			if bionic.Mode(mode) == bionic.ModeAdvanced {
				a, closer := newAnalyzer(cmd.Context(), cfg, logger, startOptions{})
				defer closer.Close()
				analyzer = a
			}

			out, err := bionic.NewRenderer(analyzer).Render(cmd.Context(), bionic.Mode(mode), text)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&mode, "mode", "m", string(bionic.ModeSimple), "simple, advanced or classic")
	return cmd
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// startOptions control how the KoNLPy container is brought up
type startOptions struct {
	recreate bool
	noCache  bool
}

// newAnalyzer builds the configured backend. A backend that fails to start
// is replaced by one returning the startup error, so simple mode keeps
// working and advanced requests report why the analyzer is missing.
func newAnalyzer(ctx context.Context, cfg *config.Config, logger zerolog.Logger, start startOptions) (bionic.Analyzer, io.Closer) {
	opts := bionic.AnalyzeOptions{Norm: cfg.Norm, Stem: cfg.Stem}

	switch cfg.Backend {
	case config.BackendNone:
		return nil, nopCloser{}
	case config.BackendKagome:
		k, err := bionic.NewKagomeAnalyzer(opts)
		if err != nil {
			logger.Error().Err(err).Msg("Kagome analyzer unavailable")
			return failing(startupError(err)), nopCloser{}
		}
		return k, nopCloser{}
	}

	mgrOpts := []bionic.ManagerOption{
		bionic.WithQueryTimeout(cfg.QueryTimeout),
		bionic.WithProjectName(cfg.ProjectName),
		bionic.WithAnalyzeOptions(opts),
		bionic.WithDownloadProgressCallback(pullProgressLogger(logger)),
	}
	if cfg.Image != "" {
		mgrOpts = append(mgrOpts, bionic.WithImage(cfg.Image))
	}

	mgr, err := bionic.NewManager(ctx, mgrOpts...)
	if err != nil {
		logger.Error().Err(err).Msg("KoNLPy analyzer unavailable")
		return failing(startupError(err)), nopCloser{}
	}
	if err := mgr.PullImage(ctx); err != nil {
		logger.Warn().Err(err).Msg("Image pull failed, using local image")
	}

	logger.Info().Bool("recreate", start.recreate).Msg("Starting KoNLPy service, first run builds the image")
	if start.recreate {
		err = mgr.InitRecreate(ctx, start.noCache)
	} else {
		err = mgr.Init(ctx)
	}
	if err != nil {
		logger.Error().Err(err).Msg("KoNLPy analyzer unavailable")
		return failing(startupError(err)), mgr
	}
	return mgr, mgr
}

// startupError keeps analyzer errors as they are and reports any other
// startup failure as an unavailable KoNLPy service
func startupError(err error) error {
	if errors.Is(err, bionic.ErrAnalyzerUnavailable) || errors.Is(err, bionic.ErrAnalyzer) {
		return err
	}
	return &bionic.AnalyzerError{
		Unavailable: true,
		Dependency:  "KoNLPy service",
		Hint:        "check the analyzer container logs",
		Err:         err,
	}
}

// pullProgressLogger logs image pull progress at most once per second
func pullProgressLogger(logger zerolog.Logger) func(current, total int64, status string) {
	var last time.Time
	return func(current, total int64, status string) {
		if time.Since(last) < time.Second && current < total {
			return
		}
		last = time.Now()
		logger.Info().Int64("current", current).Int64("total", total).Str("status", status).Msg("Pulling analyzer image")
	}
}

func failing(err error) bionic.Analyzer {
	return bionic.AnalyzerFunc(func(context.Context, string) ([]bionic.MorphToken, error) {
		return nil, err
	})
}
