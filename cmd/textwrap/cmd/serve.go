package cmd

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/psantana5/textwrap/internal/api"
	"github.com/psantana5/textwrap/internal/auth"
	"github.com/psantana5/textwrap/internal/metrics"
	"github.com/psantana5/textwrap/internal/ratelimit"
	"github.com/psantana5/textwrap/internal/shutdown"
	"github.com/psantana5/textwrap/internal/tlsutil"
	"github.com/psantana5/textwrap/internal/tracing"
	"github.com/psantana5/textwrap/pkg/hyphenation"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the wrap API over HTTP",
		Long: `Start the HTTP wrap service:

  POST /wrap                    wrap text
  GET  /hyphenate/{lang}/{word} hyphenate a word
  GET  /languages               list languages
  GET  /health                  liveness
  GET  /metrics                 Prometheus metrics`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}

	flags := cmd.Flags()
	flags.String("addr", ":8080", "listen address")
	flags.Float64("rate-limit", 20, "requests per second per client (0 disables)")
	flags.String("tls-cert", "", "TLS certificate file")
	flags.String("tls-key", "", "TLS key file")
	opts.v.BindPFlag("server.addr", flags.Lookup("addr"))
	opts.v.BindPFlag("server.rate_limit", flags.Lookup("rate-limit"))
	opts.v.BindPFlag("server.tls_cert", flags.Lookup("tls-cert"))
	opts.v.BindPFlag("server.tls_key", flags.Lookup("tls-key"))
	return cmd
}

func runServe(ctx context.Context, opts *rootOptions) error {
	cfg := opts.cfg.Server
	logger := opts.logger.WithField("component", "server")

	keys, err := auth.NewKeySet(cfg.APIKeyHashes)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if cfg.TLSCert != "" {
		srv.TLSConfig, err = tlsutil.LoadServerConfig(cfg.TLSCert, cfg.TLSKey)
		if err != nil {
			return err
		}
	}

	proxies, err := ratelimit.ParseTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		return err
	}
	var limiter *ratelimit.Limiter
	if cfg.RateLimit > 0 {
		limiter = ratelimit.NewLimiter(cfg.RateLimit, cfg.Burst)
	}

	provider, err := tracing.New(opts.cfg.Tracing, logger)
	if err != nil {
		return err
	}

	handler := api.NewHandler(api.Options{
		Registry:     hyphenation.NewRegistry(opts.loader()),
		Metrics:      metrics.NewRecorder(),
		Logger:       logger,
		Tracer:       provider.Tracer(),
		Language:     opts.cfg.LanguageCode(),
		MaxBodyBytes: cfg.MaxBodyBytes,
		MaxWidth:     cfg.MaxWidth,
	})
	srv.Handler = api.NewRouter(handler, api.RouterOptions{
		Limiter:   limiter,
		ClientKey: ratelimit.ProxyKeyFunc(proxies),
		Keys:      keys,
		Tracing:   provider,
	})

	manager := shutdown.New(cfg.ShutdownTimeout, logger)
	manager.Register(shutdown.CloseResource(opts.logger, "log file"))
	manager.Register(provider.Shutdown)
	manager.Register(shutdown.StopHTTPServer(srv, "wrap API"))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if limiter != nil {
		go limiter.Run(ctx, time.Minute, 10*time.Minute)
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting wrap API", map[string]interface{}{
			"addr":     cfg.Addr,
			"tls":      srv.TLSConfig != nil,
			"api_keys": keys.Len(),
		})
		var err error
		if srv.TLSConfig != nil {
			err = srv.ListenAndServeTLS("", "")
		} else {
			err = srv.ListenAndServe()
		}
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		errCh <- err
		cancel()
	}()

	if err := manager.WaitWithContext(ctx); err != nil {
		return err
	}
	return <-errCh
}
