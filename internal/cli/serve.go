package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/aretw0/robobunny"
	"github.com/aretw0/robobunny/internal/adapters/file"
	"github.com/aretw0/robobunny/internal/logging"
	httpAdapter "github.com/aretw0/robobunny/pkg/adapters/http"
	"github.com/aretw0/robobunny/pkg/adapters/memory"
	"github.com/aretw0/robobunny/pkg/adapters/redis"
	"github.com/aretw0/robobunny/pkg/observability"
	"github.com/aretw0/robobunny/pkg/persistence/middleware"
	"github.com/aretw0/robobunny/pkg/ports"
	"github.com/aretw0/robobunny/pkg/registry"
	"github.com/aretw0/robobunny/pkg/session"
	"golang.org/x/sync/errgroup"
)

// shutdownTimeout bounds graceful HTTP shutdown.
const shutdownTimeout = 5 * time.Second

// ServeOptions configures the HTTP server.
type ServeOptions struct {
	Addr        string
	RedisAddr   string
	RedisTTL    time.Duration
	ProgramsDir string
	MapsDir     string
	BlockLimit  int
	Delay       time.Duration
	Debug       bool
	JSONLogs    bool
	Out         io.Writer
}

// Stack is the wired server: store, levels, sessions, metrics and the HTTP
// handler.
type Stack struct {
	// Store is Backend behind the logging and lint middlewares.
	Store    ports.ProgramStore
	Backend  ports.ProgramStore
	Levels   *registry.Registry
	Sessions *session.Manager
	Metrics  *observability.Metrics
	Handler  http.Handler

	closeStore func() error
}

// Close stops every session and releases the store.
func (s *Stack) Close() error {
	if s.Sessions != nil {
		s.Sessions.Close()
	}
	if s.closeStore != nil {
		return s.closeStore()
	}
	return nil
}

// NewStack builds the server components for opts.
func NewStack(ctx context.Context, opts ServeOptions, logger *slog.Logger) (*Stack, error) {
	st := &Stack{Metrics: observability.NewMetrics(), Levels: registry.NewRegistry()}

	switch {
	case opts.RedisAddr != "":
		var ropts []redis.Option
		if opts.RedisTTL > 0 {
			ropts = append(ropts, redis.WithTTL(opts.RedisTTL))
		}
		rs := redis.New(opts.RedisAddr, "", 0, ropts...)
		if err := rs.Ping(ctx); err != nil {
			rs.Close()
			return nil, fmt.Errorf("connecting to redis at %s: %w", opts.RedisAddr, err)
		}
		st.Backend, st.closeStore = rs, rs.Close
		logger.Info("Using redis program store", "addr", opts.RedisAddr)
	case opts.ProgramsDir != "":
		st.Backend = file.New(opts.ProgramsDir)
		logger.Info("Using file program store", "dir", opts.ProgramsDir)
	default:
		st.Backend = memory.NewStore()
		logger.Info("Using in-memory program store")
	}
	st.Store = middleware.Chain(st.Backend,
		middleware.NewLoggingMiddleware(logger),
		middleware.NewLintMiddleware(opts.BlockLimit),
	)

	if opts.MapsDir != "" {
		n, err := st.Levels.LoadDir(opts.MapsDir)
		if err != nil {
			st.Close()
			return nil, err
		}
		logger.Info("Loaded levels", "dir", opts.MapsDir, "count", n)
	}

	streams := httpAdapter.NewStreamManager(logger)
	factory := func(id string) *robobunny.Editor {
		hooks := observability.Combine(st.Metrics.Hooks(), streams.Hooks(id))
		if opts.Debug {
			hooks = observability.Combine(hooks, observability.LogHooks(logger.With("session_id", id)))
		}
		editorOpts := []robobunny.Option{
			robobunny.WithName(id),
			robobunny.WithLogger(logger),
			robobunny.WithStepDelay(opts.Delay),
			robobunny.WithLifecycleHooks(hooks),
		}
		if opts.BlockLimit > 0 {
			editorOpts = append(editorOpts, robobunny.WithBlockLimit(opts.BlockLimit))
		}
		return robobunny.New(editorOpts...)
	}

	st.Sessions = session.NewManager(
		session.WithFactory(factory),
		session.WithStore(st.Store),
		session.WithLogger(logger),
	)
	st.Handler = httpAdapter.NewHandler(st.Sessions,
		httpAdapter.WithStreams(streams),
		httpAdapter.WithLevels(st.Levels),
		httpAdapter.WithMetrics(st.Metrics.Handler()),
		httpAdapter.WithLogger(logger),
	)
	return st, nil
}

// Serve runs the HTTP server until ctx is cancelled, then shuts it down.
func Serve(ctx context.Context, opts ServeOptions) error {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}
	logger := createLogger(opts.Debug)
	if opts.JSONLogs {
		level := slog.LevelInfo
		if opts.Debug {
			level = slog.LevelDebug
		}
		logger = logging.NewJSON(os.Stderr, level)
	}

	stack, err := NewStack(ctx, opts, logger)
	if err != nil {
		return err
	}
	defer stack.Close()

	g, gctx := errgroup.WithContext(ctx)
	srv := &http.Server{
		Addr:              opts.Addr,
		Handler:           stack.Handler,
		ReadHeaderTimeout: 10 * time.Second,
		// Event streams end with the server.
		BaseContext: func(net.Listener) context.Context { return gctx },
	}

	g.Go(func() error {
		printSystemMessage(out, "Starting robobunny server on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Graceful shutdown did not complete", "timeout", shutdownTimeout, "err", err)
			return srv.Close()
		}
		printSystemMessage(out, "Server stopped gracefully")
		return nil
	})
	return g.Wait()
}
