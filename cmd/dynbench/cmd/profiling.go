// This file implements optional profiling for benchmark runs using Go's
// standard net/http/pprof package, allowing on-demand profile capture via HTTP
// endpoints while scenarios execute, plus an optional execution trace.

package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/pprof"
	"os"
	"runtime/trace"
	"time"

	"github.com/rs/zerolog"
)

// profiler owns the pprof server and trace file of one run.
type profiler struct {
	cfg ProfilingConfig
	log zerolog.Logger

	server    *http.Server
	traceFile *os.File
}

func newProfiler(cfg ProfilingConfig, log zerolog.Logger) *profiler {
	return &profiler{cfg: cfg, log: log}
}

// start launches the HTTP profiling server and/or trace based on the
// configuration. A server that fails after startup is logged, not fatal.
func (p *profiler) start() error {
	if p.cfg.EnableProfiling {
		mux := http.NewServeMux()
		// Register pprof handlers explicitly to avoid dependency on the default mux.
		mux.HandleFunc("/debug/pprof/", pprof.Index)
		mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
		mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

		p.server = &http.Server{
			Addr:              p.cfg.ProfileAddr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}

		go func(srv *http.Server) {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				p.log.Error().Err(err).Str("addr", srv.Addr).Msg("profiling server failed")
			}
		}(p.server)

		p.log.Info().
			Str("addr", p.cfg.ProfileAddr).
			Str("heap", fmt.Sprintf("curl http://%s/debug/pprof/heap > heap.prof", p.cfg.ProfileAddr)).
			Msg("profiling server started")
	}

	if p.cfg.Trace {
		f, err := os.Create(p.cfg.TraceOutputPath)
		if err != nil {
			return fmt.Errorf("create trace file: %w", err)
		}
		if err := trace.Start(f); err != nil {
			f.Close()
			return fmt.Errorf("start trace: %w", err)
		}
		p.traceFile = f
		p.log.Info().Str("path", p.cfg.TraceOutputPath).Msg("tracing enabled")
	}
	return nil
}

// stop shuts down the profiling server and flushes the trace. It is safe to
// call more than once.
func (p *profiler) stop() {
	if p.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := p.server.Shutdown(ctx); err != nil {
			p.log.Warn().Err(err).Msg("shutting down profiling server")
		}
		p.server = nil
	}

	if p.traceFile != nil {
		trace.Stop()
		if err := p.traceFile.Close(); err != nil {
			p.log.Warn().Err(err).Msg("closing trace file")
		}
		p.traceFile = nil
	}
}
