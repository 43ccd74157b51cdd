// Command modelstub runs an in-memory modeling server implementing the
// protocol mdproxy speaks, for local development and integration tests.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"mdproxy/internal/httpapi"
	"mdproxy/internal/workspace"
	"mdproxy/pkg/types"
)

func main() {
	// Flags with environment variable defaults
	defaultAddr := ":8000"
	if v := os.Getenv("MDPROXY_STUB_ADDR"); v != "" {
		defaultAddr = v
	}
	addr := flag.String("addr", defaultAddr, "HTTP listen address, e.g. :8000")
	seedPath := flag.String("seed", "", "Seed file describing initial types/components/files (.yaml/.json/.toml)")
	importDir := flag.String("import-dir", "", "Directory whose files are imported into the workspace")
	cmdTimeout := flag.Int64("command-timeout", 0, "Max seconds a /command may run (0=disabled)")
	corsOrigins := flag.String("cors-origins", "", "Comma-separated allowed CORS origins (empty disables CORS)")
	logLevel := flag.String("log-level", "info", "Log level: debug|info|warn|error")
	flag.Parse()

	lvl, err := zerolog.ParseLevel(*logLevel)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	logger := zerolog.New(os.Stderr).Level(lvl).With().Timestamp().Logger()

	var ws *workspace.Workspace
	if *seedPath != "" {
		seed, err := workspace.LoadSeed(*seedPath)
		if err != nil {
			log.Fatalf("failed to load seed: %v", err)
		}
		ws, err = workspace.FromSeed(seed)
		if err != nil {
			log.Fatalf("failed to apply seed: %v", err)
		}
	} else {
		ws = workspace.New(types.TypeCatalog{})
	}
	ws.SetLogger(logger)
	if *importDir != "" {
		if err := ws.ImportDir(*importDir); err != nil {
			log.Fatalf("failed to import %s: %v", *importDir, err)
		}
	}

	baseCtx, cancelBase := context.WithCancel(context.Background())
	defer cancelBase()
	httpapi.SetBaseContext(baseCtx)
	httpapi.SetLogger(logger)
	httpapi.SetCommandTimeoutSeconds(*cmdTimeout)
	if *corsOrigins != "" {
		httpapi.SetCORSOptions(true,
			strings.Split(*corsOrigins, ","),
			[]string{"GET", "POST", "OPTIONS"},
			[]string{"Content-Type", "X-Request-ID", "X-Log-Level"},
		)
	}

	mux := httpapi.NewMux(ws)
	srv := &http.Server{Addr: *addr, Handler: mux}

	go func() {
		logger.Info().Str("addr", *addr).Msg("modelstub listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Shut down on Ctrl+C / SIGTERM or a client GET /exit.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-stop:
	case <-ws.Done():
		logger.Info().Msg("exit requested by client")
	}
	cancelBase()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown error")
	}
}
