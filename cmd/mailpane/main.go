package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"mailpane/internal/browser"
	"mailpane/internal/config"
	"mailpane/internal/mailapi"
	"mailpane/internal/sse"
	"mailpane/internal/view"
	"mailpane/internal/web"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Cannot read .env: %v\n", err)
		os.Exit(1)
	}
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	api, err := mailapi.New(cfg.APIURL,
		mailapi.WithLogger(logger),
		mailapi.WithHTTPClient(&http.Client{Timeout: 15 * time.Second}),
	)
	if err != nil {
		logger.Error("init mail api client", "error", err)
		os.Exit(1)
	}
	if cfg.User == "" {
		logger.Warn("MAILPANE_USER not set; reply all keeps your own address")
	}

	hub := sse.NewHub()
	m := view.New(api,
		view.WithContext(ctx),
		view.WithLogger(logger),
		view.WithPublisher(hub),
		view.WithSelf(cfg.User),
	)
	p := view.NewProgram(ctx, m)

	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		logger.Error("listen", "addr", cfg.Addr, "error", err)
		os.Exit(1)
	}
	httpSrv := &http.Server{
		Handler:           web.NewServer(p, hub, logger),
		ReadHeaderTimeout: 10 * time.Second,
		// Event streams end with the process context.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}
	go func() {
		logger.Info("http server listening", "addr", ln.Addr().String(), "api", cfg.APIURL)
		if err := httpSrv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server stopped", "error", err)
			stop()
		}
	}()

	fmt.Fprintln(os.Stderr, banner(cfg.BrowserURL(), cfg.APIURL))
	if cfg.OpenBrowser {
		if err := browser.Open(cfg.BrowserURL()); err != nil {
			logger.Warn("open browser", "error", err)
		}
	}

	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		logger.Error("view program stopped", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown http", "error", err)
	}
}
