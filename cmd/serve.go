package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/desertthunder/reel/internal/server"
	"github.com/desertthunder/reel/internal/shared"
	"github.com/desertthunder/reel/internal/web"
	"github.com/urfave/cli/v3"
)

// Serve runs the web app until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	if err := r.config.Validate(); err != nil {
		return err
	}

	repo, err := r.movies()
	if err != nil {
		return err
	}
	service, err := r.metadata()
	if err != nil {
		return err
	}

	handler, err := web.NewHandler(web.HandlerOpts{
		Repo:    repo,
		Service: service,
		Logger:  shared.WithLogger(r.logger, "component", "web"),
	})
	if err != nil {
		return fmt.Errorf("failed to build handler: %w", err)
	}

	router := web.NewRouter(handler, web.RouterOpts{
		Logger:            r.logger,
		SecretKey:         r.config.Server.SecretKey,
		RequestsPerSecond: r.config.Server.RequestsPerSecond,
		Burst:             r.config.Server.Burst,
		SecureCookies:     cmd.Bool("secure-cookies"),
	})

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := r.config.Server.Addr()

	var ready func()
	if cmd.Bool("open") {
		url := browseURL(r.config.Server.Host, r.config.Server.Port)
		ready = func() {
			if err := shared.OpenBrowser(url); err != nil {
				r.logger.Warn("could not open browser", "url", url, "error", err)
			}
		}
	}

	r.logger.Info("serving movie list", "addr", addr, "database", r.config.Database.Path, "metadata", service.Name())
	return server.Serve(ctx, addr, router, r.logger, ready)
}

// browseURL returns a URL a local browser can reach for the listen address.
func browseURL(host string, port int) string {
	switch host {
	case "", "0.0.0.0", "::":
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, strconv.Itoa(port)) + "/"
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
