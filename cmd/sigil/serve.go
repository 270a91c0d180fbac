package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/sigil/internal/api"
	"github.com/samcharles93/sigil/internal/logger"
	"github.com/samcharles93/sigil/pkg/rcf"
)

func serveCmd() *cli.Command {
	var (
		filePath    string
		addr        string
		readTimeout time.Duration
	)

	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the record introspection API for an .rcf snapshot",
		Flags: append(commonLogFlags(),
			&cli.StringFlag{
				Name:        "file",
				Aliases:     []string{"f"},
				Usage:       "path to .rcf file",
				Destination: &filePath,
				Required:    true,
			},
			&cli.StringFlag{
				Name:        "addr",
				Usage:       "listen address",
				Value:       "127.0.0.1:8080",
				Destination: &addr,
			},
			&cli.DurationFlag{
				Name:        "read-timeout",
				Usage:       "read timeout",
				Value:       30 * time.Second,
				Destination: &readTimeout,
			},
		),
		Action: func(ctx context.Context, c *cli.Command) error {
			if cfg, err := loadConfig(); err == nil {
				applyServeConfig(c, cfg, &addr)
			}
			log := logger.Build(os.Stderr, logLevel, logFormat)
			ctx = logger.WithContext(ctx, log)

			f, err := rcf.Open(filePath)
			if err != nil {
				return fmt.Errorf("open %s: %w", filePath, err)
			}
			defer func() { _ = f.Close() }()

			server := api.NewServer(api.NewFileSource(f))
			e := echo.New()
			e.Use(middleware.RequestLogger())
			e.Use(middleware.Recover())
			server.Register(e)

			log.Info("starting server", "address", addr, "file", filePath)
			sc := echo.StartConfig{
				Address: addr,
				BeforeServeFunc: func(srv *http.Server) error {
					srv.ReadHeaderTimeout = readTimeout
					return nil
				},
			}
			return sc.Start(ctx, e)
		},
	}
}
