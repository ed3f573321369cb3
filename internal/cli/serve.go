package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/varlayout/internal/server"
	"github.com/matzehuels/varlayout/pkg/pipeline"
	"github.com/matzehuels/varlayout/pkg/source/mongo"
)

// serveCommand starts the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		mongoURI string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout HTTP API",
		Long: `Serve the layout HTTP API.

POST /v1/layout lays out one payload. Sessions (POST /v1/sessions) keep the
previous generation between refreshes so that pans over a gene model reflow
instead of regrouping. With a MongoDB URI (--mongo-uri or mongo.uri in the
config file), requests may name a dataset query instead of carrying records.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("addr") {
				addr = c.cfg.Server.Addr
			}
			if !cmd.Flags().Changed("mongo-uri") {
				mongoURI = c.cfg.Mongo.URI
			}
			return c.runServe(cmd.Context(), addr, mongoURI)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", server.DefaultAddr, "listen address")
	cmd.Flags().StringVar(&mongoURI, "mongo-uri", "", "MongoDB URI for dataset queries (default: from config)")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr, mongoURI string) error {
	logger := loggerFromContext(ctx)

	ttl, err := c.cfg.SessionTTL()
	if err != nil {
		return err
	}
	mode, err := c.cfg.DefaultMode()
	if err != nil {
		return err
	}
	cfg := server.Config{
		Addr:       addr,
		SessionTTL: ttl,
		Pipeline:   pipeline.Options{DefaultMode: mode, Logger: logger},
		Logger:     logger,
	}

	if mongoURI != "" {
		mcfg, _ := c.cfg.MongoConfig()
		mcfg.URI = mongoURI
		mcfg.Logger = logger
		src, err := mongo.Open(ctx, mcfg)
		if err != nil {
			return fmt.Errorf("open payload source: %w", err)
		}
		defer func() {
			if err := src.Close(context.Background()); err != nil {
				logger.Warn("close mongo", "err", err)
			}
		}()
		cfg.Loader = src
		logger.Info("dataset queries enabled", "database", mcfg.Database)
	}

	srv, err := server.New(cfg)
	if err != nil {
		return err
	}
	printInfo("Serving layout API")
	printKeyValue("address", addr)
	printKeyValue("session ttl", ttl.String())
	printKeyValue("default mode", mode.String())
	if cfg.Loader != nil {
		printKeyValue("datasets", "mongodb")
	}
	return srv.Run(ctx)
}
