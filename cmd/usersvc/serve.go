package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"usersvc/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the user service",
	Long: `Bootstrap the store, bind LISTEN_ADDR and serve requests until SIGINT or
SIGTERM. In-flight connections are allowed to finish before exit.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := loadApp()
	if err != nil {
		return err
	}
	logger := a.logger

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gw, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	defer gw.Close()

	handler := server.NewHandler(server.GatewayStore(gw), logger)
	srv := server.New(server.Options{
		Addr:           a.cfg.ListenAddr,
		ReadBufferSize: a.cfg.ReadBufferSize,
		ReadTimeout:    a.cfg.ReadTimeout,
		WriteTimeout:   a.cfg.WriteTimeout,
	}, handler, logger)
	if err := srv.Listen(); err != nil {
		return err
	}

	logger.Info("Starting usersvc",
		"addr", srv.Addr().String(),
		"store", gw.Dialect(),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Serve(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down")
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("Server stopped gracefully")
	return nil
}
