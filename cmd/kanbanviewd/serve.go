package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Roelanb/kanbanview/internal/api"
	"github.com/Roelanb/kanbanview/internal/config"
	"github.com/Roelanb/kanbanview/internal/preview"
	"github.com/Roelanb/kanbanview/internal/store"
)

var (
	serveAddr  string
	serveBoard string
)

var errNoBoardFile = errors.New("no board file: set board.file or pass --board")

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the board document with live reload",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides server.listen)")
	serveCmd.Flags().StringVar(&serveBoard, "board", "", "board file (overrides board.file)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := applyServeFlags(cfg, serveAddr, serveBoard); err != nil {
		return err
	}

	logger := newLogger(cfg)
	defer logger.Sync() //nolint:errcheck
	logger.Infow("config loaded", "version", version, "board", cfg.Board.Name, "file", cfg.Board.File)

	st, err := store.OpenBBolt(cfg.Runtime.StateDbPath)
	if err != nil {
		logger.Errorw("failed to open state store", "path", cfg.Runtime.StateDbPath, "error", err)
		return fmt.Errorf("state store: %w", err)
	}
	defer st.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := api.NewHub(logger)
	svc := preview.NewService(logger, st, hub, cfg)
	if err := svc.Start(ctx); err != nil {
		logger.Errorw("failed to follow board file", "file", cfg.Board.File, "error", err)
		return err
	}
	defer svc.Stop()

	srv := api.New(logger, svc, st, hub, api.Options{
		Addr:            cfg.Server.Listen,
		AssetsDir:       cfg.Assets.Dir,
		AllowAllOrigins: cfg.Server.AllowAllOrigins,
		Control:         &controlPlane{svc: svc, cfgPath: configPath, cfg: cfg},
	})
	if err := srv.Start(ctx); err != nil {
		logger.Errorw("failed to start api server", "addr", cfg.Server.Listen, "error", err)
		return fmt.Errorf("api: %w", err)
	}

	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Infow("signal received, shutting down", "signal", sig.String())

	shCtx, shCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shCancel()
	if err := srv.Shutdown(shCtx); err != nil {
		logger.Errorw("graceful shutdown failed", "error", err)
	}
	cancel()

	logger.Infow("shutdown complete")
	return nil
}

// applyServeFlags applies the serve overrides and validates the result. A
// relative --board is taken relative to the working directory.
func applyServeFlags(cfg *config.Config, addr, boardFile string) error {
	if addr != "" {
		cfg.Server.Listen = addr
	}
	if boardFile != "" {
		file, err := filepath.Abs(boardFile)
		if err != nil {
			return fmt.Errorf("board: %w", err)
		}
		cfg.Board.File = file
	}
	if cfg.Board.File == "" {
		return errNoBoardFile
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
