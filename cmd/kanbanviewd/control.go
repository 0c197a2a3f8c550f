package main

import (
	"context"
	"sync"

	"github.com/Roelanb/kanbanview/internal/config"
	"github.com/Roelanb/kanbanview/internal/preview"
)

// controlPlane backs the /reload and /config endpoints.
type controlPlane struct {
	svc     *preview.Service
	cfgPath string

	mu  sync.Mutex
	cfg *config.Config
}

func (c *controlPlane) Reload(ctx context.Context) error {
	return c.svc.Reload(ctx)
}

func (c *controlPlane) GetConfig() any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg
}

func (c *controlPlane) ApplyConfig(ctx context.Context, raw []byte) error {
	cfg, err := config.Parse(raw, config.FormatFor(c.cfgPath))
	if err != nil {
		return err
	}
	if cfg.Board.File == "" {
		return errNoBoardFile
	}
	// persist first so the file on disk stays the single source of truth
	if c.cfgPath != "" {
		if err := config.Save(c.cfgPath, cfg); err != nil {
			return err
		}
	}
	if err := c.svc.ApplyConfig(ctx, cfg); err != nil {
		return err
	}
	c.mu.Lock()
	c.cfg = cfg
	c.mu.Unlock()
	return nil
}
