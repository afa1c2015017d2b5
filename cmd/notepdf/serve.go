package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gompdf/notepdf/internal/auth"
	"github.com/gompdf/notepdf/internal/config"
	"github.com/gompdf/notepdf/internal/notes"
	"github.com/gompdf/notepdf/internal/server"
	"github.com/gompdf/notepdf/pkg/api"
)

func runServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	var (
		configPath string
		addr       string
		initConfig bool
	)
	fs.StringVar(&configPath, "config", "notepdf.yaml", "Config file path")
	fs.StringVar(&addr, "addr", "", "Listen address (overrides server.addr)")
	fs.BoolVar(&initConfig, "init", false, "Write a default config file if none exists")
	fs.Parse(args)

	if initConfig {
		if err := config.InitConfig(configPath); err != nil {
			return err
		}
		log.Printf("[INFO] config written to %s", configPath)
	}

	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := notes.Open(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer store.Close()

	manager, err := newAuthManager(ctx, cfg.Auth)
	if err != nil {
		return err
	}

	renderer := api.New(cfg.Render.RendererOptions()...)
	return server.New(store, renderer, manager, cfg.Server).Run(ctx)
}

func newAuthManager(ctx context.Context, conf config.AuthConfig) (*auth.Manager, error) {
	if !conf.Enabled {
		log.Printf("[WARN] authentication disabled; every request runs as admin")
		return nil, nil
	}

	var sessions auth.Store
	switch conf.SessionStore {
	case "redis":
		rs, err := auth.NewRedisStore(ctx, conf.Redis)
		if err != nil {
			return nil, err
		}
		context.AfterFunc(ctx, func() { rs.Close() })
		sessions = rs
	case "memory", "":
		sessions = auth.NewMemoryStore()
	default:
		return nil, fmt.Errorf("unknown session store %q", conf.SessionStore)
	}
	return auth.NewManager(conf.ManagerConfig(), sessions)
}
