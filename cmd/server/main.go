package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"pushreg/config"
	"pushreg/internal/server"
	"pushreg/internal/user"
	"pushreg/internal/user/handler"
	"pushreg/internal/user/repository"
	"pushreg/internal/user/usecase"
	"pushreg/pkg/db"
	"pushreg/pkg/logger"
)

func main() {
	var (
		configName string
		mode       string
		pubkey     string
	)
	flag.StringVar(&configName, "config", "config-local", "config file name (without .yaml) under ./config")
	flag.StringVar(&mode, "mode", "http", "http: serve registrations; lookup: print device tokens for -pubkey")
	flag.StringVar(&pubkey, "pubkey", "", "pubkey for -mode=lookup")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, configName, mode, pubkey, os.Stdout); err != nil {
		log.Printf("fatal: %v", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configName, mode, pubkey string, out io.Writer) error {
	v, err := config.LoadConfig(configName)
	if err != nil {
		return err
	}
	cfg, err := config.ParseConfig(v)
	if err != nil {
		return err
	}

	appLogger, err := logger.NewLogger(cfg)
	if err != nil {
		return err
	}
	defer appLogger.Sync()

	if mode == "lookup" && cfg.Bun.Driver == config.DriverMemory {
		return fmt.Errorf("lookup needs a persistent store: bun.driver %q keeps nothing between runs", cfg.Bun.Driver)
	}

	repo, closeRepo, err := newRepository(ctx, cfg, *appLogger)
	if err != nil {
		return err
	}
	defer closeRepo()

	uc := usecase.NewUserUsecase(repo, *appLogger, *cfg)

	switch mode {
	case "http":
		srv := server.New(cfg.Server, handler.NewUserHandler(uc, *appLogger), *appLogger)
		return srv.Start(ctx)
	case "lookup":
		if pubkey == "" {
			return fmt.Errorf("-pubkey is required for lookup")
		}
		tokens, err := uc.GetDeviceTokens(ctx, pubkey)
		if err != nil {
			return err
		}
		for _, t := range tokens {
			fmt.Fprintln(out, t)
		}
		return nil
	default:
		return fmt.Errorf("unsupported mode %q", mode)
	}
}

func newRepository(ctx context.Context, cfg *config.Config, appLogger logger.Logger) (user.UserRepository, func(), error) {
	if cfg.Bun.Driver == config.DriverMemory {
		appLogger.Warn("using in-memory store, registrations are lost on restart")
		return repository.NewMemoryUserRepository(), func() {}, nil
	}

	bunDB, err := db.NewBunDB(ctx, cfg.Bun)
	if err != nil {
		return nil, nil, err
	}
	if err := repository.CreateTables(ctx, bunDB); err != nil {
		bunDB.Close()
		return nil, nil, err
	}
	appLogger.Info("database ready", "driver", cfg.Bun.Driver)
	return repository.NewUserRepository(bunDB, appLogger), func() { bunDB.Close() }, nil
}
