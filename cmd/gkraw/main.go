package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"KeyringRaw/internal/cli/commands"
	"KeyringRaw/internal/config"

	"go.uber.org/zap"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	// Load unified config (env + flags)
	cfg := config.NewConfig()

	if cfg.Version {
		printVersion()
		return
	}

	// логи только в stderr, чтобы не смешиваться с выводом команд
	zcfg := zap.NewDevelopmentConfig()
	zcfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	if cfg.Debug {
		zcfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	logger, err := zcfg.Build()
	if err != nil {
		panic(err)
	}
	sugar := logger.Sugar()
	commands.SetLogger(sugar)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	// dispatcher
	exitCode := commands.Dispatch(ctx, cfg, flag.Args())
	cancel()
	// Sync на stderr-терминале может вернуть EINVAL, это не ошибка вывода
	_ = logger.Sync()
	if exitCode == 0 {
		return
	}
	os.Exit(exitCode)
}

func printVersion() {
	fmt.Printf("KeyringRaw gkraw\nVersion: %s\nBuild date: %s\n", version, buildDate)
}
