package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/8thgencore/respkv/internal/app"
	"github.com/8thgencore/respkv/internal/config"
	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
)

// CLI is the command line of respkv-server
type CLI struct {
	Config  string `help:"Path to config file." default:"config.yaml" type:"path"`
	Port    int    `help:"Port to listen on, overrides the port of network.address." short:"p"`
	EnvFile string `help:"Load environment variables from this file before reading the config." type:"path"`
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("respkv-server"),
		kong.Description("A small RESP key-value server."),
		kong.UsageOnError(),
	)

	if cli.EnvFile != "" {
		if err := godotenv.Load(cli.EnvFile); err != nil {
			log.Printf("Failed to load env file: %v", err)
			os.Exit(1)
		}
	}

	cfg, err := config.NewConfig(cli.Config)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		os.Exit(1)
	}

	if cli.Port != 0 {
		if cli.Port < 0 || cli.Port > 65535 {
			kctx.Fatalf("invalid port %d", cli.Port)
		}
		if err := cfg.WithPort(cli.Port); err != nil {
			log.Printf("Failed to apply port: %v", err)
			os.Exit(1)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Run application
	if err := app.New(cfg).Run(ctx); err != nil {
		log.Printf("Application error: %v", err)
		os.Exit(1)
	}
}
