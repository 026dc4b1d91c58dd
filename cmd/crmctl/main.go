package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/edvin/crmpanel/internal/cli"
	"github.com/edvin/crmpanel/internal/crmapi"
	"github.com/edvin/crmpanel/internal/session"
)

func main() {
	fs := flag.NewFlagSet("crmctl", flag.ExitOnError)
	apiURL := fs.String("api", "", "CRM API base URL (overrides CRM_API_URL and config.yaml)")
	configPath := fs.String("config", "", "Config file (default: $XDG_CONFIG_HOME/crmctl/config.yaml)")
	verbose := fs.Bool("v", false, "Log API errors to stderr")
	fs.Parse(os.Args[1:])

	if *configPath == "" {
		path, err := cli.DefaultConfigPath()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		*configPath = path
	}

	cfg, err := cli.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	cfg.Override(os.Getenv("CRM_API_URL"), *apiURL)

	statePath, err := session.DefaultStatePath(cli.AppName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	store := session.NewFileStore(statePath)

	level := zerolog.WarnLevel
	if *verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithContext(ctx)

	app := &cli.App{
		Out:       os.Stdout,
		Err:       os.Stderr,
		In:        os.Stdin,
		Store:     store,
		API:       crmapi.NewClient(cfg.APIURL, store, crmapi.WithTimeout(cfg.Timeout)),
		StatePath: statePath,
	}

	code := app.Run(ctx, fs.Args())
	stop()
	os.Exit(code)
}
