package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"mcpchat/api"
	"mcpchat/config"
	appmodel "mcpchat/model"
	"mcpchat/storage"
	"mcpchat/ui"
)

const Version = "v0.01.00"

func main() {
	var overrides config.Overrides
	var showVersion bool

	flagSet := pflag.NewFlagSet("mcpchat", pflag.ContinueOnError)
	flagSet.StringVar(&overrides.BackendURL, "backend", "", "chat backend base URL (default from config, then "+config.DefaultBackendURL+")")
	flagSet.StringVar(&overrides.DataDir, "data-dir", "", "data directory holding config.toml and mcpchat.db")
	flagSet.BoolVar(&overrides.AutoConnect, "connect", false, "connect to the saved MCP servers on startup")
	flagSet.BoolVar(&showVersion, "version", false, "print version and exit")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	if showVersion {
		fmt.Printf("mcpchat %s\n", Version)
		return
	}

	cfg, err := config.LoadWith(overrides)
	if err != nil {
		showStartupError("Configuration Error", fmt.Sprintf("Failed to load config:\n\n%v", err))
		os.Exit(1)
	}

	config.InitDebugLog(cfg.DataDir())

	// Without a database the registry and session live only in memory
	var kv storage.KVStore
	sqliteKV, err := storage.NewSQLiteKV(cfg.DataDir())
	if err != nil {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[main] storage unavailable, running without persistence: %v", err)
		}
	} else {
		kv = sqliteKV
		defer sqliteKV.Close()
	}

	client, err := api.NewClient(cfg.BackendURL, nil)
	if err != nil {
		showStartupError("Backend Error", fmt.Sprintf("Invalid backend URL %q:\n\n%v", cfg.BackendURL, err))
		os.Exit(1)
	}

	client.SetHeader("User-Agent", "mcpchat/"+Version)

	dataModel := appmodel.NewModel(cfg, client, storage.NewMCPStorage(kv), Version)

	p := tea.NewProgram(
		ui.NewAppView(dataModel),
		tea.WithAltScreen(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running mcpchat: %v\n", err)
		os.Exit(1)
	}
}

func showStartupError(title, msg string) {
	p := tea.NewProgram(
		ui.NewErrorModal(title, msg),
		tea.WithAltScreen(),
	)
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
}
