package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/mmcdole/marquee/internal/adapter"
	"github.com/mmcdole/marquee/internal/detail"
	"github.com/mmcdole/marquee/internal/fetch"
	"github.com/mmcdole/marquee/internal/history"
	"github.com/mmcdole/marquee/internal/search"
	"github.com/mmcdole/marquee/internal/store"
	"github.com/mmcdole/marquee/internal/tmdb"
	"github.com/mmcdole/marquee/internal/tui"
	"github.com/mmcdole/marquee/internal/tui/styles"
)

// Version is set at build time via -ldflags
var Version = "dev"

// clearSpinnerLine clears the spinner line from the terminal
const clearSpinnerLine = "\r                                    \r"

// observerBuffer bounds the change signals queued for the UI loop
const observerBuffer = 256

func main() {
	var showVersion bool
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.Parse()

	if showVersion {
		fmt.Printf("marquee %s\n", Version)
		return
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := adapter.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, logCloser, err := adapter.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = adapter.NullLogger()
	} else {
		defer logCloser.Close()
	}
	slog.SetDefault(logger)

	logger.Info("starting marquee", "version", Version)

	if !cfg.IsConfigured() {
		return runSetupFlow(cfg)
	}

	client := tmdb.NewClient(cfg.TMDBOptions(), logger)
	orch := fetch.NewOrchestrator(client, cfg.Listing.MaxParallel, logger)

	historyDir, err := cfg.HistoryDir()
	if err != nil {
		return fmt.Errorf("failed to resolve history path: %w", err)
	}
	kv, err := store.NewStateStore(historyDir, cfg.API.BaseURL)
	if err != nil {
		// History is a convenience; run without persisting it
		logger.Warn("history store unavailable, using memory", "error", err)
		kv, _ = store.NewStateStore("", "")
	}
	defer kv.Close()
	logger.Info("history store ready", "persistent", kv.Persistent())

	hist := history.NewStore(kv, cfg.History.Size, logger)
	observer := tui.NewChannelObserver(observerBuffer)
	session := search.NewSession(orch, hist, observer.Navigate, cfg.SearchOptions(), logger)

	model := tui.NewModel(tui.Services{
		Session:      session,
		Orchestrator: orch,
		Presets:      cfg.Presets(),
		Observer:     observer,
		Details:      detail.NewService(orch, cfg.DetailOptions(), logger),
		Logger:       logger,

		HistoryInMemory: !kv.Persistent(),
	})
	defer model.Close()

	p := tea.NewProgram(model, tea.WithAltScreen())

	logger.Info("starting TUI")

	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}

// runSetupFlow asks for an API token and saves it once the catalog accepts it
func runSetupFlow(cfg *adapter.Config) error {
	fmt.Println()
	fmt.Println("Welcome to Marquee!")
	fmt.Println()
	fmt.Println("Marquee needs a TMDB API read access token.")
	fmt.Println("Create one at https://www.themoviedb.org/settings/api")
	fmt.Println()

	for {
		fmt.Print("API read access token: ")
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Println()
		if err != nil {
			return fmt.Errorf("failed to read token: %w", err)
		}

		token := strings.TrimSpace(string(raw))
		if token == "" {
			fmt.Println("Token cannot be empty. Please try again.")
			continue
		}

		opts := cfg.TMDBOptions()
		opts.Token = token
		if err := verifyWithSpinner(tmdb.NewClient(opts, adapter.NullLogger())); err != nil {
			fmt.Printf("✗ Token rejected: %v\n", err)
			fmt.Println("Please check the token and try again.")
			fmt.Println()
			continue
		}

		cfg.API.Token = token
		break
	}

	if err := adapter.SaveConfig(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Println()
	fmt.Println("✓ Configuration saved!")
	fmt.Println()
	fmt.Println("Run marquee again to start browsing.")

	return nil
}

// verifyWithSpinner checks the token with a visual spinner
func verifyWithSpinner(client *tmdb.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), tmdb.DefaultTimeout)
	defer cancel()

	resultCh := make(chan error, 1)
	go func() {
		resultCh <- client.Verify(ctx)
	}()

	frame := 0
	fmt.Printf("\r%s Checking token...", styles.Spinner(frame))

	ticker := time.NewTicker(80 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case err := <-resultCh:
			fmt.Print(clearSpinnerLine)
			if err != nil {
				return err
			}
			fmt.Println("✓ Token accepted")
			return nil

		case <-ticker.C:
			frame++
			fmt.Printf("\r%s Checking token...", styles.Spinner(frame))

		case <-ctx.Done():
			fmt.Print(clearSpinnerLine)
			return fmt.Errorf("verification timed out")
		}
	}
}
