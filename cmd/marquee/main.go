package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/mmcdole/marquee/internal/config"
	"github.com/mmcdole/marquee/internal/domain"
	"github.com/mmcdole/marquee/internal/favorites"
	"github.com/mmcdole/marquee/internal/feed"
	"github.com/mmcdole/marquee/internal/log"
	"github.com/mmcdole/marquee/internal/omdb"
	"github.com/mmcdole/marquee/internal/service"
	"github.com/mmcdole/marquee/internal/store"
	"github.com/mmcdole/marquee/internal/tui"
	"github.com/mmcdole/marquee/internal/tui/styles"
)

// Version is set at build time via -ldflags
var Version = "dev"

// clearSpinnerLine clears the spinner line from the terminal
const clearSpinnerLine = "\r                                    \r"

func main() {
	var (
		showVersion bool
		configPath  string
	)
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.StringVar(&configPath, "config", "", "path to the config file")
	flag.Parse()

	if showVersion {
		fmt.Printf("marquee %s\n", Version)
		return
	}

	if err := run(configPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	// Load configuration
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	logger, logFile, err := log.Setup(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = log.NullLogger()
	} else {
		defer logFile.Close()
	}
	slog.SetDefault(logger)

	logger.Info("starting marquee", "version", Version)

	// Check if configured
	if !cfg.IsConfigured() {
		if err := runSetupFlow(cfg, logger); err != nil {
			return err
		}
	}

	client, err := newClient(cfg, cfg.OMDb.APIKey, logger)
	if err != nil {
		return fmt.Errorf("failed to create catalog client: %w", err)
	}

	// Favorites: an unusable store degrades to memory for this session
	persister, err := store.Open(cfg.Storage.Backend, cfg.Storage.Path)
	if err != nil {
		logger.Error("failed to open favorites store", "backend", cfg.Storage.Backend, "path", cfg.Storage.Path, "error", err)
		fmt.Fprintf(os.Stderr, "Warning: favorites will not be saved: %v\n", err)
		if persister, err = store.Open(cfg.Storage.Backend, ""); err != nil {
			return fmt.Errorf("failed to open favorites store: %w", err)
		}
	}
	favs := favorites.Open(persister, logger)
	defer func() {
		if err := favs.Close(); err != nil {
			logger.Error("failed to save favorites", "error", err)
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
	}()

	ctrl := feed.NewController(client, feed.Options{
		MaxQueryLength: cfg.Search.MaxQueryLength,
	}, logger)
	defer ctrl.Close()

	catalog := service.NewCatalogService(client, logger)

	model := tui.NewModel(tui.Deps{
		Feed:      ctrl,
		Favorites: favs,
		Catalog:   catalog,
		Search:    cfg.Search,
		Logger:    logger,
	})

	p := tea.NewProgram(model, tea.WithAltScreen())

	logger.Info("starting TUI")

	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}

func newClient(cfg *config.Config, apiKey string, logger *slog.Logger) (*omdb.Client, error) {
	return omdb.NewClient(omdb.Options{
		BaseURL:       cfg.OMDb.BaseURL,
		APIKey:        apiKey,
		DefaultSearch: cfg.OMDb.DefaultSearch,
		Timeout:       cfg.OMDb.Timeout,
	}, logger)
}

// runSetupFlow asks for an API key until one is accepted, then saves it
func runSetupFlow(cfg *config.Config, logger *slog.Logger) error {
	fmt.Println()
	fmt.Println("Welcome to Marquee!")
	fmt.Println()
	fmt.Println("An OMDb API key is required. Get a free one at https://www.omdbapi.com/apikey.aspx")
	fmt.Println()

	for {
		fmt.Print("Enter your OMDb API key: ")
		keyBytes, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return fmt.Errorf("failed to read API key: %w", err)
		}
		apiKey := strings.TrimSpace(string(keyBytes))
		if apiKey == "" {
			fmt.Println("API key cannot be empty. Please try again.")
			continue
		}

		client, err := newClient(cfg, apiKey, logger)
		if err != nil {
			return fmt.Errorf("failed to create catalog client: %w", err)
		}
		if err := verifyKeyWithSpinner(client); err != nil {
			fmt.Printf("✗ %s\n", domain.UserMessage(err))
			if errors.Is(err, domain.ErrNetworkFailure) {
				fmt.Println("Please check your connection and try again.")
			}
			fmt.Println()
			continue
		}

		cfg.OMDb.APIKey = apiKey
		break
	}

	if err := config.SaveConfig(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Println("✓ Configuration saved to " + cfg.Path())
	fmt.Println()
	return nil
}

// verifyKeyWithSpinner runs a probe search with a visual spinner
func verifyKeyWithSpinner(client *omdb.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	resultCh := make(chan error, 1)
	go func() {
		_, err := client.SearchPage(ctx, domain.SearchQuery{Text: "batman"}, 1)
		resultCh <- err
	}()

	frame := 0
	fmt.Printf("\r%s Checking API key...", styles.Spinner(frame))

	ticker := time.NewTicker(80 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case err := <-resultCh:
			fmt.Print(clearSpinnerLine)
			if err == nil {
				fmt.Println("✓ API key accepted")
			}
			return err

		case <-ticker.C:
			frame++
			fmt.Printf("\r%s Checking API key...", styles.Spinner(frame))

		case <-ctx.Done():
			fmt.Print(clearSpinnerLine)
			return fmt.Errorf("%w: check timed out", domain.ErrNetworkFailure)
		}
	}
}
