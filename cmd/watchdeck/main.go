package main

import (
	"bufio"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/keroda/watchdeck/internal/backend"
	"github.com/keroda/watchdeck/internal/cache"
	"github.com/keroda/watchdeck/internal/catalog"
	"github.com/keroda/watchdeck/internal/config"
	"github.com/keroda/watchdeck/internal/library"
	"github.com/keroda/watchdeck/internal/log"
	"github.com/keroda/watchdeck/internal/search"
	"github.com/keroda/watchdeck/internal/store"
	"github.com/keroda/watchdeck/internal/tmdb"
	"github.com/keroda/watchdeck/internal/tui"
)

// Version is set at build time via -ldflags
var Version = "dev"

func main() {
	var showVersion, signOut bool
	flag.BoolVar(&showVersion, "v", false, "print version")
	flag.BoolVar(&showVersion, "version", false, "print version")
	flag.BoolVar(&signOut, "signout", false, "forget the saved session and exit")
	flag.Parse()

	if showVersion {
		fmt.Printf("watchdeck %s\n", Version)
		return
	}

	if signOut {
		cfg, err := config.LoadConfig()
		if err == nil {
			err = config.ClearSession(cfg)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Signed out.")
		return
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := log.SetupLogger(&cfg.Logging)
	if err != nil {
		// Fall back to null logger if file logging fails
		logger = log.NullLogger()
	}
	slog.SetDefault(logger)

	logger.Info("starting watchdeck", "version", Version)

	if !cfg.IsConfigured() {
		return runSetupFlow(cfg)
	}

	catalogStore, err := store.NewCatalogStore(config.GetCachePath())
	if err != nil {
		return fmt.Errorf("failed to open catalog store: %w", err)
	}
	defer catalogStore.Close()

	tmdbClient := tmdb.NewClient(cfg.Catalog.BaseURL, cfg.Catalog.APIKey, logger)
	catalogSvc := catalog.NewService(tmdbClient, catalogStore, logger)

	backendClient := backend.NewClient(cfg.Backend.URL, cfg.Backend.APIKey, cfg.Session.AccessToken, logger)
	librarySvc := library.NewService(cache.New(), backendClient, logger)
	if cfg.Session.SignedIn() {
		librarySvc.SetUser(cfg.Session.UserID)
	}

	filterSvc := search.NewService(logger)

	model := tui.New(catalogSvc, librarySvc, filterSvc, cfg.Session.SignedIn(), logger)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	logger.Info("starting TUI", "signed_in", cfg.Session.SignedIn())

	if _, err := p.Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}

	logger.Info("shutting down")
	return nil
}

// runSetupFlow handles the initial setup when not configured
func runSetupFlow(cfg *config.Config) error {
	fmt.Println()
	fmt.Println("Welcome to watchdeck!")
	fmt.Println()

	reader := bufio.NewReader(os.Stdin)

	cfg.Catalog.APIKey = promptLine(reader, "TMDB API key: ")
	if cfg.Catalog.APIKey == "" {
		return fmt.Errorf("a TMDB API key is required")
	}

	cfg.Backend.URL = promptLine(reader, "Backend URL (e.g. https://xyz.supabase.co/rest/v1): ")
	if cfg.Backend.URL == "" {
		return fmt.Errorf("a backend URL is required")
	}
	cfg.Backend.APIKey = promptLine(reader, "Backend API key: ")

	fmt.Println()
	fmt.Println("Optional sign-in (leave user id empty to browse without a library):")
	cfg.Session.UserID = promptLine(reader, "User id: ")
	if cfg.Session.UserID != "" {
		token, err := promptSecret("Access token: ")
		if err != nil {
			return fmt.Errorf("failed to read token: %w", err)
		}
		cfg.Session.AccessToken = token
		cfg.Session.Email = promptLine(reader, "Email (optional): ")
	}

	if err := config.SaveConfig(cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Println()
	fmt.Println("✓ Configuration saved!")
	fmt.Println()
	fmt.Println("Run watchdeck again to start the application.")
	return nil
}

func promptLine(reader *bufio.Reader, prompt string) string {
	fmt.Print(prompt)
	input, err := reader.ReadString('\n')
	if err != nil {
		return ""
	}
	return strings.TrimSpace(input)
}

// promptSecret reads a line without echoing it.
func promptSecret(prompt string) (string, error) {
	fmt.Print(prompt)
	raw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(raw)), nil
}
