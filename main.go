package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"flight_search/internal/config"
	"flight_search/internal/database"
	"flight_search/internal/search"
)

func initLogger(cfg *config.Config) {
	var logLevel slog.Level
	switch strings.ToLower(cfg.Log.Level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: logLevel,
	}

	// Logs go to stderr so stdout carries only the search report
	var handler slog.Handler
	if strings.ToLower(cfg.Log.Format) == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	slog.SetDefault(slog.New(handler))
}

func openStore(ctx context.Context, cfg config.DBConfig) (database.FlightStore, error) {
	if cfg.Driver == config.DriverPostgres {
		db, err := database.NewPostgres(ctx, cfg.DSN())
		if err != nil {
			return nil, err
		}
		return db, nil
	}

	db, err := database.New(cfg.Path)
	if err != nil {
		return nil, err
	}
	return db, nil
}

// seedStore loads the configured CSV dataset when the flights table is empty
func seedStore(ctx context.Context, store database.FlightStore, cfg config.DatasetConfig) error {
	populated, err := store.IsTablePopulated(ctx)
	if err != nil {
		return err
	}
	if populated {
		slog.Debug("Flights table is already populated")
		return nil
	}
	if len(cfg.Paths) == 0 {
		slog.Warn("Flights table is empty and no dataset is configured")
		return nil
	}

	slog.Info("Flights table is empty, loading from CSV files", "csv_paths", cfg.Paths)
	loaded, err := database.LoadFlightsFromCSV(ctx, store, cfg.Paths, cfg.BatchSize)
	if err != nil {
		return err
	}
	slog.Info("Loaded flights dataset", "rows", loaded)

	return nil
}

// flagSet reports whether the named flag was given on the command line
func flagSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

// searchLimit keeps an explicit -limit, including 0, and falls back to the configured default
func searchLimit(explicit bool, value, fallback int) int {
	if explicit {
		return value
	}
	return fallback
}

func main() {
	configPath := flag.String("config", "", "Path to config file (YAML)")
	origin := flag.String("origin", "", "Origin city")
	dest := flag.String("dest", "", "Destination city")
	day := flag.Int("day", 1, "Day of month")
	directOnly := flag.Bool("direct", false, "Only search for direct flights")
	limit := flag.Int("limit", 0, "Maximum number of itineraries (default search.default_limit)")
	flag.Parse()

	if *configPath != "" {
		os.Setenv("FLIGHT_SEARCH_CONFIG_PATH", *configPath)
	}

	cfg, err := config.Load()
	if err != nil {
		basicLogger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		basicLogger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	initLogger(cfg)

	ctx := context.Background()

	store, err := openStore(ctx, cfg.DB)
	if err != nil {
		slog.Error("Failed to initialize database", "driver", cfg.DB.Driver, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	if err := seedStore(ctx, store, cfg.Dataset); err != nil {
		slog.Error("Failed to load flights dataset", "error", err)
		store.Close()
		os.Exit(1)
	}

	n := searchLimit(flagSet("limit"), *limit, cfg.Search.DefaultLimit)

	searcher := search.New(store)
	fmt.Print(searcher.TransactionSearch(ctx, *origin, *dest, *directOnly, *day, n))
}
