package common

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ternarybob/banner"
)

// StorageDescription names the active cache backend and where it lives.
func (c *Config) StorageDescription() string {
	switch c.Storage.Backend {
	case BackendSurrealDB:
		return fmt.Sprintf("surrealdb %s (%s/%s)", c.Storage.SurrealDB.Address, c.Storage.SurrealDB.Namespace, c.Storage.SurrealDB.Database)
	case BackendMemory:
		return "memory"
	default:
		return "badger " + c.Storage.Badger.Path
	}
}

// PrintBanner writes the startup banner to stderr and logs the same details.
func PrintBanner(config *Config, logger *Logger) {
	printBanner(os.Stderr, config)

	logger.Info().
		Str("version", Version).
		Str("build", Build).
		Str("commit", GitCommit).
		Str("environment", config.Environment).
		Str("service_url", serviceURL(config)).
		Str("storage", config.StorageDescription()).
		Str("cache_duration", config.Cache.GetDuration().String()).
		Msg("Carteira started")
}

func serviceURL(config *Config) string {
	return fmt.Sprintf("http://%s:%d", config.Server.Host, config.Server.Port)
}

func printBanner(w io.Writer, config *Config) {
	lineColor := banner.ColorCyan
	textColor := banner.ColorBold + banner.ColorWhite
	hr := lineColor + strings.Repeat("═", 64) + banner.ColorReset

	art := []string{
		`   ____     _     ____   _____  _____  ___  ____      _`,
		`  / ___|   / \   |  _ \ |_   _|| ____||_ _||  _ \    / \`,
		` | |      / _ \  | |_) |  | |  |  _|   | | | |_) |  / _ \`,
		` | |___  / ___ \ |  _ <   | |  | |___  | | |  _ <  / ___ \`,
		`  \____|/_/   \_\|_| \_\  |_|  |_____||___||_| \_\/_/   \_\`,
	}

	fmt.Fprintf(w, "\n%s\n\n", hr)
	for _, line := range art {
		fmt.Fprintf(w, "%s%s%s\n", textColor, line, banner.ColorReset)
	}
	fmt.Fprintf(w, "\n%s  Portfolio valuation & quote cache%s\n\n", textColor, banner.ColorReset)
	fmt.Fprintf(w, "%s\n\n", hr)

	rows := [][2]string{
		{"Version", Version},
		{"Build", Build},
		{"Commit", GitCommit},
		{"Environment", config.Environment},
		{"Service URL", serviceURL(config)},
		{"Storage", config.StorageDescription()},
		{"Currency", config.DisplayCurrency},
	}
	for _, kv := range rows {
		fmt.Fprintf(w, "%s  %-14s %s%s\n", textColor, kv[0], kv[1], banner.ColorReset)
	}
	fmt.Fprintf(w, "\n%s\n\n", hr)
}

// PrintShutdownBanner writes the shutdown banner to stderr.
func PrintShutdownBanner(logger *Logger) {
	hr := banner.ColorCyan + strings.Repeat("═", 32) + banner.ColorReset
	fmt.Fprintf(os.Stderr, "\n%s\n%s  CARTEIRA SHUTTING DOWN%s\n%s\n\n", hr, banner.ColorBold+banner.ColorWhite, banner.ColorReset, hr)

	logger.Info().Msg("Carteira shutting down")
}
