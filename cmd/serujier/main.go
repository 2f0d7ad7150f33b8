package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/NickGV/serujier/internal/app"
	"github.com/NickGV/serujier/internal/auth"
	"github.com/NickGV/serujier/internal/browser"
	"github.com/NickGV/serujier/internal/config"
	"github.com/NickGV/serujier/internal/logger"
	"github.com/NickGV/serujier/web"
)

// ANSI escape codes
const (
	reset  = "\033[0m"
	yellow = "\033[33m"
	red    = "\033[31m"
	green  = "\033[32m"
	cyan   = "\033[36m"
	bold   = "\033[1m"
)

var (
	version = "dev"
)

// printBanner displays the SerUjier logo
func printBanner() {
	logo := []string{
		`  ____            _   _  _ _            `,
		` / ___|  ___ _ __| | | |(_|_) ___ _ __  `,
		` \___ \ / _ \ '__| | | || | |/ _ \ '__| `,
		`  ___) |  __/ |  | |_| || | |  __/ |    `,
		` |____/ \___|_|   \___/_/ |_|\___|_|    `,
		`                      |__/              `,
	}

	width := 44
	border := ""
	for i := 0; i < width; i++ {
		border += "═"
	}

	fmt.Printf("\n  %s╔%s╗%s\n", cyan, border, reset)
	for _, line := range logo {
		for len(line) < width {
			line += " "
		}
		fmt.Printf("  %s║%s%s%s║%s\n", cyan, yellow, line, cyan, reset)
	}
	fmt.Printf("  %s╚%s╝%s\n\n", cyan, border, reset)
}

// cycleLogLevel cycles through debug -> info -> warn -> error
func cycleLogLevel(appLog *logger.SlogLogger) {
	var next string
	switch appLog.GetLevel().String() {
	case "DEBUG":
		next = "info"
	case "INFO":
		next = "warn"
	case "WARN":
		next = "error"
	case "ERROR":
		next = "debug"
	default:
		next = "info"
	}

	appLog.SetLevel(logger.ParseLevel(next))
	fmt.Printf("%sLog level: %s%s%s\n", green, yellow, next, reset)
}

// printKeyboardHelp displays all available keyboard shortcuts
func printKeyboardHelp() {
	fmt.Printf("\n%s%s  Keyboard Shortcuts:%s\n", bold, green, reset)
	fmt.Printf("    %sa%s      - Open admin page in browser\n", cyan, reset)
	fmt.Printf("    %sd%s      - Open display board in browser\n", cyan, reset)
	fmt.Printf("    %sh%s      - Toggle HTTP request logging\n", cyan, reset)
	fmt.Printf("    %sl%s      - Cycle log level (debug → info → warn → error)\n", cyan, reset)
	fmt.Printf("    %sq%s      - Quit server\n", cyan, reset)
	fmt.Printf("    %s?%s      - Show this help\n\n", cyan, reset)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	addr := flag.String("addr", cfg.Addr, "HTTP listen address")
	dbPath := flag.String("db", cfg.DBPath, "SQLite database path")
	adminPw := flag.String("adminpw", cfg.AdminPassword, "Admin password (auto-generated if not set)")
	archiveURL := flag.String("archive", cfg.ArchiveURL, "Archive API base URL (in-memory if not set)")
	logLevel := flag.String("loglevel", cfg.LogLevel, "Log level (debug, info, warn, error)")
	openBrowser := flag.Bool("open", cfg.OpenBrowser, "Open the counter page in the default browser")
	noKeyboard := flag.Bool("nokeyboard", false, "Disable keyboard shortcuts")
	showVersion := flag.Bool("version", false, "Show version and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `SerUjier - Church Attendance Counter

Usage:
  serujier [options]

Options:
  -addr string   HTTP listen address (default ":8321")
  -db string     SQLite database path (default "serujier.db")
  -adminpw str   Admin password (auto-generated if not set)
  -archive str   Archive API base URL (records kept in memory if not set)
  -loglevel str  Log level: debug, info, warn, error (default "info")
  -open          Open the counter page in the default browser
  -nokeyboard    Disable keyboard shortcuts
  -version       Show version and exit
  -help          Show this help message

All options can also be set via SERUJIER_* environment variables
(SERUJIER_ADDR, SERUJIER_DB_PATH, SERUJIER_ARCHIVE_URL, ...).

Keyboard Shortcuts (when enabled):
  a              Open admin page in browser
  d              Open display board in browser
  h              Toggle HTTP request logging
  l              Cycle log level (debug → info → warn → error)
  q              Quit server
  ?              Show keyboard help

Examples:
  serujier                              # Run on :8321 with serujier.db
  serujier -addr :8080                  # Run on port 8080
  serujier -db /data/iglesia.db         # Use custom database path
  serujier -archive https://api.example.com/v1
  serujier -adminpw secreto123          # Use specific admin password

`)
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("serujier %s\n", version)
		os.Exit(0)
	}

	cfg.Addr = *addr
	cfg.DBPath = *dbPath
	cfg.ArchiveURL = *archiveURL
	cfg.LogLevel = *logLevel

	printBanner()

	// Setup admin authentication
	password := *adminPw
	if password == "" {
		password = auth.GeneratePassword()
	}
	adminAuth := auth.New(password)

	appLog := logger.NewWithLevel(logger.ParseLevel(cfg.LogLevel))

	a, err := app.New(appLog, cfg, web.GetTemplatesFS(), web.GetStaticFS(), adminAuth)
	if err != nil {
		log.Fatal("Failed to initialize application:", err)
	}
	defer a.Close()

	appLog.Info("Admin password", "password", password)

	// Start server in goroutine
	serverErr := make(chan error, 1)
	go func() {
		serverErr <- a.Run(cfg.Addr)
	}()

	// Wait a moment for server to start
	time.Sleep(100 * time.Millisecond)

	baseURL := fmt.Sprintf("http://localhost%s", cfg.Addr)
	if *openBrowser {
		if err := browser.Open(baseURL); err != nil {
			appLog.Warn("Failed to open browser", "error", err)
		}
	}

	if !*noKeyboard {
		printKeyboardHelp()
		go listenForKeyboard(baseURL, appLog)
	} else {
		fmt.Printf("\n%sKeyboard shortcuts disabled%s\n\n", yellow, reset)
	}

	if err := <-serverErr; err != nil {
		log.Fatal(err)
	}
}
