package main

import (
	_ "embed"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"github.com/aryasetiadi/bukukas/internal/assistant"
	"github.com/aryasetiadi/bukukas/internal/bank"
	"github.com/aryasetiadi/bukukas/internal/budget"
	"github.com/aryasetiadi/bukukas/internal/export"
	"github.com/aryasetiadi/bukukas/internal/invoice"
	"github.com/aryasetiadi/bukukas/internal/ledger"
	"github.com/aryasetiadi/bukukas/internal/logger"
	"github.com/aryasetiadi/bukukas/internal/receipt"
	"github.com/aryasetiadi/bukukas/internal/report"
	"github.com/aryasetiadi/bukukas/internal/scanning"
	"github.com/aryasetiadi/bukukas/internal/server"
	"github.com/aryasetiadi/bukukas/internal/store"
)

//go:embed VERSION.txt
var versionFile string

var version = strings.TrimSpace(versionFile)

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "--version" || arg == "-version" || arg == "-v" {
			fmt.Println(version)
			os.Exit(0)
		}
	}

	fs := ff.NewFlagSet("bukukas")
	var (
		port          = fs.IntLong("port", 8080, "HTTP server port")
		storagePath   = fs.StringLong("storage", "./receipts", "Receipt file storage directory")
		scannerType   = fs.StringLong("scanner", "gemini", "Scanner type: 'gemini', 'ollama' or 'tesseract'")
		geminiKey     = fs.StringLong("gemini-key", "", "Google Gemini API key (or set GEMINI_API_KEY env var)")
		geminiModel   = fs.StringLong("gemini-model", "gemini-2.5-pro", "Google Gemini model name")
		ollamaURL     = fs.StringLong("ollama-url", "http://localhost:11434", "Ollama API base URL")
		ollamaModel   = fs.StringLong("ollama-model", "llava", "Ollama model name (e.g., llava, llava-phi3, bakllava, qwen2-vl)")
		tesseractBin  = fs.StringLong("tesseract-bin", "tesseract", "Tesseract binary path")
		tesseractLang = fs.StringLong("tesseract-lang", "eng+ind", "Tesseract language codes")
		authUser      = fs.StringLong("auth-user", "", "Basic auth username (optional)")
		authPass      = fs.StringLong("auth-pass", "", "Basic auth password (optional)")
		seed          = fs.BoolLong("seed", "Load sample data on startup")
		showVersion   = fs.BoolLong("version", "Show version information")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("BUKUKAS"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	// Check version flag after parsing
	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	logger.Init()

	db := store.NewMemoryStore()
	if *seed {
		if err := db.Seed(time.Now()); err != nil {
			slog.Error("Failed to seed sample data", "error", err)
			os.Exit(1)
		}
		slog.Info("Sample data loaded")
	}

	// Initialize scanner based on type
	var (
		scanner scanning.Scanner
		err     error
	)
	switch *scannerType {
	case "gemini":
		// Get Gemini API key from flag or environment
		apiKey := *geminiKey
		if apiKey == "" {
			apiKey = os.Getenv("GEMINI_API_KEY")
		}
		if apiKey == "" {
			slog.Error("Gemini API key is required. Set --gemini-key flag or GEMINI_API_KEY environment variable")
			os.Exit(1)
		}
		slog.Info("Initializing Gemini scanner...", "model", *geminiModel)
		scanner, err = scanning.NewGemini(apiKey, *geminiModel)
		if err != nil {
			slog.Error("Failed to initialize Gemini", "error", err)
			os.Exit(1)
		}
	case "ollama":
		slog.Info("Initializing Ollama scanner...", "url", *ollamaURL, "model", *ollamaModel)
		scanner, err = scanning.NewOllama(*ollamaURL, *ollamaModel)
		if err != nil {
			slog.Error("Failed to initialize Ollama", "error", err)
			os.Exit(1)
		}
	case "tesseract":
		slog.Info("Initializing Tesseract scanner...", "binary", *tesseractBin, "languages", *tesseractLang)
		scanner = scanning.NewTesseract(*tesseractBin, *tesseractLang)
	default:
		slog.Error("Invalid scanner type", "type", *scannerType, "valid", "gemini, ollama or tesseract")
		os.Exit(1)
	}
	defer scanner.Close()

	// Initialize storage
	slog.Info("Initializing storage...")
	files, err := receipt.NewLocalStorage(*storagePath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}

	// Initialize services
	reports := report.NewService(db)
	services := server.Services{
		Receipts:  receipt.NewService(db, scanner, files),
		Ledger:    ledger.NewService(db),
		Invoices:  invoice.NewService(db),
		Budgets:   budget.NewService(db),
		Bank:      bank.NewService(db),
		Reports:   reports,
		Assistant: assistant.NewService(reports),
		Exports:   export.NewService(db),
		Settings:  db,
	}

	// Initialize server
	basicAuth := server.BasicAuth{
		Username: *authUser,
		Password: *authPass,
	}
	srv := server.NewServer(services, basicAuth)

	// Start server in goroutine
	addr := fmt.Sprintf(":%d", *port)
	go func() {
		if err := srv.Start(addr); err != nil {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	slog.Info("Server started", "address", fmt.Sprintf("http://localhost%s", addr), "version", version)
	if *authUser != "" || *authPass != "" {
		slog.Info("Basic auth enabled", "user", *authUser)
	}

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	slog.Info("Shutting down...")
}
