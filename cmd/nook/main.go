package main

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/hpungsan/nook/internal/config"
	"github.com/hpungsan/nook/internal/db"
	"github.com/hpungsan/nook/internal/host"
	"github.com/hpungsan/nook/internal/logging"
	"github.com/hpungsan/nook/internal/mcp"
	"github.com/hpungsan/nook/internal/ops"
	"github.com/hpungsan/nook/internal/workspace"
)

// Version is set via -ldflags at build time.
var Version = "dev"

// cliCommands contains known CLI subcommands.
var cliCommands = map[string]bool{
	"create": true, "update": true, "delete": true,
	"switch": true, "save": true, "capture": true,
	"list": true, "show": true, "current": true, "search": true,
	"export": true, "import": true, "ui": true,
	"help": true,
}

// isCLIMode determines if we should run CLI vs MCP server.
func isCLIMode(args []string) bool {
	if len(args) < 2 {
		return false // No args → MCP server
	}
	arg := args[1]
	if cliCommands[arg] {
		return true
	}
	return isHelpOrVersion(args) // Default → MCP server
}

// isHelpOrVersion returns true if the user is requesting help or version info.
func isHelpOrVersion(args []string) bool {
	if len(args) < 2 {
		return false
	}
	arg := args[1]
	return arg == "--help" || arg == "-h" || arg == "--version" || arg == "-v" || arg == "help"
}

// isTerminal returns true if stdin is a terminal (not piped).
func isTerminal() bool {
	stat, _ := os.Stdin.Stat()
	return (stat.Mode() & os.ModeCharDevice) != 0
}

// printBanner displays a friendly banner when run interactively without args.
func printBanner() {
	fmt.Println(`
   _ __   ___   ___ | | __
  | '_ \ / _ \ / _ \| |/ /
  | | | | (_) | (_) |   <
  |_| |_|\___/ \___/|_|\_\

  Named workspaces for your open tabs

  Usage: nook <command> [options]
         nook --help

  MCP server mode requires piped input.`)
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
	os.Exit(1)
}

func main() {
	// No args + interactive terminal → show banner and exit
	if len(os.Args) < 2 && isTerminal() {
		printBanner()
		return
	}

	// Handle --help/--version before DB init (no DB needed)
	if isHelpOrVersion(os.Args) {
		if err := newCLIApp(nil).Run(os.Args); err != nil {
			fatal("%v", err)
		}
		return
	}

	// Unknown argument + terminal → show error (don't start MCP server)
	if !isCLIMode(os.Args) && len(os.Args) >= 2 && isTerminal() {
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n", os.Args[1])
		fmt.Fprintf(os.Stderr, "Run 'nook --help' for usage.\n")
		os.Exit(1)
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		fatal("could not determine home directory: %v", err)
	}
	baseDir := filepath.Join(homeDir, ".nook")

	cwd, _ := os.Getwd()
	cfg, err := config.LoadWithRepo(baseDir, cwd)
	if err != nil {
		fatal("failed to load config: %v", err)
	}

	logger, err := logging.New(logging.FromAppConfig(cfg))
	if err != nil {
		fatal("invalid log configuration: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	database, err := db.Init(baseDir)
	if err != nil {
		fatal("failed to initialize database: %v", err)
	}
	defer database.Close()
	db.ConfigurePool(database, cfg)

	layoutPath := cfg.ResolveLayoutPath(baseDir)
	deps := &ops.Deps{
		Store:  db.NewStore(database, logger),
		Host:   host.NewFile(layoutPath, workspace.NewID, logger),
		Config: cfg,
		Logger: logger,
	}
	logger.Debug("nook starting",
		zap.String("version", Version),
		zap.String("layout", layoutPath),
		zap.String("storage_key", cfg.StorageKey))

	if isCLIMode(os.Args) {
		if err := newCLIApp(deps).Run(os.Args); err != nil {
			// cli.Exit errors already carry the formatted message
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	// MCP server mode (default)
	if err := mcp.Run(deps, Version); err != nil {
		logger.Error("mcp server stopped", zap.Error(err))
		os.Exit(1)
	}
}
