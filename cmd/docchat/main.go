package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/DreamCats/docchat/cmd/docchat/internal"
	"github.com/DreamCats/docchat/internal/config"
)

var validSubcommands = map[string]bool{
	"ingest": true,
	"ask":    true,
	"chat":   true,
	"search": true,
	"stats":  true,
}

// splitArgs separates global flags from the subcommand and its
// arguments. subcommand is "" when none is present, in which case all
// args are treated as global flags. Flags after the subcommand belong
// to the subcommand, so `docchat search "q" -v` keeps -v for search.
func splitArgs(args []string) (globalFlags []string, subcommand string, subArgs []string) {
	for i, arg := range args {
		if !strings.HasPrefix(arg, "-") && validSubcommands[arg] {
			return args[:i], arg, args[i+1:]
		}
		// Not a known subcommand, might be a value for a flag
	}
	return args, "", nil
}

// main 启动 docchat 命令行工具,解析参数并执行对应子命令。
// 若参数无效或缺少子命令则打印用法并退出。
func main() {
	if len(os.Args) < 2 {
		internal.PrintUsage()
		os.Exit(1)
	}

	configPath := ""
	libraryPath := ""
	globalFlags, subcommand, subcommandArgs := splitArgs(os.Args[1:])

	for i := 0; i < len(globalFlags); i++ {
		flag := globalFlags[i]
		if flag == "-config" || flag == "--config" {
			if i+1 < len(globalFlags) {
				configPath = globalFlags[i+1]
				i++
			}
		} else if flag == "-library" || flag == "--library" {
			if i+1 < len(globalFlags) {
				libraryPath = globalFlags[i+1]
				i++
			}
		} else if flag == "-h" || flag == "-help" || flag == "--help" {
			internal.PrintUsage()
			os.Exit(0)
		} else if flag == "-v" || flag == "-version" || flag == "--version" {
			fmt.Printf("docchat version %s\n", internal.Version)
			os.Exit(0)
		} else if strings.HasPrefix(flag, "-") {
			fmt.Fprintf(os.Stderr, "Error: Unknown global flag: %s\n\n", flag)
			internal.PrintUsage()
			os.Exit(1)
		}
	}

	if subcommand == "" {
		fmt.Fprintf(os.Stderr, "Error: No subcommand specified\n\n")
		internal.PrintUsage()
		os.Exit(1)
	}

	// A .env next to the library or in the working directory can carry
	// the API key; real environment variables win.
	_ = godotenv.Load()

	// Load configuration
	cfg, err := internal.LoadConfig(configPath)
	if err != nil {
		if config.IsConfigNotFound(err) {
			if subcommand == "ingest" {
				if notFoundErr, ok := err.(*config.ConfigNotFoundError); ok {
					created, createErr := config.WriteDefaultTemplate(notFoundErr.RequestedPath)
					if createErr != nil {
						fmt.Fprintf(os.Stderr, "Error: %v\n\n", err)
						fmt.Fprintf(os.Stderr, "Also failed to create default config at %s: %v\n\n", notFoundErr.RequestedPath, createErr)
						internal.PrintConfigExample()
						os.Exit(1)
					}
					if created {
						fmt.Fprintf(os.Stderr, "Created default config at %s\n", notFoundErr.RequestedPath)
					}
					fmt.Fprintln(os.Stderr, "Please update embedding.api_key in the config file (or set DOCCHAT_API_KEY) and rerun `docchat ingest`.")
					os.Exit(1)
				}
			}
			fmt.Fprintf(os.Stderr, "Error: %v\n\n", err)
			internal.PrintConfigExample()
			os.Exit(1)
		}
		log.Fatalf("Failed to load config: %v\n", err)
	}

	libraryRoot, err := internal.ResolveLibraryRoot(libraryPath)
	if err != nil {
		log.Fatalf("Failed to resolve library root: %v\n", err)
	}
	cfg.Library = libraryRoot

	if cfg.Database.Path == "" {
		dbPath, err := internal.DefaultDBPath(libraryRoot)
		if err != nil {
			log.Fatalf("Failed to determine database path: %v\n", err)
		}
		cfg.Database.Path = dbPath
	}

	if subcommand != "chat" && subcommand != "ask" {
		if err := internal.SetupLogging(subcommand, libraryRoot); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to initialize log file: %v\n", err)
		}
	}

	switch subcommand {
	case "ingest":
		handleIngest(cfg, subcommandArgs)
	case "ask":
		handleAsk(cfg, subcommandArgs)
	case "chat":
		handleChat(cfg, subcommandArgs)
	case "search":
		handleSearch(cfg, subcommandArgs)
	case "stats":
		handleStats(cfg, subcommandArgs)
	default:
		fmt.Printf("Unknown subcommand: %s\n\n", subcommand)
		internal.PrintUsage()
		os.Exit(1)
	}
}
