package service

import (
	"context"
	"fmt"

	"quill/app/auth"
	"quill/app/config"
)

// HandleCommand runs a subcommand and returns its exit code.
func HandleCommand(args []string) int {
	if len(args) < 1 {
		printHelp()
		return 1
	}

	switch args[0] {
	case "serve":
		return RunAppServer(args[1:])
	case "migrate":
		return migrate(args[1:])
	case "backup":
		if len(args) < 2 {
			fmt.Println("Error: destination file required for backup")
			return 1
		}
		return backup(args[1], args[2:])
	case "clean-sessions":
		return cleanSessions(args[1:])
	case "version":
		fmt.Printf("quill version %s\n", Version)
		return 0
	case "help":
		printHelp()
		return 0
	default:
		fmt.Printf("Unknown command: %s\n\n", args[0])
		printHelp()
		return 1
	}
}

func printHelp() {
	helpText := `Usage: quill <command> [options]

Commands:
  serve [options]                 Run the blog server
  migrate [options]               Apply pending database migrations
  backup <file> [options]         Write a consistent copy of the database to file
  clean-sessions [options]        Remove every stored login session
  version                         Show version information
  help                            Display this help message

Options:
  -config <file>                  YAML config file (or QUILL_CONFIG)
  -addr <addr>                    HTTP listen address
  -db <file>                      SQLite database file
  -sessions <dir>                 Session store directory
  -admin-id <id>                  Id of the administrator account
`
	fmt.Println(helpText)
}

// migrate brings the database schema up to date.
func migrate(args []string) int {
	repo, cfg, err := openRepository(context.Background(), args)
	if err != nil {
		fmt.Printf("Failed to migrate database: %v\n", err)
		return 1
	}
	defer repo.Close()

	fmt.Printf("Database %s is up to date\n", cfg.DatabasePath)
	return 0
}

// backup snapshots the database into dest, which must not exist yet.
func backup(dest string, args []string) int {
	ctx := context.Background()
	repo, _, err := openRepository(ctx, args)
	if err != nil {
		fmt.Printf("Failed to open database: %v\n", err)
		return 1
	}
	defer repo.Close()

	if err := repo.Backup(ctx, dest); err != nil {
		fmt.Printf("Failed to backup database: %v\n", err)
		return 1
	}

	fmt.Printf("Database backed up successfully to %s\n", dest)
	return 0
}

// cleanSessions logs every user out.
func cleanSessions(args []string) int {
	cfg, err := config.Load(args)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return 1
	}

	store, err := auth.OpenSessionStore(cfg.SessionDir, cfg.SessionTTL)
	if err != nil {
		fmt.Printf("Failed to open session store: %v\n", err)
		return 1
	}
	defer store.Close()

	n, err := store.Purge()
	if err != nil {
		fmt.Printf("Failed to clean sessions: %v\n", err)
		return 1
	}

	fmt.Printf("Removed %d sessions\n", n)
	return 0
}
