package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"typeshift/src/args"
	"typeshift/src/commands"
	"typeshift/src/config"
	"typeshift/src/constraint"
	"typeshift/src/database"
)

const (
	// Default log levels
	defaultDebugLogLevel   = "debug"
	defaultReleaseLogLevel = "info"
)

// openDB creates a new database connection
func openDB(ctx context.Context, url string) (database.DBAdapter, error) {
	return database.CreateDatabaseAdapter(ctx, url)
}

// asyncMain is the main async function that handles the application logic
func asyncMain(ctx context.Context, arguments *args.Args, settings config.Settings) error {
	if arguments.SubCmd.Name == "" {
		// No subcommand provided, cobra printed the help
		return nil
	}

	tag := arguments.Locale
	if tag == "" {
		tag = settings.Locale
	}
	manager, err := constraint.NewManager(tag)
	if err != nil {
		return err
	}

	// Commands without storage
	switch arguments.SubCmd.Name {
	case "encode":
		return commands.RunEncode(ctx, arguments.SubCmd.EncodeArgs, manager, os.Stdout)
	case "decode":
		return commands.RunDecode(ctx, arguments.SubCmd.DecodeArgs, manager, os.Stdout)
	case "evaluate":
		return commands.RunEvaluate(ctx, arguments.SubCmd.EvaluateArgs, manager, os.Stdout)
	case "query":
		return commands.RunQuery(ctx, arguments.SubCmd.QueryArgs, manager, os.Stdout)
	}

	if !arguments.SubCmd.NeedsDatabase() {
		return fmt.Errorf("unknown subcommand: %s", arguments.SubCmd.Name)
	}

	// Get database URL from args or environment
	dbURL := arguments.DB
	if dbURL == "" {
		dbURL = settings.DatabaseURL
		if dbURL == "" {
			return fmt.Errorf("database url must be provided using either --db or DATABASE_URL env var")
		}
	}

	db, err := openDB(ctx, dbURL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	switch arguments.SubCmd.Name {
	case "import":
		return commands.RunImport(ctx, arguments.SubCmd.ImportArgs, manager, db, settings.S3)
	case "export":
		return commands.RunExport(ctx, arguments.SubCmd.ExportArgs, manager, db, settings.S3)
	case "convert":
		return commands.RunConvert(ctx, arguments.SubCmd.ConvertArgs, manager, db, os.Stdout)
	default:
		return fmt.Errorf("unknown subcommand: %s", arguments.SubCmd.Name)
	}
}

// setupLogging configures the logging system
func setupLogging(settings config.Settings) {
	// Determine default log level based on build mode
	defaultLogLevel := defaultReleaseLogLevel
	if settings.Debug {
		defaultLogLevel = defaultDebugLogLevel
	}

	// Get log level from environment or use default
	logLevel := settings.LogLevel
	if logLevel == "" {
		logLevel = defaultLogLevel
	}

	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Warnf("Invalid log level '%s', using info level", logLevel)
		level = logrus.InfoLevel
	}
	logrus.SetLevel(level)

	// Logs go to stderr, stdout carries command output
	logrus.SetOutput(os.Stderr)
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
}

func main() {
	// Load environment variables from .env file if it exists
	_ = godotenv.Load()

	settings := config.LoadSettings()
	setupLogging(settings)

	// Parse command line arguments
	arguments, err := args.ParseArgs()
	if err != nil {
		log.Fatalf("Failed to parse arguments: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := asyncMain(ctx, arguments, settings); err != nil {
		logrus.Fatalf("Application error: %v", err)
	}
}
