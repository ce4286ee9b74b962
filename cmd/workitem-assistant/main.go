package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"workitem-assistant/internal/common"
	"workitem-assistant/internal/interfaces"
	"workitem-assistant/internal/handlers"
	"workitem-assistant/internal/services"

	"github.com/ternarybob/arbor"
)

const serviceName = "workitem-assistant"

func main() {
	var (
		configPath     = flag.String("config", "", "Path to configuration file")
		mode           = flag.String("mode", "dev", "Environment mode: 'dev', 'development', 'prod', or 'production'")
		quiet          = flag.Bool("quiet", false, "Suppress banner output")
		version        = flag.Bool("version", false, "Show version information")
		help           = flag.Bool("help", false, "Show help message")
		validateConfig = flag.Bool("validate", false, "Validate configuration file and exit")
	)
	flag.Parse()

	if *version {
		fmt.Printf("%s v%s (build: %s)\n", serviceName, common.GetVersion(), common.GetBuild())
		os.Exit(0)
	}

	if *help {
		showHelp()
		os.Exit(0)
	}

	environment := parseMode(*mode)

	cfg, err := common.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	cfg.Server.Environment = environment

	if *validateConfig {
		fmt.Println("Configuration is valid")
		os.Exit(0)
	}

	if err := common.InitLogger(&cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	logger := common.GetLogger()

	logger.Info().
		Str("version", common.GetVersion()).
		Str("build", common.GetBuild()).
		Str("environment", environment).
		Msg("Starting Work Item Assistant")

	logger.Info().
		Str("config_path", *configPath).
		Msg("Configuration loaded")

	if !*quiet {
		logFilePath := common.GetLogFilePath()
		common.PrintBanner(serviceName, environment, cfg.Server.Port, logFilePath)
	}

	// Wire services: oracle client, tracking adapter, gate, draft generator,
	// orchestrator. All are stateless; configuration is read-only for the
	// process lifetime.
	oracle := services.NewAzureOpenAIOracle(&cfg.OpenAI, logger)
	creator := services.NewADOClient(&cfg.AzureDevOps, logger)
	gate := services.NewGateEvaluator(oracle, logger)
	drafts := services.NewDraftGenerator(oracle, logger)
	assistant := services.NewWorkItemAssistant(gate, drafts, creator, logger)

	webServer, err := handlers.NewWebServer(cfg, assistant, drafts, logger)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create web server")
		os.Exit(1)
	}

	runServerMode(cfg, webServer, logger)

	logger.Info().Msg("Work Item Assistant shutdown complete")
}

func runServerMode(cfg *common.Config, webServer interfaces.WebService, logger arbor.ILogger) {
	ctx := context.Background()
	if err := webServer.Start(ctx); err != nil {
		logger.Error().Err(err).Msg("Failed to start web server")
		return
	}

	logger.Info().
		Int("port", cfg.Server.Port).
		Msg("Web server started successfully")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	logger.Info().Msg("Server running - press Ctrl+C to stop")

	<-sigChan
	logger.Info().Msg("Shutdown signal received")

	if err := webServer.Stop(); err != nil {
		logger.Error().Err(err).Msg("Error stopping web server")
	}

	common.PrintShutdownBanner(serviceName)
}

func parseMode(mode string) string {
	mode = strings.ToLower(mode)
	switch mode {
	case "prod", "production":
		return "production"
	case "dev", "development":
		return "development"
	default:
		return "development"
	}
}

func showHelp() {
	fmt.Printf("%s v%s - Azure DevOps Work Item Assistant\n\n", serviceName, common.GetVersion())
	fmt.Println("Usage:")
	fmt.Printf("  %s [flags]\n\n", os.Args[0])
	fmt.Println("Flags:")
	fmt.Println("  -mode string        Environment mode: 'dev', 'development', 'prod', or 'production' (default \"dev\")")
	fmt.Println("  -config string      Configuration file path")
	fmt.Println("  -quiet              Suppress banner output")
	fmt.Println("  -version            Show version information")
	fmt.Println("  -help               Show help message")
	fmt.Println("  -validate           Validate configuration file and exit")
	fmt.Println("\nExamples:")
	fmt.Printf("  %s                                       # Run with auto-detected config\n", os.Args[0])
	fmt.Printf("  %s -mode prod                            # Run in production mode\n", os.Args[0])
	fmt.Printf("  %s -config deployments/workitem-assistant.toml\n", os.Args[0])
}
