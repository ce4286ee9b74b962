package common

import (
	"fmt"
	"strings"

	"github.com/ternarybob/banner"
)

// PrintBanner displays the application startup banner
func PrintBanner(serviceName, environment string, port int, logFile string) {
	version := GetVersion()
	build := GetBuild()

	b := banner.New().
		SetStyle(banner.StyleDouble).
		SetBorderColor(banner.ColorPurple).
		SetTextColor(banner.ColorWhite).
		SetBold(true).
		SetWidth(80)

	fmt.Printf("\n")

	b.PrintTopLine()
	b.PrintCenteredText("WORK ITEM ASSISTANT")
	b.PrintCenteredText("Azure DevOps Work Item Drafting Service")
	b.PrintSeparatorLine()

	b.PrintKeyValue("Version", version, 15)
	b.PrintKeyValue("Build", build, 15)
	b.PrintKeyValue("Environment", environment, 15)
	b.PrintKeyValue("Port", fmt.Sprintf("%d", port), 15)
	b.PrintBottomLine()

	fmt.Printf("\n")

	if logFile != "" {
		pattern := strings.Replace(logFile, ".log", ".{YYYY-MM-DDTHH-MM-SS}.log", 1)
		fmt.Printf("   Log File: %s\n", pattern)
	}
	fmt.Printf("\n")

	printEndpointInfo(port)
	fmt.Printf("\n")
}

func printEndpointInfo(port int) {
	fmt.Printf("Endpoints:\n")
	fmt.Printf("   POST http://localhost:%d/api/work-items/draft   - Draft a work item from notes\n", port)
	fmt.Printf("   POST http://localhost:%d/api/work-items/create  - Draft and create in Azure DevOps\n", port)
	fmt.Printf("   GET  http://localhost:%d/health                 - Liveness check\n", port)
	fmt.Printf("   GET  http://localhost:%d/health/llm             - Oracle round-trip smoke test\n", port)
}

// PrintShutdownBanner displays the application shutdown banner
func PrintShutdownBanner(serviceName string) {
	b := banner.New().
		SetStyle(banner.StyleDouble).
		SetBorderColor(banner.ColorPurple).
		SetTextColor(banner.ColorWhite).
		SetBold(true).
		SetWidth(42)

	b.PrintTopLine()
	b.PrintCenteredText("SHUTTING DOWN")
	b.PrintCenteredText(serviceName)
	b.PrintBottomLine()
	fmt.Println()
}
