// FilePath: cmd/main.go
package main

import (
	"fmt"
	"log"
	"os"

	tm "github.com/buger/goterm"
	"github.com/itsatony/pumpguard/internal/config"
	"github.com/itsatony/pumpguard/internal/server"
	nuts "github.com/vaudience/go-nuts"
)

// @title PumpGuard API
// @version 1.0
// @description Predictive maintenance dashboard backend for centrifugal pumps.
// @BasePath /v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Clear console and draw logo
	ClearConsole()
	DrawLogo()
	// Initialize version info
	nuts.InitVersion()
	nuts.L.Infof("[Main] Starting PumpGuard Hub v%s", nuts.GetVersion())

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Create and start server
	srv := server.New(cfg)
	if err := srv.Start(); err != nil {
		nuts.L.Errorf("[Main] Server error: %v", err)
		os.Exit(1)
	}
}

// ClearConsole clears the console screen and draws the logo.
func ClearConsole() {
	tm.Clear()
	tm.MoveCursor(1, 1)
	tm.Flush()
}

func DrawLogo() {
	fmt.Println()
	lines := []string{
		"    ____                        ______                     __",
		"   / __ \\__  ______ ___  ____  / ____/_  ______ __________/ /",
		"  / /_/ / / / / __ `__ \\/ __ \\/ / __/ / / / __ `/ ___/ __  / ",
		" / ____/ /_/ / / / / / / /_/ / /_/ / /_/ / /_/ / /  / /_/ /  ",
		"/_/    \\__,_/_/ /_/ /_/ .___/\\____/\\__,_/\\__,_/_/   \\__,_/   ",
		"                     /_/",
		"..............................................................  " + nuts.GetVersion(),
	}

	for _, line := range lines {
		fmt.Println(tm.Color(line, tm.CYAN))
	}
}
