package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"threadhub/internal/tui"
	"threadhub/internal/tui/config"
	"threadhub/pkg/logger"
)

func main() {
	configPath := config.ResolvePath(os.Getenv("THREADHUB_TUI_CONFIG"))

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		fmt.Println("Using default configuration...")
		cfg = config.Default()
	}

	// Optional post id: threadhub-tui <post>
	if len(os.Args) > 1 && os.Args[1] != "" {
		cfg.Thread.PostID = os.Args[1]
	}

	// Anything written to the terminal would corrupt the UI
	output := "discard"
	if cfg.UI.LogFile != "" {
		output = cfg.UI.LogFile
	}
	logger.Init(logger.Config{Level: "debug", Output: output})

	app := tui.New(cfg, configPath)
	defer app.Close()

	opts := []tea.ProgramOption{tea.WithMouseCellMotion()}
	if cfg.UI.AltScreen {
		opts = append(opts, tea.WithAltScreen())
	}

	if _, err := tea.NewProgram(app, opts...).Run(); err != nil {
		fmt.Printf("Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
