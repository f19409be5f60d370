package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/ticketrik/ticketrik/internal/api"
	"github.com/ticketrik/ticketrik/internal/session"
	"github.com/ticketrik/ticketrik/internal/tui"
)

func main() {
	defaultServer := os.Getenv("TICKETRIK_SERVER")
	if defaultServer == "" {
		defaultServer = api.DefaultBaseURL
	}

	flags := pflag.NewFlagSet("ticketrik", pflag.ContinueOnError)
	server := flags.String("server", defaultServer, "base URL of the Ticketrik API")
	logOutput := flags.String("log-output", "", "write JSON log records to this file")
	if err := flags.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	// Nothing may log to the terminal while the TUI owns the alt
	// screen, so records go to a file or nowhere.
	logger, closeLog, err := newLogger(*logOutput)
	if err != nil {
		fmt.Fprintln(os.Stderr, "log:", err)
		os.Exit(1)
	}
	defer closeLog()

	client, err := api.NewClient(api.Config{BaseURL: *server, Logger: logger})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	store, err := session.NewStore()
	if err != nil {
		logger.Warn("session store unavailable", "error", err)
		store = nil
	}

	app := tui.New(client, store, logger)
	program := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "tui:", err)
		os.Exit(1)
	}
}

func newLogger(path string) (*slog.Logger, func(), error) {
	if path == "" {
		return slog.New(slog.NewJSONHandler(io.Discard, nil)), func() {}, nil
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	handler := slog.NewJSONHandler(file, &slog.HandlerOptions{Level: slog.LevelDebug})
	return slog.New(handler), func() { file.Close() }, nil
}
