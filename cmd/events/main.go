// Command events runs the events process (§4.10).
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/tom-bartk/tuicub-server/internal/auth"
	"github.com/tom-bartk/tuicub-server/internal/config"
	"github.com/tom-bartk/tuicub-server/internal/eventsproc"
	"github.com/tom-bartk/tuicub-server/internal/logger"
	"github.com/tom-bartk/tuicub-server/internal/validate"
	"go.uber.org/zap"
)

const (
	defaultEventsHost   = "0.0.0.0"
	defaultEventsPort   = 23432
	defaultMessagesHost = "0.0.0.0"
	defaultMessagesPort = 23433
	defaultAPIURL       = "https://api.tuicub.com"
)

func main() {
	eventsHost := flag.String("events-host", defaultEventsHost, "address the client-facing listener binds to")
	eventsPort := flag.Int("events-port", defaultEventsPort, "port the client-facing listener binds to")
	messagesHost := flag.String("messages-host", defaultMessagesHost, "address the bus listener binds to")
	messagesPort := flag.Int("messages-port", defaultMessagesPort, "port the bus listener binds to")
	apiURL := flag.String("api-url", defaultAPIURL, "base URL of the API process's disconnect callback")
	flag.Parse()

	for name, host := range map[string]string{"events-host": *eventsHost, "messages-host": *messagesHost} {
		if err := validate.Host(host); err != nil {
			fmt.Fprintf(os.Stderr, "invalid --%s: %v\n", name, err)
			flag.Usage()
			os.Exit(2)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		os.Exit(1)
	}

	if err := logger.Init(os.Getenv("LOG_LEVEL")); err != nil {
		fmt.Fprintln(os.Stderr, "init logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// The events process never touches the relational store directly
	// (§4.5); it resolves client connect-frame tokens from a local
	// registry mirrored over the bus by the API process instead
	// (bus.NameUserRegistered, see internal/eventsproc/registry.go).
	authSvc := auth.NewService(nil, cfg.MessagesSecretHash, cfg.EventsSecretHash)
	registry := eventsproc.NewTokenRegistry()

	apiClient := eventsproc.NewAPIClient(*apiURL, cfg.EventsSecretHash)
	hub := eventsproc.NewHub(registry, apiClient)

	server := eventsproc.NewServer(hub)
	busListener := eventsproc.NewBusListener(authSvc, hub, registry)

	errCh := make(chan error, 2)
	go func() {
		errCh <- server.ListenAndServe(fmt.Sprintf("%s:%d", *eventsHost, *eventsPort))
	}()
	go func() {
		errCh <- busListener.ListenAndServe(fmt.Sprintf("%s:%d", *messagesHost, *messagesPort))
	}()

	if err := <-errCh; err != nil {
		logger.Get().Fatal("events_process_failed", zap.Error(err))
	}
}
