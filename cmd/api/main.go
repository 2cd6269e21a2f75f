// Command api runs the HTTP API process (§4.8, §6).
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/tom-bartk/tuicub-server/internal/auth"
	"github.com/tom-bartk/tuicub-server/internal/bus"
	"github.com/tom-bartk/tuicub-server/internal/config"
	"github.com/tom-bartk/tuicub-server/internal/dictionary"
	"github.com/tom-bartk/tuicub-server/internal/httpapi"
	"github.com/tom-bartk/tuicub-server/internal/logger"
	"github.com/tom-bartk/tuicub-server/internal/rng"
	"github.com/tom-bartk/tuicub-server/internal/store"
	"github.com/tom-bartk/tuicub-server/internal/validate"
	"go.uber.org/zap"
)

const (
	defaultHost = "0.0.0.0"
	defaultPort = 5000
)

func main() {
	host := flag.String("host", defaultHost, "address to listen on")
	port := flag.Int("port", defaultPort, "port to listen on")
	flag.Parse()

	if err := validate.Host(*host); err != nil {
		fmt.Fprintln(os.Stderr, "invalid --host:", err)
		flag.Usage()
		os.Exit(2)
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

	st := store.New()
	authSvc := auth.NewService(st, cfg.MessagesSecretHash, cfg.EventsSecretHash)
	dict := dictionary.NewService(dictionary.Build())
	busAddr := fmt.Sprintf("%s:%d", cfg.MessagesHost, cfg.MessagesPort)
	busClient := bus.NewClient(busAddr, cfg.MessagesSecretHash)
	defer busClient.Close()

	deps := &httpapi.Deps{
		Store: st,
		Auth:  authSvc,
		Dict:  dict,
		Bus:   busClient,
		RNG:   rng.New(time.Now().UnixNano()),
	}

	addr := fmt.Sprintf("%s:%d", *host, *port)
	logger.Get().Info("api_listening", zap.String("addr", addr))

	server := &http.Server{
		Addr:         addr,
		Handler:      httpapi.NewRouter(deps),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}
	if err := server.ListenAndServe(); err != nil {
		logger.Get().Fatal("api_server_failed", zap.Error(err))
	}
}
