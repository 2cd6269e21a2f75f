package eventsproc

import (
	"net"

	"github.com/tom-bartk/tuicub-server/internal/logger"
	"go.uber.org/zap"
)

// Server accepts client connections and hands each to the Hub, one
// ReadLoop goroutine per socket (§4.10).
type Server struct {
	hub *Hub
}

func NewServer(hub *Hub) *Server {
	return &Server{hub: hub}
}

// ListenAndServe blocks accepting connections on addr until listening
// fails.
func (s *Server) ListenAndServe(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	defer ln.Close()

	logger.Get().Info("events_server_listening", zap.String("addr", addr))

	for {
		conn, err := ln.Accept()
		if err != nil {
			logger.Get().Error("events_server_accept_failed", zap.Error(err))
			continue
		}
		c := NewConnection(conn, s.hub)
		go s.hub.Accept(c)
	}
}
