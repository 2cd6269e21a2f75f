package httpapi_test

import (
	"bytes"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tom-bartk/tuicub-server/internal/auth"
	"github.com/tom-bartk/tuicub-server/internal/bus"
	"github.com/tom-bartk/tuicub-server/internal/dictionary"
	"github.com/tom-bartk/tuicub-server/internal/httpapi"
	"github.com/tom-bartk/tuicub-server/internal/model"
	"github.com/tom-bartk/tuicub-server/internal/rng"
	"github.com/tom-bartk/tuicub-server/internal/store"
)

const (
	messagesSecretHash = "messages-secret-hash"
	eventsSecretHash   = "events-secret-hash"
)

// discardBus starts a local listener that accepts and silently drains
// any frames written to it, so handlers under test can publish events
// without a real events process running.
func discardBus(t *testing.T) *bus.Client {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go func() {
				buf := make([]byte, 4096)
				for {
					if _, err := conn.Read(buf); err != nil {
						return
					}
				}
			}()
		}
	}()

	return bus.NewClient(ln.Addr().String(), messagesSecretHash)
}

type testServer struct {
	handler http.Handler
	store   *store.Store
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	st := store.New()
	deps := &httpapi.Deps{
		Store: st,
		Auth:  auth.NewService(st, messagesSecretHash, eventsSecretHash),
		Dict:  dictionary.NewService(dictionary.Build()),
		Bus:   discardBus(t),
		RNG:   rng.New(1),
	}
	return &testServer{handler: httpapi.NewRouter(deps), store: st}
}

func (s *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

// createUser drives POST /users and returns the created user's id and
// bearer token.
func (s *testServer) createUser(t *testing.T, name string) (model.User, string) {
	t.Helper()
	body, err := json.Marshal(map[string]string{"name": name})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/users", bytes.NewReader(body))
	rec := s.do(req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var decoded struct {
		User struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"user"`
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))

	user, ok := s.store.UserByToken(decoded.Token)
	require.True(t, ok)
	return user, decoded.Token
}

func authedRequest(method, path, token string, body []byte) *http.Request {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}
