package eventsproc_test

import (
	"bufio"
	"encoding/json"
	"net"
	"strconv"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tom-bartk/tuicub-server/internal/apperr"
	"github.com/tom-bartk/tuicub-server/internal/bus"
	"github.com/tom-bartk/tuicub-server/internal/eventsproc"
)

type fakeMessageAuthorizer struct {
	validDigest string
}

func (a *fakeMessageAuthorizer) AuthorizeMessage(digest string) error {
	if digest == a.validDigest {
		return nil
	}
	return apperr.Unauthorized()
}

func writeFrame(t *testing.T, conn net.Conn, frame bus.Frame) {
	t.Helper()
	raw, err := json.Marshal(frame)
	require.NoError(t, err)
	_, err = conn.Write(append(raw, '\n'))
	require.NoError(t, err)
}

func TestBusListenerFansOutEventToBoundRecipient(t *testing.T) {
	addr := freeAddr(t)

	userID := uuid.New()
	authorizer := &fakeAuthorizer{tokenToUser: map[string]uuid.UUID{"good-token": userID}}
	hub := eventsproc.NewHub(authorizer, newFakeNotifier())
	registry := eventsproc.NewTokenRegistry()
	listener := eventsproc.NewBusListener(&fakeMessageAuthorizer{validDigest: "digest"}, hub, registry)

	go listener.ListenAndServe(addr)

	clientConn, server := net.Pipe()
	defer clientConn.Close()
	conn := eventsproc.NewConnection(server, hub)
	go hub.Accept(conn)
	_, err := clientConn.Write([]byte(`{"token":"good-token"}` + "\n"))
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		_, ok := conn.UserID()
		return ok
	}, time.Second, 10*time.Millisecond)

	var busConn net.Conn
	require.Eventually(t, func() bool {
		busConn, err = net.Dial("tcp", addr)
		return err == nil
	}, 2*time.Second, 20*time.Millisecond)
	defer busConn.Close()

	writeFrame(t, busConn, bus.Frame{
		Token: "digest",
		Message: bus.Message{
			Recipients: []uuid.UUID{userID},
			Event:      bus.EventPayload{Name: "user_joined", Data: map[string]any{"x": 1}},
		},
	})

	buf := make([]byte, 256)
	clientConn.SetReadDeadline(time.Now().Add(2 * time.Second))
	n, err := clientConn.Read(buf)
	require.NoError(t, err)
	assert.Contains(t, string(buf[:n]), "user_joined")
}

// TestBusListenerPreservesPerRecipientOrderAcrossFrames guards against
// fanning out frames for the same recipient as independent unordered
// goroutines: it fires many sequence-numbered frames back to back and
// requires the recipient to observe them in the exact order they arrived
// on the bus (§4.10).
func TestBusListenerPreservesPerRecipientOrderAcrossFrames(t *testing.T) {
	addr := freeAddr(t)

	userID := uuid.New()
	authorizer := &fakeAuthorizer{tokenToUser: map[string]uuid.UUID{"good-token": userID}}
	hub := eventsproc.NewHub(authorizer, newFakeNotifier())
	listener := eventsproc.NewBusListener(&fakeMessageAuthorizer{validDigest: "digest"}, hub, eventsproc.NewTokenRegistry())

	go listener.ListenAndServe(addr)

	clientConn, server := net.Pipe()
	defer clientConn.Close()
	conn := eventsproc.NewConnection(server, hub)
	go hub.Accept(conn)
	_, err := clientConn.Write([]byte(`{"token":"good-token"}` + "\n"))
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		_, ok := conn.UserID()
		return ok
	}, time.Second, 10*time.Millisecond)

	var busConn net.Conn
	require.Eventually(t, func() bool {
		busConn, err = net.Dial("tcp", addr)
		return err == nil
	}, 2*time.Second, 20*time.Millisecond)
	defer busConn.Close()

	const frameCount = 50
	for i := 0; i < frameCount; i++ {
		writeFrame(t, busConn, bus.Frame{
			Token: "digest",
			Message: bus.Message{
				Recipients: []uuid.UUID{userID},
				Event:      bus.EventPayload{Name: "seq", Data: map[string]any{"i": i}},
			},
		})
	}

	reader := bufio.NewReader(clientConn)
	for i := 0; i < frameCount; i++ {
		clientConn.SetReadDeadline(time.Now().Add(2 * time.Second))
		line, err := reader.ReadString('\n')
		require.NoError(t, err)

		var decoded struct {
			Data struct {
				I int `json:"i"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal([]byte(line), &decoded))
		require.Equal(t, i, decoded.Data.I, "frame "+strconv.Itoa(i)+" arrived out of order")
	}
}

func TestBusListenerIgnoresFrameWithBadDigest(t *testing.T) {
	addr := freeAddr(t)

	hub := eventsproc.NewHub(&fakeAuthorizer{tokenToUser: map[string]uuid.UUID{}}, newFakeNotifier())
	listener := eventsproc.NewBusListener(&fakeMessageAuthorizer{validDigest: "digest"}, hub, eventsproc.NewTokenRegistry())

	go listener.ListenAndServe(addr)

	var conn net.Conn
	var err error
	require.Eventually(t, func() bool {
		conn, err = net.Dial("tcp", addr)
		return err == nil
	}, 2*time.Second, 20*time.Millisecond)
	defer conn.Close()

	writeFrame(t, conn, bus.Frame{
		Token: "wrong-digest",
		Message: bus.Message{
			Recipients: []uuid.UUID{uuid.New()},
			Event:      bus.EventPayload{Name: "user_joined", Data: map[string]any{}},
		},
	})

	// The connection should stay open (frame silently dropped) rather
	// than the listener closing it or panicking.
	assert.NotPanics(t, func() {
		conn.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
		buf := make([]byte, 16)
		conn.Read(buf)
	})
}

func TestBusListenerRegistersUserOnControlFrame(t *testing.T) {
	addr := freeAddr(t)

	hub := eventsproc.NewHub(&fakeAuthorizer{tokenToUser: map[string]uuid.UUID{}}, newFakeNotifier())
	registry := eventsproc.NewTokenRegistry()
	listener := eventsproc.NewBusListener(&fakeMessageAuthorizer{validDigest: "digest"}, hub, registry)

	go listener.ListenAndServe(addr)

	var conn net.Conn
	var err error
	require.Eventually(t, func() bool {
		conn, err = net.Dial("tcp", addr)
		return err == nil
	}, 2*time.Second, 20*time.Millisecond)
	defer conn.Close()

	userID := uuid.New()
	writeFrame(t, conn, bus.Frame{
		Token: "digest",
		Message: bus.Message{
			Recipients: nil,
			Event:      bus.EventPayload{Name: bus.NameUserRegistered, Data: bus.UserRegisteredData{UserID: userID, Token: "mirrored-token"}},
		},
	})

	require.Eventually(t, func() bool {
		got, err := registry.AuthorizeUser("mirrored-token")
		return err == nil && got == userID
	}, time.Second, 10*time.Millisecond)
}
