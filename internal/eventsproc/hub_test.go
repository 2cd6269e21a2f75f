package eventsproc_test

import (
	"net"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tom-bartk/tuicub-server/internal/apperr"
	"github.com/tom-bartk/tuicub-server/internal/eventsproc"
)

type fakeAuthorizer struct {
	tokenToUser map[string]uuid.UUID
}

func (a *fakeAuthorizer) AuthorizeUser(token string) (uuid.UUID, error) {
	if id, ok := a.tokenToUser[token]; ok {
		return id, nil
	}
	return uuid.Nil, apperr.Unauthorized()
}

type fakeNotifier struct {
	mu        sync.Mutex
	notified  []uuid.UUID
	notifyCh  chan uuid.UUID
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{notifyCh: make(chan uuid.UUID, 8)}
}

func (n *fakeNotifier) NotifyDisconnect(userID uuid.UUID) {
	n.mu.Lock()
	n.notified = append(n.notified, userID)
	n.mu.Unlock()
	n.notifyCh <- userID
}

func dialPair(t *testing.T) (clientSide net.Conn, serverSide net.Conn) {
	t.Helper()
	clientSide, serverSide = net.Pipe()
	return
}

func TestHubBindsConnectionOnValidToken(t *testing.T) {
	client, server := dialPair(t)
	defer client.Close()

	userID := uuid.New()
	auth := &fakeAuthorizer{tokenToUser: map[string]uuid.UUID{"good-token": userID}}
	hub := eventsproc.NewHub(auth, newFakeNotifier())

	conn := eventsproc.NewConnection(server, hub)
	go hub.Accept(conn)

	_, err := client.Write([]byte(`{"token":"good-token"}` + "\n"))
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		got, ok := conn.UserID()
		return ok && got == userID
	}, time.Second, 10*time.Millisecond)
}

func TestHubClosesConnectionOnUnauthorizedToken(t *testing.T) {
	client, server := dialPair(t)
	defer client.Close()

	auth := &fakeAuthorizer{tokenToUser: map[string]uuid.UUID{}}
	hub := eventsproc.NewHub(auth, newFakeNotifier())

	conn := eventsproc.NewConnection(server, hub)
	go hub.Accept(conn)

	_, err := client.Write([]byte(`{"token":"bad-token"}` + "\n"))
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return conn.State() == eventsproc.StateLost
	}, time.Second, 10*time.Millisecond)
}

func TestHubNotifiesDisconnectOnlyWhenBound(t *testing.T) {
	client, server := dialPair(t)

	userID := uuid.New()
	auth := &fakeAuthorizer{tokenToUser: map[string]uuid.UUID{"good-token": userID}}
	notifier := newFakeNotifier()
	hub := eventsproc.NewHub(auth, notifier)

	conn := eventsproc.NewConnection(server, hub)
	go hub.Accept(conn)

	_, err := client.Write([]byte(`{"token":"good-token"}` + "\n"))
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		got, ok := conn.UserID()
		return ok && got == userID
	}, time.Second, 10*time.Millisecond)

	require.NoError(t, client.Close())

	select {
	case got := <-notifier.notifyCh:
		assert.Equal(t, userID, got)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for disconnect notification")
	}
}

func TestHubSecondConnectionForSameUserReplacesFirst(t *testing.T) {
	clientA, serverA := dialPair(t)
	defer clientA.Close()
	clientB, serverB := dialPair(t)
	defer clientB.Close()

	userID := uuid.New()
	auth := &fakeAuthorizer{tokenToUser: map[string]uuid.UUID{"good-token": userID}}
	hub := eventsproc.NewHub(auth, newFakeNotifier())

	connA := eventsproc.NewConnection(serverA, hub)
	go hub.Accept(connA)
	_, err := clientA.Write([]byte(`{"token":"good-token"}` + "\n"))
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		_, ok := connA.UserID()
		return ok
	}, time.Second, 10*time.Millisecond)

	connB := eventsproc.NewConnection(serverB, hub)
	go hub.Accept(connB)
	_, err = clientB.Write([]byte(`{"token":"good-token"}` + "\n"))
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		_, ok := connB.UserID()
		return ok
	}, time.Second, 10*time.Millisecond)

	require.Eventually(t, func() bool {
		return connA.State() == eventsproc.StateLost
	}, time.Second, 10*time.Millisecond)
}

func TestHubSendDeliversToBoundUserAndNoOpsForUnknown(t *testing.T) {
	client, server := dialPair(t)
	defer client.Close()

	userID := uuid.New()
	auth := &fakeAuthorizer{tokenToUser: map[string]uuid.UUID{"good-token": userID}}
	hub := eventsproc.NewHub(auth, newFakeNotifier())

	conn := eventsproc.NewConnection(server, hub)
	go hub.Accept(conn)

	_, err := client.Write([]byte(`{"token":"good-token"}` + "\n"))
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		_, ok := conn.UserID()
		return ok
	}, time.Second, 10*time.Millisecond)

	hub.Send(uuid.New(), []byte(`{"ignored":true}`))

	hub.Send(userID, []byte(`{"hello":"world"}`))

	buf := make([]byte, 256)
	client.SetReadDeadline(time.Now().Add(2 * time.Second))
	n, err := client.Read(buf)
	require.NoError(t, err)
	assert.Contains(t, string(buf[:n]), `"hello":"world"`)
}
