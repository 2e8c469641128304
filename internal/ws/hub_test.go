package ws_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/escolalib/biblio-api/internal/domain"
	"github.com/escolalib/biblio-api/internal/ws"
)

// newClient returns a client with a buffered send channel and no
// underlying connection; Publish never touches Conn.
func newClient(userID uuid.UUID, buffer int) *ws.Client {
	return &ws.Client{
		UserID: userID,
		Send:   make(chan []byte, buffer),
	}
}

func receive(t *testing.T, client *ws.Client) *domain.Notification {
	t.Helper()

	select {
	case payload, ok := <-client.Send:
		require.True(t, ok, "send channel closed")
		var n domain.Notification
		require.NoError(t, json.Unmarshal(payload, &n))
		return &n
	case <-time.After(time.Second):
		t.Fatal("no message received")
		return nil
	}
}

func overdueNotice(userID uuid.UUID) *domain.Notification {
	return domain.NewOverdueNotification(userID, uuid.New(), "Dom Casmurro",
		time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC))
}

func TestHubPublishTargeted(t *testing.T) {
	t.Parallel()

	hub := ws.NewHub(nil)

	ana := newClient(uuid.New(), 4)
	rui := newClient(uuid.New(), 4)
	hub.Register(ana)
	hub.Register(rui)

	hub.Publish(overdueNotice(ana.UserID))

	got := receive(t, ana)
	assert.Equal(t, "Loan Overdue", got.Title)

	select {
	case <-rui.Send:
		t.Fatal("notification delivered to the wrong user")
	default:
	}
}

func TestHubPublishBroadcast(t *testing.T) {
	t.Parallel()

	hub := ws.NewHub(nil)

	ana := newClient(uuid.New(), 4)
	rui := newClient(uuid.New(), 4)
	hub.Register(ana)
	hub.Register(rui)

	notice := overdueNotice(uuid.New())
	notice.UserID = nil
	hub.Publish(notice)

	assert.Equal(t, "Loan Overdue", receive(t, ana).Title)
	assert.Equal(t, "Loan Overdue", receive(t, rui).Title)
}

func TestHubPublishToDisconnectedUser(t *testing.T) {
	t.Parallel()

	hub := ws.NewHub(nil)

	// Nobody is connected; Publish is a no-op.
	hub.Publish(overdueNotice(uuid.New()))
}

func TestHubDropsSlowClient(t *testing.T) {
	t.Parallel()

	hub := ws.NewHub(nil)

	slow := newClient(uuid.New(), 1)
	hub.Register(slow)

	notice := overdueNotice(slow.UserID)
	hub.Publish(notice)
	// Buffer is full now; the next publish evicts the client.
	hub.Publish(notice)

	// Drain the buffered message; the channel must then be closed.
	<-slow.Send
	_, open := <-slow.Send
	assert.False(t, open, "slow client should have been dropped")

	// A fresh connection for the same user works again.
	replacement := newClient(slow.UserID, 4)
	hub.Register(replacement)
	hub.Publish(notice)
	assert.NotNil(t, receive(t, replacement))
}

func TestHubRegisterReplacesPreviousConnection(t *testing.T) {
	t.Parallel()

	hub := ws.NewHub(nil)
	userID := uuid.New()

	first := newClient(userID, 4)
	second := newClient(userID, 4)
	hub.Register(first)
	hub.Register(second)

	_, open := <-first.Send
	assert.False(t, open, "replaced connection should be closed")

	hub.Publish(overdueNotice(userID))
	assert.NotNil(t, receive(t, second))
}

func TestHubUnregisterIgnoresStaleClient(t *testing.T) {
	t.Parallel()

	hub := ws.NewHub(nil)
	userID := uuid.New()

	stale := newClient(userID, 4)
	active := newClient(userID, 4)
	hub.Register(stale)
	hub.Register(active)

	// The stale client's read loop exits and unregisters itself; the
	// active connection must survive.
	hub.Unregister(stale)

	hub.Publish(overdueNotice(userID))
	assert.NotNil(t, receive(t, active))
}
