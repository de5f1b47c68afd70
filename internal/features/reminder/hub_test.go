package reminder

import (
	"errors"
	"sync"
	"testing"
	"time"

	common_models "go-worklog/internal/common/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeConn struct {
	mu      sync.Mutex
	written []Event
	closed  chan struct{}
	once    sync.Once
	block   chan struct{} // when set, writes wait on it
}

func newFakeConn() *fakeConn {
	return &fakeConn{closed: make(chan struct{})}
}

func (c *fakeConn) ReadMessage() (int, []byte, error) {
	<-c.closed
	return 0, nil, errors.New("closed")
}

func (c *fakeConn) WriteJSON(v interface{}) error {
	if c.block != nil {
		<-c.block
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.written = append(c.written, v.(Event))
	return nil
}

func (c *fakeConn) SetWriteDeadline(t time.Time) error { return nil }

func (c *fakeConn) Close() error {
	c.once.Do(func() { close(c.closed) })
	return nil
}

func (c *fakeConn) events() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Event(nil), c.written...)
}

func serve(t *testing.T, h *Hub, viewer Viewer) (*fakeConn, chan struct{}) {
	return serveConn(h, newFakeConn(), viewer)
}

func serveConn(h *Hub, conn *fakeConn, viewer Viewer) (*fakeConn, chan struct{}) {
	done := make(chan struct{})
	go func() {
		h.Serve(conn, viewer)
		close(done)
	}()
	return conn, done
}

func TestHub_PublishRespectsVisibility(t *testing.T) {
	h := NewHub(zap.NewNop())
	h.Now = func() time.Time { return now }

	sales, salesDone := serve(t, h, Viewer{ID: "e1", Role: common_models.RoleEmployee, Department: "Sales"})
	hr, hrDone := serve(t, h, Viewer{ID: "e2", Role: common_models.RoleEmployee, Department: "HR"})
	sender, senderDone := serve(t, h, Viewer{ID: "s1", Role: common_models.RoleSuperAdmin})

	require.Eventually(t, func() bool { return h.Clients() == 3 }, time.Second, 5*time.Millisecond)

	h.Publish(msg("to sales", "Sales", "s1", 0))
	h.Publish(msg("to everyone", "all", "a9", 0))

	require.Eventually(t, func() bool {
		return len(sales.events()) == 2 && len(hr.events()) == 1 && len(sender.events()) == 2
	}, time.Second, 5*time.Millisecond)
	require.Len(t, hr.events(), 1)
	assert.Equal(t, "to everyone", hr.events()[0].Reminder.Content)
	assert.Equal(t, "reminder", hr.events()[0].Type)
	assert.Len(t, sender.events(), 2, "sender sees own message and the all-hands one")

	for _, c := range []*fakeConn{sales, hr, sender} {
		c.Close()
	}
	for _, d := range []chan struct{}{salesDone, hrDone, senderDone} {
		<-d
	}
	assert.Equal(t, 0, h.Clients())
}

func TestHub_SkipsExpired(t *testing.T) {
	h := NewHub(zap.NewNop())
	h.Now = func() time.Time { return now }

	conn, done := serve(t, h, Viewer{ID: "e1", Department: "Sales"})
	require.Eventually(t, func() bool { return h.Clients() == 1 }, time.Second, 5*time.Millisecond)

	r := msg("stale", "Sales", "a1", -time.Hour)
	r.Duration = DurationTemporary
	r.ExpiresAt = at(-time.Second)
	h.Publish(r)

	assert.Empty(t, conn.events())
	conn.Close()
	<-done
}

func TestHub_StalledSubscriberDoesNotBlockPublish(t *testing.T) {
	h := NewHub(zap.NewNop())
	h.Now = func() time.Time { return now }

	stalled := newFakeConn()
	stalled.block = make(chan struct{})
	_, stalledDone := serveConn(h, stalled, Viewer{ID: "e1", Role: common_models.RoleEmployee, Department: "Sales"})
	healthy, healthyDone := serve(t, h, Viewer{ID: "e2", Role: common_models.RoleEmployee, Department: "Sales"})
	require.Eventually(t, func() bool { return h.Clients() == 2 }, time.Second, 5*time.Millisecond)

	published := make(chan struct{})
	go func() {
		for i := 0; i < sendQueueSize+5; i++ {
			h.Publish(msg("standup", "Sales", "a1", 0))
		}
		close(published)
	}()

	select {
	case <-published:
	case <-time.After(time.Second):
		t.Fatal("Publish waited on a stalled socket")
	}
	require.Eventually(t, func() bool { return len(healthy.events()) > 0 }, time.Second, 5*time.Millisecond)

	close(stalled.block)
	stalled.Close()
	healthy.Close()
	<-stalledDone
	<-healthyDone
	assert.Equal(t, 0, h.Clients())
}
