package database

import (
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

// Channel names emitted by the change-feed triggers
const (
	ChannelTaskChanges    = "task_changes"
	ChannelBellmanChanges = "bellman_changes"
)

// ChangeEvent is one decoded NOTIFY payload. Row carries the full row as
// emitted by the trigger; consumers decode it into their own types.
type ChangeEvent struct {
	Channel string          `json:"channel"`
	Op      string          `json:"op"`
	Row     json.RawMessage `json:"row"`
}

// ChangeListener consumes the Postgres change feed. Delivery is
// at-least-once and drops events across reconnects; the Reconnected
// channel fires whenever the underlying connection is re-established so
// consumers can reconcile missed changes.
type ChangeListener struct {
	listener    *pq.Listener
	events      chan ChangeEvent
	reconnected chan struct{}
	done        chan struct{}
	connected   atomic.Bool
	logger      *logrus.Logger
}

// NewChangeListener opens a dedicated listen connection and subscribes to
// the task and bellman channels.
func NewChangeListener(dsn string, minBackoff, maxBackoff time.Duration, logger *logrus.Logger) (*ChangeListener, error) {
	cl := &ChangeListener{
		events:      make(chan ChangeEvent, 256),
		reconnected: make(chan struct{}, 1),
		done:        make(chan struct{}),
		logger:      logger,
	}

	cl.listener = pq.NewListener(dsn, minBackoff, maxBackoff, cl.onConnEvent)

	for _, channel := range []string{ChannelTaskChanges, ChannelBellmanChanges} {
		if err := cl.listener.Listen(channel); err != nil {
			cl.listener.Close()
			return nil, fmt.Errorf("failed to listen on %s: %w", channel, err)
		}
	}

	go cl.run()
	return cl, nil
}

// Events returns the decoded change stream
func (cl *ChangeListener) Events() <-chan ChangeEvent {
	return cl.events
}

// Reconnected fires after the listen connection is re-established.
// Events may have been lost before each signal.
func (cl *ChangeListener) Reconnected() <-chan struct{} {
	return cl.reconnected
}

// Connected reports whether the listen connection is currently up
func (cl *ChangeListener) Connected() bool {
	return cl.connected.Load()
}

// Close tears down the listen connection and stops the event loop
func (cl *ChangeListener) Close() error {
	close(cl.done)
	return cl.listener.Close()
}

func (cl *ChangeListener) onConnEvent(ev pq.ListenerEventType, err error) {
	switch ev {
	case pq.ListenerEventConnected, pq.ListenerEventReconnected:
		cl.connected.Store(true)
	case pq.ListenerEventDisconnected, pq.ListenerEventConnectionAttemptFailed:
		cl.connected.Store(false)
	}
	if err != nil {
		cl.logger.WithError(err).Warn("Change feed connection event")
	}
}

func (cl *ChangeListener) run() {
	for {
		select {
		case <-cl.done:
			return
		case n := <-cl.listener.Notify:
			if n == nil {
				// pq sends a nil notification after a reconnect
				cl.signalReconnect()
				continue
			}
			cl.dispatch(n)
		case <-time.After(90 * time.Second):
			go cl.listener.Ping()
		}
	}
}

func (cl *ChangeListener) dispatch(n *pq.Notification) {
	var payload struct {
		Op  string          `json:"op"`
		Row json.RawMessage `json:"row"`
	}
	if err := json.Unmarshal([]byte(n.Extra), &payload); err != nil {
		cl.logger.WithError(err).WithField("channel", n.Channel).Warn("Dropping malformed change event")
		return
	}

	event := ChangeEvent{Channel: n.Channel, Op: payload.Op, Row: payload.Row}
	select {
	case cl.events <- event:
	default:
		// Consumer is behind; the reconciliation poll covers the gap
		cl.logger.WithField("channel", n.Channel).Warn("Change event buffer full, dropping event")
	}
}

func (cl *ChangeListener) signalReconnect() {
	select {
	case cl.reconnected <- struct{}{}:
	default:
	}
}
