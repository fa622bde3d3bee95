package services

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/thebell/bellstaff-backend/internal/database"
	"github.com/thebell/bellstaff-backend/internal/models"
)

// StreamEvent is one server-sent event delivered to dashboard clients
type StreamEvent struct {
	Type    string      `json:"type"` // task_change, bellman_change, connection
	Payload interface{} `json:"payload"`
}

// SyncService keeps per-hotel task views converged and fans changes out
// to stream subscribers. It merges two independent inputs: the change
// feed (fast, lossy) and the reconciliation poll (slow, authoritative).
// Losing either input degrades latency, never correctness.
type SyncService struct {
	tasks    *database.TaskRepository
	listener *database.ChangeListener
	logger   *logrus.Logger

	pollInterval time.Duration
	cron         *cron.Cron

	mu          sync.RWMutex
	views       map[uuid.UUID]*TaskView
	subscribers map[uuid.UUID]map[int]chan StreamEvent
	nextSubID   int

	done chan struct{}
}

// NewSyncService creates a SyncService over an open change listener
func NewSyncService(
	tasks *database.TaskRepository,
	listener *database.ChangeListener,
	pollInterval time.Duration,
	logger *logrus.Logger,
) *SyncService {
	return &SyncService{
		tasks:        tasks,
		listener:     listener,
		logger:       logger,
		pollInterval: pollInterval,
		cron:         cron.New(),
		views:        make(map[uuid.UUID]*TaskView),
		subscribers:  make(map[uuid.UUID]map[int]chan StreamEvent),
		done:         make(chan struct{}),
	}
}

// Start begins feed consumption and schedules the reconciliation poll
func (s *SyncService) Start() error {
	spec := fmt.Sprintf("@every %s", s.pollInterval)
	if _, err := s.cron.AddFunc(spec, s.reconcileAll); err != nil {
		return fmt.Errorf("failed to schedule reconciliation poll: %w", err)
	}
	s.cron.Start()

	go s.consume()

	s.logger.WithField("poll_interval", s.pollInterval.String()).Info("Sync service started")
	return nil
}

// Stop halts the poll and the feed consumer
func (s *SyncService) Stop() {
	close(s.done)
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Sync service stopped")
}

// Connected reports whether the live change feed is up
func (s *SyncService) Connected() bool {
	return s.listener.Connected()
}

// View returns the task view for a hotel, seeding it on first use
func (s *SyncService) View(hotelID uuid.UUID) (*TaskView, error) {
	s.mu.RLock()
	view, ok := s.views[hotelID]
	s.mu.RUnlock()
	if ok {
		return view, nil
	}

	snapshot, err := s.tasks.Snapshot(hotelID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if view, ok := s.views[hotelID]; ok {
		return view, nil
	}
	view = NewTaskView()
	view.Seed(snapshot)
	s.views[hotelID] = view
	return view, nil
}

// Subscribe registers a stream consumer for one hotel. The returned
// cancel function must be called when the consumer goes away.
func (s *SyncService) Subscribe(hotelID uuid.UUID) (<-chan StreamEvent, func()) {
	ch := make(chan StreamEvent, 64)

	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	if s.subscribers[hotelID] == nil {
		s.subscribers[hotelID] = make(map[int]chan StreamEvent)
	}
	s.subscribers[hotelID][id] = ch
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if subs, ok := s.subscribers[hotelID]; ok {
			delete(subs, id)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *SyncService) consume() {
	for {
		select {
		case <-s.done:
			return
		case event, ok := <-s.listener.Events():
			if !ok {
				return
			}
			s.handleEvent(event)
		case <-s.listener.Reconnected():
			// Events may have been lost while disconnected; converge now
			// instead of waiting out the poll interval.
			s.logger.Info("Change feed reconnected, reconciling")
			s.reconcileAll()
		}
	}
}

func (s *SyncService) handleEvent(event database.ChangeEvent) {
	switch event.Channel {
	case database.ChannelTaskChanges:
		s.handleTaskEvent(event)
	case database.ChannelBellmanChanges:
		s.handleBellmanEvent(event)
	}
}

func (s *SyncService) handleTaskEvent(event database.ChangeEvent) {
	var task models.Task
	if err := json.Unmarshal(event.Row, &task); err != nil {
		s.logger.WithError(err).Warn("Dropping undecodable task change")
		return
	}

	s.mu.RLock()
	view, ok := s.views[task.HotelID]
	s.mu.RUnlock()
	if !ok {
		// Nobody is watching this hotel yet; the view seeds on demand
		return
	}

	if change := view.Apply(event.Op, task); change != nil {
		s.publish(task.HotelID, StreamEvent{Type: "task_change", Payload: change})
	}
}

func (s *SyncService) handleBellmanEvent(event database.ChangeEvent) {
	var bellman models.Bellman
	if err := json.Unmarshal(event.Row, &bellman); err != nil {
		s.logger.WithError(err).Warn("Dropping undecodable bellman change")
		return
	}
	s.publish(bellman.HotelID, StreamEvent{Type: "bellman_change", Payload: bellman})
}

// reconcileAll polls the authoritative snapshot for every watched hotel
// and publishes real differences. Poll failures are logged and retried
// on the next tick; they never touch the feed.
func (s *SyncService) reconcileAll() {
	s.mu.RLock()
	hotels := make([]uuid.UUID, 0, len(s.views))
	for hotelID := range s.views {
		hotels = append(hotels, hotelID)
	}
	s.mu.RUnlock()

	for _, hotelID := range hotels {
		if err := s.reconcile(hotelID); err != nil {
			s.logger.WithError(err).WithField("hotel_id", hotelID).Warn("Reconciliation poll failed")
		}
	}
}

func (s *SyncService) reconcile(hotelID uuid.UUID) error {
	snapshot, err := s.tasks.Snapshot(hotelID)
	if err != nil {
		return err
	}

	s.mu.RLock()
	view, ok := s.views[hotelID]
	s.mu.RUnlock()
	if !ok {
		return nil
	}

	for _, change := range view.Reconcile(snapshot) {
		change := change
		s.publish(hotelID, StreamEvent{Type: "task_change", Payload: &change})
	}
	return nil
}

func (s *SyncService) publish(hotelID uuid.UUID, event StreamEvent) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, ch := range s.subscribers[hotelID] {
		select {
		case ch <- event:
		default:
			// Slow consumer; it will catch up from its own reconcile
		}
	}
}
