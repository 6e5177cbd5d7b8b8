package events

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

type EventType string

const (
	ProcessSubmitted EventType = "process.submitted"
	ProcessAdvanced  EventType = "process.advanced"
	ProcessCompleted EventType = "process.completed"
)

// ProcessEvent is pushed to every department taking part in a process
type ProcessEvent struct {
	Type        EventType `json:"type"`
	ProcessID   string    `json:"processId"`
	WorkflowID  string    `json:"workflowId"`
	Step        int       `json:"step,omitempty"`
	Actor       string    `json:"actor"`
	Departments []string  `json:"departments"`
	At          time.Time `json:"at"`
}

type Publisher interface {
	Publish(evt ProcessEvent)
}

// Hub fans process events out to subscribers by department
type Hub struct {
	mu     sync.RWMutex
	subs   map[string]map[*Subscription]struct{}
	logger *zap.Logger
}

type Subscription struct {
	Department string
	C          chan ProcessEvent
	hub        *Hub
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		subs:   make(map[string]map[*Subscription]struct{}),
		logger: logger,
	}
}

func (h *Hub) Subscribe(department string, buffer int) *Subscription {
	sub := &Subscription{
		Department: department,
		C:          make(chan ProcessEvent, buffer),
		hub:        h,
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs[department] == nil {
		h.subs[department] = make(map[*Subscription]struct{})
	}
	h.subs[department][sub] = struct{}{}
	return sub
}

// Close detaches the subscription and closes its channel
func (s *Subscription) Close() {
	h := s.hub
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.subs[s.Department]
	if !ok {
		return
	}
	if _, ok := set[s]; !ok {
		return
	}
	delete(set, s)
	if len(set) == 0 {
		delete(h.subs, s.Department)
	}
	close(s.C)
}

// Publish never blocks; a slow subscriber misses the event
func (h *Hub) Publish(evt ProcessEvent) {
	if evt.At.IsZero() {
		evt.At = time.Now().UTC()
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := make(map[*Subscription]bool)
	for _, dept := range evt.Departments {
		for sub := range h.subs[dept] {
			if delivered[sub] {
				continue
			}
			delivered[sub] = true
			select {
			case sub.C <- evt:
			default:
				h.logger.Warn("Dropping process event for slow subscriber",
					zap.String("department", dept),
					zap.String("processId", evt.ProcessID),
				)
			}
		}
	}
}

func (h *Hub) Subscribers(department string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[department])
}
