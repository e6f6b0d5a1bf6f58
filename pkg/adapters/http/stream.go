package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/aretw0/dyeflow/internal/logging"
	"github.com/aretw0/dyeflow/pkg/domain"
)

// Event kinds published on the stream.
const (
	EventChange   = "change"
	EventNavigate = "navigate"
)

type streamMessage struct {
	kind string
	data string
}

// StreamManager fans editor events out to active SSE connections.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[chan streamMessage]struct{}
	logger      *slog.Logger
}

func NewStreamManager() *StreamManager {
	return &StreamManager{
		subscribers: make(map[chan streamMessage]struct{}),
		logger:      logging.NewNop(),
	}
}

// Hooks returns editor callbacks that publish every change and navigation.
func (sm *StreamManager) Hooks() domain.Hooks {
	return domain.Hooks{
		OnChange: func(e *domain.ChangeEvent) {
			sm.publish(EventChange, e)
		},
		OnNavigate: func(e *domain.NavigationEvent) {
			sm.publish(EventNavigate, e)
		},
	}
}

func (sm *StreamManager) publish(kind string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		sm.logger.Error("StreamManager: encode failed", "error", err)
		return
	}
	sm.Broadcast(kind, string(data))
}

func (sm *StreamManager) Subscribe() (<-chan streamMessage, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan streamMessage, 10)
	sm.subscribers[ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if _, ok := sm.subscribers[ch]; ok {
			delete(sm.subscribers, ch)
			close(ch)
		}
	}
}

// Broadcast sends one event to every subscriber without blocking.
func (sm *StreamManager) Broadcast(kind, data string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers {
		select {
		case ch <- streamMessage{kind: kind, data: data}:
		default:
			// Drop message if channel is full (slow client)
			sm.logger.Warn("SSE: Client buffer full, dropping message", "event", kind)
		}
	}
}

// SubscribeEvents handles the GET /events request (SSE). The optional
// "watch" query parameter is a comma separated list of event kinds.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		s.writeError(w, http.StatusInternalServerError, fmt.Errorf("streaming not supported"))
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	watch := map[string]bool{}
	if q := r.URL.Query().Get("watch"); q != "" {
		for _, kind := range strings.Split(q, ",") {
			watch[strings.TrimSpace(kind)] = true
		}
	}

	ch, cancel := s.streams.Subscribe()
	defer cancel()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Debug("SSE client disconnected")
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if len(watch) > 0 && !watch[msg.kind] {
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", msg.kind, msg.data)
			flusher.Flush()
		}
	}
}
