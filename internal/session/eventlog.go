package session

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Event is one line of the event log.
type Event struct {
	Event     string                 `json:"event"`
	Timestamp time.Time              `json:"timestamp"`
	Detail    map[string]interface{} `json:"detail,omitempty"`
}

// EventLog appends JSON lines to a file. Nothing in the analysis path reads
// it back; it exists for operators.
type EventLog struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

// OpenEventLog prepares an event log at path, creating its directory.
func OpenEventLog(path string) (*EventLog, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create event log directory: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open event log: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, err
	}
	return &EventLog{path: path, now: time.Now}, nil
}

// Path returns the log file path.
func (l *EventLog) Path() string {
	return l.path
}

// Record appends one event.
func (l *EventLog) Record(event string, detail map[string]interface{}) error {
	line, err := json.Marshal(Event{Event: event, Timestamp: l.now().UTC(), Detail: detail})
	if err != nil {
		return fmt.Errorf("failed to encode event %s: %w", event, err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open event log: %w", err)
	}
	if _, err := f.Write(append(line, '\n')); err != nil {
		f.Close()
		return fmt.Errorf("failed to append event: %w", err)
	}
	return f.Close()
}

// Tail returns the last n events, oldest first. Lines that are not valid
// events are skipped.
func (l *EventLog) Tail(n int) ([]Event, error) {
	if n <= 0 {
		return nil, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	ring := make([]Event, 0, n)
	start := 0
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		var ev Event
		if err := json.Unmarshal(scanner.Bytes(), &ev); err != nil || ev.Event == "" {
			continue
		}
		if len(ring) < n {
			ring = append(ring, ev)
			continue
		}
		ring[start] = ev
		start = (start + 1) % n
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return append(ring[start:], ring[:start]...), nil
}
