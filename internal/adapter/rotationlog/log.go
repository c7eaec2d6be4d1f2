package rotationlog

import (
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/macshift/macshift/internal/domain"
)

// Log appends rotation events to a file, one human-readable line per
// event. Write failures are logged and swallowed: the scheduler must not
// stop over observability.
type Log struct {
	mu   sync.Mutex
	path string
}

func New(path string) *Log {
	return &Log{path: path}
}

// Record appends one event line.
func (l *Log) Record(event domain.RotationEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		log.Printf("open rotation log %s: %v", l.path, err)
		return
	}
	defer f.Close()
	if _, err := fmt.Fprintln(f, event.String()); err != nil {
		log.Printf("append rotation log %s: %v", l.path, err)
	}
}
