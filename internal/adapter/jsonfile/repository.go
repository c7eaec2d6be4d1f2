package jsonfile

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/macshift/macshift/internal/domain"
)

// Repository persists the schedule config as a JSON file. Save writes to a
// temp file in the same directory and renames it over the target, so a
// concurrent Load never observes a half-written file.
type Repository struct {
	mu       sync.Mutex
	filePath string
}

func New(filePath string) *Repository {
	return &Repository{filePath: filePath}
}

// Load reads the persisted config merged over defaults: keys absent from
// the file keep their default values. Read or parse errors are logged and
// the all-defaults config is returned.
func (r *Repository) Load() domain.ScheduleConfig {
	r.mu.Lock()
	defer r.mu.Unlock()

	cfg := domain.DefaultScheduleConfig()
	data, err := os.ReadFile(r.filePath)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("read schedule config %s: %v, using defaults", r.filePath, err)
		}
		return cfg
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		log.Printf("parse schedule config %s: %v, using defaults", r.filePath, err)
		return domain.DefaultScheduleConfig()
	}
	return cfg
}

// Save overwrites the persisted config.
func (r *Repository) Save(cfg domain.ScheduleConfig) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	dir := filepath.Dir(r.filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".schedule-*.json")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return os.Rename(tmpPath, r.filePath)
}
