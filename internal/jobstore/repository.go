package jobstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// storageKey is the single blob under which the whole job board lives.
const storageKey = "highmark_job_db"

// ErrPersistence marks storage-layer write failures so callers can classify
// them against the engine's error taxonomy.
var ErrPersistence = errors.New("job store write failed")

// Repository is the authoritative job board. It loads the persisted blob on
// first access, seeding the built-in defaults when the key has never existed.
// Writes are last-write-wins; safe for same-process concurrent callers only.
type Repository struct {
	store BlobStore

	mu     sync.RWMutex
	loaded bool
	jobs   []JobPosting
}

func NewRepository(store BlobStore) *Repository {
	return &Repository{store: store}
}

// loadLocked populates the in-memory view from the store. A missing key seeds
// and persists the default set; a read failure falls back to the defaults in
// memory so an analysis can still run.
func (r *Repository) loadLocked(ctx context.Context) {
	if r.loaded {
		return
	}
	r.loaded = true

	raw, ok, err := r.store.Get(ctx, storageKey)
	if err != nil {
		log.Printf("job store read failed, using built-in defaults: %v", err)
		r.jobs = defaultJobs()
		return
	}
	if !ok {
		r.jobs = defaultJobs()
		if err := r.flushLocked(ctx); err != nil {
			log.Printf("failed to persist seeded job board: %v", err)
		}
		return
	}

	var jobs []JobPosting
	if err := json.Unmarshal(raw, &jobs); err != nil {
		log.Printf("job store blob is corrupt, using built-in defaults: %v", err)
		r.jobs = defaultJobs()
		return
	}
	r.jobs = jobs
}

func (r *Repository) flushLocked(ctx context.Context) error {
	raw, err := json.Marshal(r.jobs)
	if err != nil {
		return fmt.Errorf("marshal job board: %w", err)
	}
	if err := r.store.Set(ctx, storageKey, raw); err != nil {
		return fmt.Errorf("persist job board: %w: %w", ErrPersistence, err)
	}
	return nil
}

// ListAll returns a snapshot copy of the board. Callers hold the snapshot for
// the duration of one request; later writes do not affect it.
func (r *Repository) ListAll(ctx context.Context) []JobPosting {
	r.mu.Lock()
	r.loadLocked(ctx)
	jobs := make([]JobPosting, len(r.jobs))
	copy(jobs, r.jobs)
	r.mu.Unlock()
	return jobs
}

// ReplaceAll swaps the whole board.
func (r *Repository) ReplaceAll(ctx context.Context, jobs []JobPosting) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loadLocked(ctx)
	r.jobs = append([]JobPosting(nil), jobs...)
	return r.flushLocked(ctx)
}

// PrependBatch inserts the batch ahead of existing entries, newest-first.
// Duplicate identifiers are allowed to coexist; dedupe is the caller's job.
func (r *Repository) PrependBatch(ctx context.Context, jobs []JobPosting) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loadLocked(ctx)
	r.jobs = append(append([]JobPosting(nil), jobs...), r.jobs...)
	return r.flushLocked(ctx)
}

// Clear persists an explicit empty board. It does not delete the storage key:
// deleting would re-trigger seeding on the next read.
func (r *Repository) Clear(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loaded = true
	r.jobs = []JobPosting{}
	return r.flushLocked(ctx)
}

// importPlaceholder fills fields an import row left blank.
const importPlaceholder = "N/A"

// ImportBatch parses tab-separated rows of
// company, location, type, target, link, description and prepends them.
// Missing trailing fields default to placeholders, a row with an empty leading
// field is skipped, and every row gets a fresh identifier. Returns how many
// rows were imported.
func (r *Repository) ImportBatch(ctx context.Context, rows string) (int, error) {
	var batch []JobPosting
	today := time.Now().Format("2006-01-02")

	for _, line := range strings.Split(rows, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if strings.TrimSpace(fields[0]) == "" {
			continue
		}
		batch = append(batch, JobPosting{
			ID:          uuid.NewString(),
			Company:     strings.TrimSpace(fields[0]),
			Location:    fieldOr(fields, 1, importPlaceholder),
			Type:        fieldOr(fields, 2, importPlaceholder),
			Target:      fieldOr(fields, 3, importPlaceholder),
			UpdatedAt:   today,
			Link:        fieldOr(fields, 4, "#"),
			Description: fieldOr(fields, 5, ""),
		})
	}
	if len(batch) == 0 {
		return 0, nil
	}
	if err := r.PrependBatch(ctx, batch); err != nil {
		return 0, err
	}
	return len(batch), nil
}

func fieldOr(fields []string, i int, fallback string) string {
	if i >= len(fields) {
		return fallback
	}
	v := strings.TrimSpace(fields[i])
	if v == "" {
		return fallback
	}
	return v
}
