package repository

import (
	"sync"

	"github.com/noah-isme/coursereg-client/internal/models"
)

// CourseCatalog is the in-memory set of opened courses the client renders
// from. Records only enter through Load; ApplyDelta patches seat counts of
// records that are already present.
type CourseCatalog struct {
	mu      sync.RWMutex
	records map[int]models.CourseRecord
	order   []int
	loaded  bool
}

// NewCourseCatalog constructs an empty catalog.
func NewCourseCatalog() *CourseCatalog {
	return &CourseCatalog{records: make(map[int]models.CourseRecord)}
}

// Load replaces the catalog wholesale. A repeated id keeps its first position
// and the last record seen.
func (c *CourseCatalog) Load(records []models.CourseRecord) {
	next := make(map[int]models.CourseRecord, len(records))
	order := make([]int, 0, len(records))
	for _, record := range records {
		if _, seen := next[record.ID]; !seen {
			order = append(order, record.ID)
		}
		next[record.ID] = record.Clone()
	}

	c.mu.Lock()
	c.records = next
	c.order = order
	c.loaded = true
	c.mu.Unlock()
}

// ApplyDelta overwrites the seat count of an existing record. Unknown ids are
// ignored and reported with false.
func (c *CourseCatalog) ApplyDelta(id, count int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	record, ok := c.records[id]
	if !ok {
		return false
	}
	record.RegisteredNumber = count
	c.records[id] = record
	return true
}

// Snapshot returns copies of every record in load order.
func (c *CourseCatalog) Snapshot() []models.CourseRecord {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.CourseRecord, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.records[id].Clone())
	}
	return out
}

// Get returns a copy of a single record.
func (c *CourseCatalog) Get(id int) (models.CourseRecord, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	record, ok := c.records[id]
	if !ok {
		return models.CourseRecord{}, false
	}
	return record.Clone(), true
}

// IDsByCode returns every internal id carrying the human course code, in load
// order. Codes are expected to be unique but duplicates are all returned.
func (c *CourseCatalog) IDsByCode(code string) []int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var ids []int
	for _, id := range c.order {
		if c.records[id].CourseID == code {
			ids = append(ids, id)
		}
	}
	return ids
}

// Len returns the number of records.
func (c *CourseCatalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.order)
}

// Loaded reports whether Load has been called at least once.
func (c *CourseCatalog) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}
