// Package isolation tracks which tenants are administratively blocked from
// serving traffic while their data integrity is in question.
package isolation

import (
	"log/slog"
	"sync"
	"time"
)

// Record holds why and when a tenant was isolated.
// A tenant with no record is fully operational.
type Record struct {
	TenantID   string
	Reason     string
	IsolatedAt time.Time
}

// Registry is the process-wide registry of isolated tenants.
//
// Construct one at startup and inject it wherever needed; there is no module
// singleton. All reads and writes go through one mutex held only for the map
// operation itself - never across I/O - so one tenant's recovery never
// serializes another tenant's lookups.
//
// The registry records isolation state; it does not enforce refusal. Every
// boundary that grants tenant-data access must check IsIsolated first and
// refuse service while it returns true.
type Registry struct {
	mu      sync.Mutex
	records map[string]Record
	logger  *slog.Logger
}

// NewRegistry creates an empty isolation registry.
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		records: make(map[string]Record),
		logger:  logger,
	}
}

// Isolate inserts or overwrites the tenant's isolation record.
func (r *Registry) Isolate(tenantID, reason string) {
	record := Record{
		TenantID:   tenantID,
		Reason:     reason,
		IsolatedAt: time.Now().UTC(),
	}

	r.mu.Lock()
	r.records[tenantID] = record
	r.mu.Unlock()

	r.logger.Warn("tenant isolated",
		slog.String("tenant_id", tenantID),
		slog.String("reason", reason),
	)
}

// Release removes the tenant's isolation record; no-op if not isolated.
func (r *Registry) Release(tenantID string) {
	r.mu.Lock()
	_, present := r.records[tenantID]
	delete(r.records, tenantID)
	r.mu.Unlock()

	if present {
		r.logger.Info("tenant isolation released", slog.String("tenant_id", tenantID))
	}
}

// IsIsolated reports whether the tenant is currently isolated.
func (r *Registry) IsIsolated(tenantID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.records[tenantID]
	return ok
}

// ReasonFor returns the isolation reason, or false if the tenant is not isolated.
func (r *Registry) ReasonFor(tenantID string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	record, ok := r.records[tenantID]
	if !ok {
		return "", false
	}
	return record.Reason, true
}

// ListIsolated returns a snapshot of all isolation records keyed by tenant ID.
func (r *Registry) ListIsolated() map[string]Record {
	r.mu.Lock()
	defer r.mu.Unlock()

	snapshot := make(map[string]Record, len(r.records))
	for id, record := range r.records {
		snapshot[id] = record
	}
	return snapshot
}

// Reset clears all records. Intended for tests and operator tooling; releases
// every tenant at once.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = make(map[string]Record)
}
