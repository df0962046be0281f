package dto

import (
	"time"

	"github.com/MASITH-developpement/Azalscore-sub013/internal/integrity/domain"
	"github.com/MASITH-developpement/Azalscore-sub013/internal/isolation"
)

// IsolationRecordResponse describes one isolated tenant.
type IsolationRecordResponse struct {
	TenantID   string    `json:"tenant_id"`
	Reason     string    `json:"reason"`
	IsolatedAt time.Time `json:"isolated_at"`
}

// IsolationListResponse is the payload for listing isolated tenants.
// Count is the total number of isolated tenants, not the page size.
type IsolationListResponse struct {
	Isolated []IsolationRecordResponse `json:"isolated"`
	Count    int                       `json:"count"`
}

// NewIsolationListResponse builds the list payload from one page of a registry
// snapshot. The records are expected to already be ordered by tenant ID.
func NewIsolationListResponse(records []isolation.Record, total int) IsolationListResponse {
	response := IsolationListResponse{
		Isolated: make([]IsolationRecordResponse, 0, len(records)),
		Count:    total,
	}
	for _, record := range records {
		response.Isolated = append(response.Isolated, IsolationRecordResponse{
			TenantID:   record.TenantID,
			Reason:     record.Reason,
			IsolatedAt: record.IsolatedAt,
		})
	}
	return response
}

// CorruptionReportResponse mirrors a detected corruption event.
type CorruptionReportResponse struct {
	ID                string    `json:"id"`
	TenantID          string    `json:"tenant_id"`
	Kind              string    `json:"kind"`
	DetectedAt        time.Time `json:"detected_at"`
	AffectedTables    []string  `json:"affected_tables,omitempty"`
	AffectedRowsCount int       `json:"affected_rows_count"`
	Details           string    `json:"details"`
	Severity          string    `json:"severity"`
}

// NewCorruptionReportResponse converts a domain report to its HTTP representation.
func NewCorruptionReportResponse(report *domain.CorruptionReport) CorruptionReportResponse {
	return CorruptionReportResponse{
		ID:                report.ID.String(),
		TenantID:          report.TenantID,
		Kind:              string(report.Kind),
		DetectedAt:        report.DetectedAt,
		AffectedTables:    report.AffectedTables,
		AffectedRowsCount: report.AffectedRowsCount,
		Details:           report.Details,
		Severity:          string(report.Severity),
	}
}

// IntegrityCheckResponse is the payload for an on-demand tenant integrity check.
type IntegrityCheckResponse struct {
	TenantID string                     `json:"tenant_id"`
	Clean    bool                       `json:"clean"`
	Reports  []CorruptionReportResponse `json:"reports"`
}

// RecoveryReportResponse mirrors the outcome of one recovery attempt.
type RecoveryReportResponse struct {
	ID              string     `json:"id"`
	TenantID        string     `json:"tenant_id"`
	Status          string     `json:"status"`
	StartedAt       time.Time  `json:"started_at"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	BackupDate      *time.Time `json:"backup_date,omitempty"`
	TablesRecovered []string   `json:"tables_recovered,omitempty"`
	TablesFailed    []string   `json:"tables_failed,omitempty"`
	RowsRecovered   int        `json:"rows_recovered"`
	ErrorMessage    string     `json:"error_message,omitempty"`
}

// NewRecoveryReportResponse converts a domain recovery report to its HTTP representation.
func NewRecoveryReportResponse(report *domain.RecoveryReport) RecoveryReportResponse {
	response := RecoveryReportResponse{
		ID:              report.ID.String(),
		TenantID:        report.TenantID,
		Status:          string(report.Status),
		StartedAt:       report.StartedAt,
		TablesRecovered: report.TablesRecovered,
		TablesFailed:    report.TablesFailed,
		RowsRecovered:   report.RowsRecovered,
		ErrorMessage:    report.ErrorMessage,
	}
	if !report.CompletedAt.IsZero() {
		completed := report.CompletedAt
		response.CompletedAt = &completed
	}
	if !report.BackupDate.IsZero() {
		backupDate := report.BackupDate
		response.BackupDate = &backupDate
	}
	return response
}
