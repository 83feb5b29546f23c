package models

import "time"

// AuditAction constants represent actions to be logged.
const (
	AuditActionLogin             = "LOGIN"
	AuditActionLogout            = "LOGOUT"
	AuditActionGenerate          = "TIMETABLE_GENERATE"
	AuditActionClearResult       = "TIMETABLE_CLEAR"
	AuditActionConstraintsUpdate = "CONSTRAINTS_UPDATE"
	AuditActionExport            = "TIMETABLE_EXPORT"
	AuditActionRecordCreate      = "RECORD_CREATE"
	AuditActionRecordUpdate      = "RECORD_UPDATE"
	AuditActionRecordDelete      = "RECORD_DELETE"
)

// AuditLog represents an audit trail record.
type AuditLog struct {
	ID         string    `db:"id" json:"id"`
	UserID     *string   `db:"user_id" json:"user_id,omitempty"`
	Action     string    `db:"action" json:"action"`
	Resource   string    `db:"resource" json:"resource"`
	ResourceID *string   `db:"resource_id" json:"resource_id,omitempty"`
	Details    string    `db:"details" json:"details,omitempty"`
	IPAddress  string    `db:"ip_address" json:"ip_address"`
	UserAgent  string    `db:"user_agent" json:"user_agent"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// AuditFilter narrows audit listing.
type AuditFilter struct {
	Action   string
	Resource string
	Page     int
	PageSize int
}
