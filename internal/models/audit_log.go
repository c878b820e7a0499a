package models

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// AuditLog represents one row of audit_logs
type AuditLog struct {
	ID         int64          `json:"id" db:"id"`
	AdminID    uuid.NullUUID  `json:"admin_id,omitempty" db:"admin_id"`
	Action     string         `json:"action" db:"action"`
	EntityType sql.NullString `json:"entity_type,omitempty" db:"entity_type"`
	EntityID   sql.NullString `json:"entity_id,omitempty" db:"entity_id"`
	IPAddress  sql.NullString `json:"ip_address,omitempty" db:"ip_address"`
	UserAgent  sql.NullString `json:"user_agent,omitempty" db:"user_agent"`
	Details    []byte         `json:"details,omitempty" db:"details"`
	CreatedAt  time.Time      `json:"created_at" db:"created_at"`
}
