package models

import "time"

// AuditLog entries are append-only. UserID is nulled when the user is
// deleted so the trail survives user removal.
type AuditLog struct {
	ID        int64     `json:"id"`
	UserID    *int64    `json:"user_id"`
	Username  *string   `json:"username"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
	CreatedAt time.Time `json:"created_at"`
}
