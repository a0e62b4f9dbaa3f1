package dto

import "time"

type AuditLogResponse struct {
	ID       int64   `json:"id"`
	UserID   *string `json:"user_id"`
	Action   string  `json:"action"`
	Entity   string  `json:"entity,omitempty"`
	EntityID string  `json:"entity_id,omitempty"`
	// Changes carries old_value and new_value when the action recorded them.
	Changes   map[string]any `json:"changes,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}
