package models

import "encoding/json"

// ============================================================
// Stored layout
// ============================================================

type StoredLayout struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Rooms     int             `json:"rooms"`
	Data      json.RawMessage `json:"data,omitempty"`
	CreatedAt string          `json:"created_at"`
	UpdatedAt string          `json:"updated_at"`
}
