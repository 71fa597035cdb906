package model

import "time"

// Report is a saved report definition. The generated payload is not stored;
// only the parameters needed to regenerate it are.
type Report struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Type        string         `json:"type"`
	Parameters  map[string]any `json:"parameters"`
	Filters     map[string]any `json:"filters"`
	CreatedBy   string         `json:"created_by"`
	IsPublic    bool           `json:"is_public"`
	CreatedAt   time.Time      `json:"created_at"`
}
