package validationerrors

import "time"

// ValidationError represents a persisted validation error entry
type ValidationError struct {
	ID           int64     `json:"id"`
	TenantID     string    `json:"tenant_id"`
	ValidationID string    `json:"validation_id"`
	Check        string    `json:"check,omitempty"`
	Phase        string    `json:"phase,omitempty"` // trigger | retry | other
	Message      string    `json:"message"`
	DetailsJSON  string    `json:"details_json,omitempty"` // raw JSON string
	CreatedAt    time.Time `json:"created_at"`
}
