package server

import (
	"time"
)

// AuditEntry records one intake request for the operational audit trail.
type AuditEntry struct {
	Timestamp    time.Time `json:"timestamp"`
	Method       string    `json:"method"`
	Path         string    `json:"path"`
	StatusCode   int       `json:"status_code"`
	Subject      string    `json:"subject,omitempty"`
	EDIReference string    `json:"edi_reference,omitempty"`
	DurationMS   int64     `json:"duration_ms"`
}
