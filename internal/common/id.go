package common

import (
	"github.com/google/uuid"
)

// NewRunID generates a unique run ID used as the log correlation ID.
// Format: run_<uuid>
func NewRunID() string {
	return "run_" + uuid.New().String()
}
