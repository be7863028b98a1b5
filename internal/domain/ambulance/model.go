package ambulance

import (
	"time"

	"github.com/google/uuid"
)

// Call maps to the ambulance_call table. CallID is the display identifier
// (C1, C2, ...) allocated at dispatch; CalledAt is stamped from the server
// clock, never client-supplied.
type Call struct {
	ID        uuid.UUID `db:"id" json:"id"`
	CallID    string    `db:"call_id" json:"call_id"`
	PatientID string    `db:"patient_id" json:"patient_id"`
	Address   string    `db:"address" json:"address"`
	CalledAt  time.Time `db:"called_at" json:"called_at"`
}

// RequestCall carries a dispatch request.
type RequestCall struct {
	PatientID string `json:"patient_id"`
	Address   string `json:"address"`
}
