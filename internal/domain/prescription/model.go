package prescription

import (
	"time"

	"github.com/google/uuid"
)

// Prescription maps to the prescription table. Rows are append-only; the
// date comes from the server clock at creation.
type Prescription struct {
	ID        uuid.UUID `db:"id" json:"id"`
	PatientID string    `db:"patient_id" json:"patient_id"`
	DoctorID  string    `db:"doctor_id" json:"doctor_id"`
	Medicine  string    `db:"medicine" json:"medicine"`
	Dosage    string    `db:"dosage" json:"dosage"`
	Duration  string    `db:"duration" json:"duration"`
	Diagnosis string    `db:"diagnosis" json:"diagnosis"`
	Date      time.Time `db:"prescribed_at" json:"date"`
}

// CreateRequest carries a new prescription.
type CreateRequest struct {
	PatientID string `json:"patient_id"`
	DoctorID  string `json:"doctor_id"`
	Medicine  string `json:"medicine"`
	Dosage    string `json:"dosage"`
	Duration  string `json:"duration"`
	Diagnosis string `json:"diagnosis"`
}

// HistoryEntry is the patient-facing history row. Prescription is the
// rendered "medicine - dosage - duration" line.
type HistoryEntry struct {
	Date         time.Time `db:"prescribed_at" json:"date"`
	Diagnosis    string    `db:"diagnosis" json:"diagnosis"`
	Prescription string    `db:"prescription" json:"prescription"`
}

// DiagnosisEntry is a row in a patient's diagnosis listing.
type DiagnosisEntry struct {
	Date      time.Time `db:"prescribed_at" json:"date"`
	Diagnosis string    `db:"diagnosis" json:"diagnosis"`
	DoctorID  string    `db:"doctor_id" json:"doctor_id"`
}
