package lab

import (
	"time"

	"github.com/google/uuid"
)

// Test types accepted by the lab. The set is closed; any other value is
// rejected before a query runs.
const (
	TestTypeBlood    = "Blood Test"
	TestTypeDiabetic = "Diabetic Test"
	TestTypeGenetic  = "Genetic Test"
)

// ValidTestType reports whether s names a supported test type.
func ValidTestType(s string) bool {
	switch s {
	case TestTypeBlood, TestTypeDiabetic, TestTypeGenetic:
		return true
	}
	return false
}

// Report readiness. A report starts in-progress and flips to ready exactly
// once, when its typed result row is written.
const (
	ReadinessInProgress = "in-progress"
	ReadinessReady      = "ready"
)

// DateLayout is the wire format for test and result dates.
const DateLayout = "2006-01-02"

// LabTest maps to the labtest table. LabTestID is the display identifier
// (L1, L2, ...) allocated when the test is confirmed.
type LabTest struct {
	ID        uuid.UUID `db:"id" json:"id"`
	LabTestID string    `db:"labtest_id" json:"labtest_id"`
	PatientID string    `db:"patient_id" json:"patient_id"`
	TestType  string    `db:"test_type" json:"test_type"`
	Date      time.Time `db:"test_date" json:"test_date"`
	Time      string    `db:"test_time" json:"test_time"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// LabReport maps to the labreport table. It is created alongside its
// LabTest and carries the result linkage once a typed result is added.
type LabReport struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	LabReportID string     `db:"labreport_id" json:"labreport_id"`
	LabTestID   string     `db:"labtest_id" json:"labtest_id"`
	PatientID   string     `db:"patient_id" json:"patient_id"`
	TestType    string     `db:"test_type" json:"test_type"`
	Readiness   string     `db:"readiness" json:"readiness"`
	ResultID    *string    `db:"result_id" json:"result_id,omitempty"`
	ResultDate  *time.Time `db:"result_date" json:"result_date,omitempty"`
	LabStaffID  *string    `db:"labstaff_id" json:"labstaff_id,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
}

// ConfirmRequest carries the fields of a test confirmation. Both display
// identifiers are allocated by the workflow, never client-supplied.
type ConfirmRequest struct {
	PatientID string `json:"patient_id"`
	TestType  string `json:"test_type"`
	Date      string `json:"date"`
	Time      string `json:"time"`
}

// RescheduleRequest replaces a test's date and time. Readiness of the
// linked report is unaffected.
type RescheduleRequest struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

// BloodResult maps to the blood_result table.
type BloodResult struct {
	ID             uuid.UUID `db:"id" json:"-"`
	ResultID       string    `db:"result_id" json:"resultId"`
	LabReportID    string    `db:"labreport_id" json:"-"`
	Gender         string    `db:"gender" json:"gender"`
	DOB            string    `db:"date_of_birth" json:"dob"`
	Age            int       `db:"age" json:"age"`
	BloodType      string    `db:"blood_type" json:"bloodType"`
	Hemoglobin     float64   `db:"hemoglobin" json:"hemoglobin"`
	PlateletsCount float64   `db:"platelets_count" json:"plateletsCount"`
}

// DiabeticResult maps to the diabetic_result table.
type DiabeticResult struct {
	ID                  uuid.UUID `db:"id" json:"-"`
	ResultID            string    `db:"result_id" json:"resultId"`
	LabReportID         string    `db:"labreport_id" json:"-"`
	Gender              string    `db:"gender" json:"gender"`
	DOB                 string    `db:"date_of_birth" json:"dob"`
	Age                 int       `db:"age" json:"age"`
	BloodType           string    `db:"blood_type" json:"bloodType"`
	HbA1c               float64   `db:"hba1c" json:"HbA1c"`
	EstimatedAvgGlucose float64   `db:"estimated_avg_glucose" json:"estimatedAvgGlucose"`
}

// GeneticResult maps to the genetic_result table.
type GeneticResult struct {
	ID                 uuid.UUID `db:"id" json:"-"`
	ResultID           string    `db:"result_id" json:"resultId"`
	LabReportID        string    `db:"labreport_id" json:"-"`
	Gender             string    `db:"gender" json:"gender"`
	DOB                string    `db:"date_of_birth" json:"dob"`
	Age                int       `db:"age" json:"age"`
	BloodType          string    `db:"blood_type" json:"bloodType"`
	Gene               string    `db:"gene" json:"gene"`
	DNADescription     string    `db:"dna_description" json:"DNADescription"`
	ProteinDescription string    `db:"protein_description" json:"ProteinDescription"`
}

// PatientTest is the patient-facing scheduled-test row.
type PatientTest struct {
	LabTestID string    `db:"labtest_id" json:"labtest_id"`
	TestType  string    `db:"test_type" json:"test_type"`
	Date      time.Time `db:"test_date" json:"test_date"`
	Time      string    `db:"test_time" json:"test_time"`
}

// PatientReport is the patient-facing report row, listed separately for
// ready and in-progress reports.
type PatientReport struct {
	LabReportID string     `db:"labreport_id" json:"labreport_id"`
	TestType    string     `db:"test_type" json:"test_type"`
	ResultDate  *time.Time `db:"result_date" json:"result_date,omitempty"`
}

// StaffReport is a row in a lab staff member's worklist.
type StaffReport struct {
	LabReportID string    `db:"labreport_id" json:"labreport_id"`
	PatientID   string    `db:"patient_id" json:"patient_id"`
	TestType    string    `db:"test_type" json:"test_type"`
	Date        time.Time `db:"test_date" json:"test_date"`
	Time        string    `db:"test_time" json:"test_time"`
}
