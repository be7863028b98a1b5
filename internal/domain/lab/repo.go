package lab

import (
	"context"
	"time"
)

// TestRepository persists lab tests. Mutations keyed by display identifier
// return the number of matched rows.
type TestRepository interface {
	Create(ctx context.Context, t *LabTest) error
	Reschedule(ctx context.Context, labTestID string, date time.Time, timeOfDay string) (int64, error)
	Delete(ctx context.Context, labTestID string) (int64, error)
	ListByPatient(ctx context.Context, patientID string, limit, offset int) ([]*PatientTest, int, error)
}

// ReportRepository persists lab reports and their readiness transitions.
type ReportRepository interface {
	Create(ctx context.Context, r *LabReport) error
	// MarkReady links a typed result to the report and flips readiness to
	// ready. Zero matched rows means the report does not exist.
	MarkReady(ctx context.Context, labReportID, resultID string, resultDate time.Time) (int64, error)
	ListReadyByPatient(ctx context.Context, patientID string) ([]*PatientReport, error)
	ListInProgressByPatient(ctx context.Context, patientID string) ([]*PatientReport, error)
	ListByStaff(ctx context.Context, labStaffID string, limit, offset int) ([]*StaffReport, int, error)
}

// ResultRepository persists the three typed result rows. Lookups return
// (nil, nil) when no row matches the report.
type ResultRepository interface {
	CreateBlood(ctx context.Context, r *BloodResult) error
	CreateDiabetic(ctx context.Context, r *DiabeticResult) error
	CreateGenetic(ctx context.Context, r *GeneticResult) error
	GetBlood(ctx context.Context, labReportID string) (*BloodResult, error)
	GetDiabetic(ctx context.Context, labReportID string) (*DiabeticResult, error)
	GetGenetic(ctx context.Context, labReportID string) (*GeneticResult, error)
}
