package prescription

import (
	"context"
	"time"

	"github.com/clinic/clinic/internal/platform/fault"
)

type Service struct {
	prescriptions Repository
	now           func() time.Time
}

func NewService(prescriptions Repository) *Service {
	return &Service{prescriptions: prescriptions, now: time.Now}
}

// Create appends a prescription stamped with the server clock. Existing
// rows are never updated; a follow-up visit adds a new row.
func (s *Service) Create(ctx context.Context, req *CreateRequest) error {
	if req.PatientID == "" {
		return fault.Invalid("patient_id is required")
	}
	if req.Medicine == "" {
		return fault.Invalid("medicine is required")
	}
	if req.Dosage == "" || req.Duration == "" {
		return fault.Invalid("dosage and duration are required")
	}

	err := s.prescriptions.Create(ctx, &Prescription{
		PatientID: req.PatientID,
		DoctorID:  req.DoctorID,
		Medicine:  req.Medicine,
		Dosage:    req.Dosage,
		Duration:  req.Duration,
		Diagnosis: req.Diagnosis,
		Date:      s.now(),
	})
	if err != nil {
		return fault.Storage(err)
	}
	return nil
}

func (s *Service) History(ctx context.Context, patientID string, limit, offset int) ([]*HistoryEntry, int, error) {
	items, total, err := s.prescriptions.HistoryByPatient(ctx, patientID, limit, offset)
	if err != nil {
		return nil, 0, fault.Storage(err)
	}
	return items, total, nil
}

func (s *Service) Diagnoses(ctx context.Context, patientID string, limit, offset int) ([]*DiagnosisEntry, int, error) {
	items, total, err := s.prescriptions.DiagnosesByPatient(ctx, patientID, limit, offset)
	if err != nil {
		return nil, 0, fault.Storage(err)
	}
	return items, total, nil
}
