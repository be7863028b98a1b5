package prescription

import "context"

type Repository interface {
	Create(ctx context.Context, p *Prescription) error
	HistoryByPatient(ctx context.Context, patientID string, limit, offset int) ([]*HistoryEntry, int, error)
	DiagnosesByPatient(ctx context.Context, patientID string, limit, offset int) ([]*DiagnosisEntry, int, error)
}
