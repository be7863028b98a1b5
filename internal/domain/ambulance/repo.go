package ambulance

import "context"

type Repository interface {
	Create(ctx context.Context, c *Call) error
	ListByPatient(ctx context.Context, patientID string, limit, offset int) ([]*Call, int, error)
}
