package appointment

import (
	"context"
	"time"
)

// Repository persists appointments. Mutations keyed by display identifier
// return the number of matched rows so callers can distinguish not-found
// from storage failure.
type Repository interface {
	Create(ctx context.Context, a *Appointment) error
	UpdateStatus(ctx context.Context, appointmentID, status string) (int64, error)
	Reschedule(ctx context.Context, appointmentID string, date time.Time, timeOfDay string) (int64, error)
	Delete(ctx context.Context, appointmentID string) (int64, error)
	ListByPatient(ctx context.Context, patientID string, limit, offset int) ([]*PatientAppointment, int, error)
	ListByDoctor(ctx context.Context, doctorID string, limit, offset int) ([]*DoctorAppointment, int, error)
	PatientsByDoctor(ctx context.Context, doctorID string, limit, offset int) ([]*DoctorPatient, int, error)
}
