package appointment

import (
	"context"
	"time"

	"github.com/clinic/clinic/internal/platform/db"
	"github.com/clinic/clinic/internal/platform/fault"
	"github.com/clinic/clinic/internal/platform/sequence"
)

type Service struct {
	appts Repository
	alloc sequence.Allocator
	run   db.Runner
}

func NewService(appts Repository, alloc sequence.Allocator, run db.Runner) *Service {
	return &Service{appts: appts, alloc: alloc, run: run}
}

// Book allocates the next appointment identifier and persists the booking
// with status pending. Allocation and insert share one transaction; if a
// concurrent booking wins the derived ID, the unique constraint trips and
// the whole sequence is retried once with a fresh derivation.
func (s *Service) Book(ctx context.Context, req *BookRequest) (string, error) {
	if req.PatientID == "" {
		return "", fault.Invalid("patient_id is required")
	}
	if req.DoctorID == "" {
		return "", fault.Invalid("doctor_id is required")
	}
	if req.Date == "" || req.Time == "" {
		return "", fault.Invalid("Date and time are required")
	}
	date, err := time.Parse(DateLayout, req.Date)
	if err != nil {
		return "", fault.Invalid("invalid date: %s", req.Date)
	}

	var id string
	book := func(ctx context.Context) error {
		var err error
		id, err = s.alloc.Next(ctx, sequence.Appointment)
		if err != nil {
			return err
		}
		return s.appts.Create(ctx, &Appointment{
			AppointmentID: id,
			PatientID:     req.PatientID,
			DoctorID:      req.DoctorID,
			Date:          date,
			Time:          req.Time,
			RoomID:        req.RoomID,
			Status:        StatusPending,
		})
	}

	err = s.run(ctx, book)
	if db.IsUniqueViolation(err) {
		err = s.run(ctx, book)
	}
	if err != nil {
		return "", fault.Storage(err)
	}
	return id, nil
}

// Confirm moves an appointment to confirmed. Zero matched rows means the
// appointment does not exist or is cancelled.
func (s *Service) Confirm(ctx context.Context, appointmentID string) error {
	return s.transition(ctx, appointmentID, StatusConfirmed)
}

// Cancel moves an appointment to its terminal state.
func (s *Service) Cancel(ctx context.Context, appointmentID string) error {
	return s.transition(ctx, appointmentID, StatusCancelled)
}

func (s *Service) transition(ctx context.Context, appointmentID, status string) error {
	n, err := s.appts.UpdateStatus(ctx, appointmentID, status)
	if err != nil {
		return fault.Storage(err)
	}
	if n == 0 {
		return fault.NotFound("Appointment not found")
	}
	return nil
}

// Reschedule replaces the appointment's date and time. Both fields are
// required; validation happens before any storage call.
func (s *Service) Reschedule(ctx context.Context, appointmentID string, req *RescheduleRequest) error {
	if req.Date == "" || req.Time == "" {
		return fault.Invalid("Date and time are required")
	}
	date, err := time.Parse(DateLayout, req.Date)
	if err != nil {
		return fault.Invalid("invalid date: %s", req.Date)
	}

	n, err := s.appts.Reschedule(ctx, appointmentID, date, req.Time)
	if err != nil {
		return fault.Storage(err)
	}
	if n == 0 {
		return fault.NotFound("Appointment not found")
	}
	return nil
}

func (s *Service) Delete(ctx context.Context, appointmentID string) error {
	n, err := s.appts.Delete(ctx, appointmentID)
	if err != nil {
		return fault.Storage(err)
	}
	if n == 0 {
		return fault.NotFound("Appointment not found")
	}
	return nil
}

func (s *Service) ListByPatient(ctx context.Context, patientID string, limit, offset int) ([]*PatientAppointment, int, error) {
	items, total, err := s.appts.ListByPatient(ctx, patientID, limit, offset)
	if err != nil {
		return nil, 0, fault.Storage(err)
	}
	return items, total, nil
}

func (s *Service) ListByDoctor(ctx context.Context, doctorID string, limit, offset int) ([]*DoctorAppointment, int, error) {
	items, total, err := s.appts.ListByDoctor(ctx, doctorID, limit, offset)
	if err != nil {
		return nil, 0, fault.Storage(err)
	}
	return items, total, nil
}

func (s *Service) PatientsByDoctor(ctx context.Context, doctorID string, limit, offset int) ([]*DoctorPatient, int, error) {
	items, total, err := s.appts.PatientsByDoctor(ctx, doctorID, limit, offset)
	if err != nil {
		return nil, 0, fault.Storage(err)
	}
	return items, total, nil
}
