package ambulance

import (
	"context"
	"time"

	"github.com/clinic/clinic/internal/platform/db"
	"github.com/clinic/clinic/internal/platform/fault"
	"github.com/clinic/clinic/internal/platform/sequence"
)

type Service struct {
	calls Repository
	alloc sequence.Allocator
	run   db.Runner
	now   func() time.Time
}

func NewService(calls Repository, alloc sequence.Allocator, run db.Runner) *Service {
	return &Service{calls: calls, alloc: alloc, run: run, now: time.Now}
}

// Request dispatches an ambulance. The call time comes from the server
// clock. Allocation and insert share one transaction with a single retry
// on a concurrent ID collision.
func (s *Service) Request(ctx context.Context, req *RequestCall) (*Call, error) {
	if req.PatientID == "" {
		return nil, fault.Invalid("patient_id is required")
	}
	if req.Address == "" {
		return nil, fault.Invalid("address is required")
	}

	var call *Call
	dispatch := func(ctx context.Context) error {
		id, err := s.alloc.Next(ctx, sequence.Call)
		if err != nil {
			return err
		}
		call = &Call{
			CallID:    id,
			PatientID: req.PatientID,
			Address:   req.Address,
			CalledAt:  s.now(),
		}
		return s.calls.Create(ctx, call)
	}

	err := s.run(ctx, dispatch)
	if db.IsUniqueViolation(err) {
		err = s.run(ctx, dispatch)
	}
	if err != nil {
		return nil, fault.Storage(err)
	}
	return call, nil
}

func (s *Service) ListByPatient(ctx context.Context, patientID string, limit, offset int) ([]*Call, int, error) {
	items, total, err := s.calls.ListByPatient(ctx, patientID, limit, offset)
	if err != nil {
		return nil, 0, fault.Storage(err)
	}
	return items, total, nil
}
