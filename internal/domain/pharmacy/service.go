package pharmacy

import (
	"context"
	"time"

	"github.com/clinic/clinic/internal/platform/db"
	"github.com/clinic/clinic/internal/platform/fault"
	"github.com/clinic/clinic/internal/platform/sequence"
)

type Service struct {
	medicines MedicineRepository
	orders    OrderRepository
	alloc     sequence.Allocator
	run       db.Runner
	now       func() time.Time
}

func NewService(medicines MedicineRepository, orders OrderRepository,
	alloc sequence.Allocator, run db.Runner) *Service {
	return &Service{
		medicines: medicines,
		orders:    orders,
		alloc:     alloc,
		run:       run,
		now:       time.Now,
	}
}

// AddMedicine allocates the next medicine identifier and persists the
// entry, retrying once if a concurrent add wins the derived ID.
func (s *Service) AddMedicine(ctx context.Context, req *AddMedicineRequest) (string, error) {
	if req.Name == "" {
		return "", fault.Invalid("name is required")
	}
	if req.Stock < 0 {
		return "", fault.Invalid("stock must not be negative")
	}
	expiry, err := time.Parse(DateLayout, req.ExpiryDate)
	if err != nil {
		return "", fault.Invalid("invalid expiry date: %s", req.ExpiryDate)
	}

	var id string
	add := func(ctx context.Context) error {
		var err error
		id, err = s.alloc.Next(ctx, sequence.Medicine)
		if err != nil {
			return err
		}
		return s.medicines.Create(ctx, &Medicine{
			MedicineID:  id,
			Name:        req.Name,
			Category:    req.Category,
			Description: req.Description,
			Stock:       req.Stock,
			Price:       req.Price,
			ExpiryDate:  expiry,
		})
	}

	err = s.run(ctx, add)
	if db.IsUniqueViolation(err) {
		err = s.run(ctx, add)
	}
	if err != nil {
		return "", fault.Storage(err)
	}
	return id, nil
}

func (s *Service) ListMedicines(ctx context.Context, limit, offset int) ([]*Medicine, int, error) {
	items, total, err := s.medicines.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, fault.Storage(err)
	}
	return items, total, nil
}

func (s *Service) UpdateStock(ctx context.Context, medicineID string, req *UpdateStockRequest) error {
	if req.Stock < 0 {
		return fault.Invalid("stock must not be negative")
	}
	n, err := s.medicines.UpdateStock(ctx, medicineID, req.Stock)
	if err != nil {
		return fault.Storage(err)
	}
	if n == 0 {
		return fault.NotFound("Medicine not found")
	}
	return nil
}

func (s *Service) DeleteMedicine(ctx context.Context, medicineID string) error {
	n, err := s.medicines.Delete(ctx, medicineID)
	if err != nil {
		return fault.Storage(err)
	}
	if n == 0 {
		return fault.NotFound("Medicine not found")
	}
	return nil
}

// PlaceOrder records a pharmacy order stamped with the server clock.
func (s *Service) PlaceOrder(ctx context.Context, req *PlaceOrderRequest) (*Order, error) {
	if req.PatientID == "" {
		return nil, fault.Invalid("patient_id is required")
	}
	if req.Address == "" {
		return nil, fault.Invalid("address is required")
	}

	order := &Order{
		PatientID: req.PatientID,
		Cost:      req.Cost,
		Address:   req.Address,
		OrderedAt: s.now(),
	}
	if err := s.orders.Create(ctx, order); err != nil {
		return nil, fault.Storage(err)
	}
	return order, nil
}

func (s *Service) OrdersByPatient(ctx context.Context, patientID string, limit, offset int) ([]*Order, int, error) {
	items, total, err := s.orders.ListByPatient(ctx, patientID, limit, offset)
	if err != nil {
		return nil, 0, fault.Storage(err)
	}
	return items, total, nil
}
