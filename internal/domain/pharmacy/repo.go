package pharmacy

import "context"

// MedicineRepository persists the medicine inventory.
type MedicineRepository interface {
	Create(ctx context.Context, m *Medicine) error
	List(ctx context.Context, limit, offset int) ([]*Medicine, int, error)
	UpdateStock(ctx context.Context, medicineID string, stock int) (int64, error)
	Delete(ctx context.Context, medicineID string) (int64, error)
}

// OrderRepository persists pharmacy orders.
type OrderRepository interface {
	Create(ctx context.Context, o *Order) error
	ListByPatient(ctx context.Context, patientID string, limit, offset int) ([]*Order, int, error)
}
