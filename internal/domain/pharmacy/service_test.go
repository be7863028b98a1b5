package pharmacy

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/clinic/clinic/internal/platform/db"
	"github.com/clinic/clinic/internal/platform/fault"
	"github.com/clinic/clinic/internal/platform/sequence"
)

type mockMedicineRepo struct {
	medicines  map[string]*Medicine
	createErrs []error
}

func newMockMedicineRepo() *mockMedicineRepo {
	return &mockMedicineRepo{medicines: make(map[string]*Medicine)}
}

func (m *mockMedicineRepo) Create(ctx context.Context, med *Medicine) error {
	if len(m.createErrs) > 0 {
		err := m.createErrs[0]
		m.createErrs = m.createErrs[1:]
		if err != nil {
			return err
		}
	}
	if _, exists := m.medicines[med.MedicineID]; exists {
		return &pgconn.PgError{Code: "23505"}
	}
	cp := *med
	m.medicines[med.MedicineID] = &cp
	return nil
}

func (m *mockMedicineRepo) List(ctx context.Context, limit, offset int) ([]*Medicine, int, error) {
	var items []*Medicine
	for _, med := range m.medicines {
		cp := *med
		items = append(items, &cp)
	}
	return items, len(items), nil
}

func (m *mockMedicineRepo) UpdateStock(ctx context.Context, medicineID string, stock int) (int64, error) {
	med, ok := m.medicines[medicineID]
	if !ok {
		return 0, nil
	}
	med.Stock = stock
	return 1, nil
}

func (m *mockMedicineRepo) Delete(ctx context.Context, medicineID string) (int64, error) {
	if _, ok := m.medicines[medicineID]; !ok {
		return 0, nil
	}
	delete(m.medicines, medicineID)
	return 1, nil
}

type mockOrderRepo struct {
	orders []*Order
}

func (m *mockOrderRepo) Create(ctx context.Context, o *Order) error {
	cp := *o
	m.orders = append(m.orders, &cp)
	return nil
}

func (m *mockOrderRepo) ListByPatient(ctx context.Context, patientID string, limit, offset int) ([]*Order, int, error) {
	var items []*Order
	for _, o := range m.orders {
		if o.PatientID == patientID {
			cp := *o
			items = append(items, &cp)
		}
	}
	return items, len(items), nil
}

type mockAllocator struct {
	repo *mockMedicineRepo
}

func (m *mockAllocator) Next(ctx context.Context, ns sequence.Namespace) (string, error) {
	max := 0
	prefix := ns.Prefix()
	for id := range m.repo.medicines {
		n, err := strconv.Atoi(strings.TrimPrefix(id, prefix))
		if err == nil && n > max {
			max = n
		}
	}
	return sequence.FormatID(ns, max+1), nil
}

func passthroughRunner(ctx context.Context, fn db.TxFunc) error {
	return fn(ctx)
}

func newTestService(medicines *mockMedicineRepo, orders *mockOrderRepo, at time.Time) *Service {
	svc := NewService(medicines, orders, &mockAllocator{repo: medicines}, passthroughRunner)
	svc.now = func() time.Time { return at }
	return svc
}

func TestAddMedicineAllocatesID(t *testing.T) {
	medicines := newMockMedicineRepo()
	svc := newTestService(medicines, &mockOrderRepo{}, time.Now())

	id, err := svc.AddMedicine(context.Background(), &AddMedicineRequest{
		Name: "Aspirin", Category: "Pain Relief", Stock: 50, Price: 10.99, ExpiryDate: "2027-12-31",
	})
	if err != nil {
		t.Fatalf("AddMedicine() error = %v", err)
	}
	if id != "M1" {
		t.Errorf("medicine id = %q, want M1", id)
	}
	if medicines.medicines["M1"] == nil {
		t.Fatal("medicine not persisted")
	}
}

func TestAddMedicineRetriesOnUniqueViolation(t *testing.T) {
	medicines := newMockMedicineRepo()
	medicines.createErrs = []error{&pgconn.PgError{Code: "23505"}}
	svc := newTestService(medicines, &mockOrderRepo{}, time.Now())

	id, err := svc.AddMedicine(context.Background(), &AddMedicineRequest{
		Name: "Aspirin", Stock: 50, Price: 10.99, ExpiryDate: "2027-12-31",
	})
	if err != nil {
		t.Fatalf("AddMedicine() error = %v, want retried success", err)
	}
	if medicines.medicines[id] == nil {
		t.Errorf("medicine %q not persisted after retry", id)
	}
}

func TestAddMedicineValidation(t *testing.T) {
	svc := newTestService(newMockMedicineRepo(), &mockOrderRepo{}, time.Now())

	if _, err := svc.AddMedicine(context.Background(), &AddMedicineRequest{Stock: 1, ExpiryDate: "2027-12-31"}); !fault.IsValidation(err) {
		t.Errorf("missing name error = %v, want validation fault", err)
	}
	if _, err := svc.AddMedicine(context.Background(), &AddMedicineRequest{Name: "Aspirin", ExpiryDate: "soon"}); !fault.IsValidation(err) {
		t.Errorf("bad expiry error = %v, want validation fault", err)
	}
}

func TestUpdateStock(t *testing.T) {
	medicines := newMockMedicineRepo()
	medicines.medicines["M1"] = &Medicine{MedicineID: "M1", Stock: 100}
	svc := newTestService(medicines, &mockOrderRepo{}, time.Now())

	if err := svc.UpdateStock(context.Background(), "M1", &UpdateStockRequest{Stock: 150}); err != nil {
		t.Fatalf("UpdateStock() error = %v", err)
	}
	if medicines.medicines["M1"].Stock != 150 {
		t.Errorf("stock = %d, want 150", medicines.medicines["M1"].Stock)
	}
}

func TestUpdateStockNotFound(t *testing.T) {
	svc := newTestService(newMockMedicineRepo(), &mockOrderRepo{}, time.Now())

	err := svc.UpdateStock(context.Background(), "M999", &UpdateStockRequest{Stock: 150})
	if !fault.IsNotFound(err) {
		t.Fatalf("UpdateStock() error = %v, want not-found fault", err)
	}
	var fe *fault.Error
	if errors.As(err, &fe) && fe.Msg != "Medicine not found" {
		t.Errorf("message = %q, want %q", fe.Msg, "Medicine not found")
	}
}

func TestDeleteMedicineNotFound(t *testing.T) {
	svc := newTestService(newMockMedicineRepo(), &mockOrderRepo{}, time.Now())

	if err := svc.DeleteMedicine(context.Background(), "M999"); !fault.IsNotFound(err) {
		t.Errorf("DeleteMedicine() error = %v, want not-found fault", err)
	}
}

func TestPlaceOrderStampsServerClock(t *testing.T) {
	orders := &mockOrderRepo{}
	at := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)
	svc := newTestService(newMockMedicineRepo(), orders, at)

	order, err := svc.PlaceOrder(context.Background(), &PlaceOrderRequest{
		PatientID: "P1", Cost: 50.99, Address: "123 Main St",
	})
	if err != nil {
		t.Fatalf("PlaceOrder() error = %v", err)
	}
	if !order.OrderedAt.Equal(at) {
		t.Errorf("ordered at = %v, want %v", order.OrderedAt, at)
	}
	if len(orders.orders) != 1 {
		t.Errorf("orders persisted = %d, want 1", len(orders.orders))
	}
}

func TestPlaceOrderValidation(t *testing.T) {
	svc := newTestService(newMockMedicineRepo(), &mockOrderRepo{}, time.Now())

	if _, err := svc.PlaceOrder(context.Background(), &PlaceOrderRequest{Address: "123 Main St"}); !fault.IsValidation(err) {
		t.Errorf("missing patient error = %v, want validation fault", err)
	}
	if _, err := svc.PlaceOrder(context.Background(), &PlaceOrderRequest{PatientID: "P1"}); !fault.IsValidation(err) {
		t.Errorf("missing address error = %v, want validation fault", err)
	}
}
