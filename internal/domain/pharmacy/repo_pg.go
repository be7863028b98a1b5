package pharmacy

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinic/clinic/internal/platform/db"
)

type medicineRepoPG struct{ pool *pgxpool.Pool }

func NewMedicineRepoPG(pool *pgxpool.Pool) MedicineRepository { return &medicineRepoPG{pool: pool} }

func (r *medicineRepoPG) conn(ctx context.Context) db.Queryable {
	return db.Conn(ctx, r.pool)
}

func (r *medicineRepoPG) Create(ctx context.Context, m *Medicine) error {
	m.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO medicine (id, medicine_id, name, category, description, stock, price, expiry_date)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		m.ID, m.MedicineID, m.Name, m.Category, m.Description, m.Stock, m.Price, m.ExpiryDate)
	return err
}

func (r *medicineRepoPG) List(ctx context.Context, limit, offset int) ([]*Medicine, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM medicine`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, medicine_id, name, category, description, stock, price, expiry_date
		FROM medicine
		ORDER BY name
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Medicine
	for rows.Next() {
		var m Medicine
		if err := rows.Scan(&m.ID, &m.MedicineID, &m.Name, &m.Category, &m.Description,
			&m.Stock, &m.Price, &m.ExpiryDate); err != nil {
			return nil, 0, err
		}
		items = append(items, &m)
	}
	return items, total, rows.Err()
}

func (r *medicineRepoPG) UpdateStock(ctx context.Context, medicineID string, stock int) (int64, error) {
	tag, err := r.conn(ctx).Exec(ctx,
		`UPDATE medicine SET stock=$2 WHERE medicine_id = $1`, medicineID, stock)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *medicineRepoPG) Delete(ctx context.Context, medicineID string) (int64, error) {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM medicine WHERE medicine_id = $1`, medicineID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

type orderRepoPG struct{ pool *pgxpool.Pool }

func NewOrderRepoPG(pool *pgxpool.Pool) OrderRepository { return &orderRepoPG{pool: pool} }

func (r *orderRepoPG) conn(ctx context.Context) db.Queryable {
	return db.Conn(ctx, r.pool)
}

func (r *orderRepoPG) Create(ctx context.Context, o *Order) error {
	o.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO medicine_order (id, patient_id, cost, address, ordered_at)
		VALUES ($1,$2,$3,$4,$5)`,
		o.ID, o.PatientID, o.Cost, o.Address, o.OrderedAt)
	return err
}

func (r *orderRepoPG) ListByPatient(ctx context.Context, patientID string, limit, offset int) ([]*Order, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM medicine_order WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, patient_id, cost, address, ordered_at
		FROM medicine_order
		WHERE patient_id = $1
		ORDER BY ordered_at DESC
		LIMIT $2 OFFSET $3`, patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*Order
	for rows.Next() {
		var o Order
		if err := rows.Scan(&o.ID, &o.PatientID, &o.Cost, &o.Address, &o.OrderedAt); err != nil {
			return nil, 0, err
		}
		items = append(items, &o)
	}
	return items, total, rows.Err()
}
