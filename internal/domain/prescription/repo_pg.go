package prescription

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinic/clinic/internal/platform/db"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) db.Queryable {
	return db.Conn(ctx, r.pool)
}

func (r *repoPG) Create(ctx context.Context, p *Prescription) error {
	p.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO prescription (id, patient_id, doctor_id, medicine, dosage, duration, diagnosis, prescribed_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		p.ID, p.PatientID, p.DoctorID, p.Medicine, p.Dosage, p.Duration, p.Diagnosis, p.Date)
	return err
}

func (r *repoPG) HistoryByPatient(ctx context.Context, patientID string, limit, offset int) ([]*HistoryEntry, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM prescription WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx, `
		SELECT prescribed_at, diagnosis,
			medicine || ' - ' || dosage || ' - ' || duration AS prescription
		FROM prescription
		WHERE patient_id = $1
		ORDER BY prescribed_at DESC
		LIMIT $2 OFFSET $3`, patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*HistoryEntry
	for rows.Next() {
		var he HistoryEntry
		if err := rows.Scan(&he.Date, &he.Diagnosis, &he.Prescription); err != nil {
			return nil, 0, err
		}
		items = append(items, &he)
	}
	return items, total, rows.Err()
}

func (r *repoPG) DiagnosesByPatient(ctx context.Context, patientID string, limit, offset int) ([]*DiagnosisEntry, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM prescription WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx, `
		SELECT prescribed_at, diagnosis, doctor_id
		FROM prescription
		WHERE patient_id = $1
		ORDER BY prescribed_at DESC
		LIMIT $2 OFFSET $3`, patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*DiagnosisEntry
	for rows.Next() {
		var de DiagnosisEntry
		if err := rows.Scan(&de.Date, &de.Diagnosis, &de.DoctorID); err != nil {
			return nil, 0, err
		}
		items = append(items, &de)
	}
	return items, total, rows.Err()
}
