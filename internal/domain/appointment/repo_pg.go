package appointment

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinic/clinic/internal/platform/db"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) db.Queryable {
	return db.Conn(ctx, r.pool)
}

func (r *repoPG) Create(ctx context.Context, a *Appointment) error {
	a.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO appointment (id, appointment_id, patient_id, doctor_id,
			appointment_date, appointment_time, room_id, status)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		a.ID, a.AppointmentID, a.PatientID, a.DoctorID,
		a.Date, a.Time, a.RoomID, a.Status)
	return err
}

func (r *repoPG) UpdateStatus(ctx context.Context, appointmentID, status string) (int64, error) {
	// Cancelled appointments never transition again.
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE appointment SET status=$2, updated_at=NOW()
		WHERE appointment_id = $1 AND status <> $3`,
		appointmentID, status, StatusCancelled)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *repoPG) Reschedule(ctx context.Context, appointmentID string, date time.Time, timeOfDay string) (int64, error) {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE appointment SET appointment_date=$2, appointment_time=$3,
			status=$4, updated_at=NOW()
		WHERE appointment_id = $1 AND status <> $5`,
		appointmentID, date, timeOfDay, StatusRescheduled, StatusCancelled)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *repoPG) Delete(ctx context.Context, appointmentID string) (int64, error) {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM appointment WHERE appointment_id = $1`, appointmentID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID string, limit, offset int) ([]*PatientAppointment, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM appointment WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx, `
		SELECT a.appointment_id, a.appointment_date, a.appointment_time,
			d.full_name AS doctor_name, a.room_id, a.status
		FROM appointment a
		JOIN doctor d ON d.doctor_id = a.doctor_id
		WHERE a.patient_id = $1
		ORDER BY a.appointment_date DESC, a.appointment_time DESC
		LIMIT $2 OFFSET $3`, patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*PatientAppointment
	for rows.Next() {
		var pa PatientAppointment
		if err := rows.Scan(&pa.AppointmentID, &pa.Date, &pa.Time,
			&pa.DoctorName, &pa.RoomID, &pa.Status); err != nil {
			return nil, 0, err
		}
		items = append(items, &pa)
	}
	return items, total, rows.Err()
}

func (r *repoPG) ListByDoctor(ctx context.Context, doctorID string, limit, offset int) ([]*DoctorAppointment, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM appointment WHERE doctor_id = $1`, doctorID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx, `
		SELECT a.appointment_id, a.patient_id, p.full_name AS patient_name,
			a.appointment_date, a.appointment_time, a.room_id, a.status
		FROM appointment a
		JOIN patient p ON p.patient_id = a.patient_id
		WHERE a.doctor_id = $1
		ORDER BY a.appointment_date DESC, a.appointment_time DESC
		LIMIT $2 OFFSET $3`, doctorID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*DoctorAppointment
	for rows.Next() {
		var da DoctorAppointment
		if err := rows.Scan(&da.AppointmentID, &da.PatientID, &da.PatientName,
			&da.Date, &da.Time, &da.RoomID, &da.Status); err != nil {
			return nil, 0, err
		}
		items = append(items, &da)
	}
	return items, total, rows.Err()
}

func (r *repoPG) PatientsByDoctor(ctx context.Context, doctorID string, limit, offset int) ([]*DoctorPatient, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(DISTINCT patient_id) FROM appointment WHERE doctor_id = $1`, doctorID).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx, `
		SELECT p.patient_id, p.full_name, p.date_of_birth, p.contact_number,
			a.status, a.appointment_time, a.appointment_id
		FROM appointment a
		JOIN patient p ON p.patient_id = a.patient_id
		WHERE a.doctor_id = $1
		ORDER BY a.appointment_date DESC, a.appointment_time DESC
		LIMIT $2 OFFSET $3`, doctorID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*DoctorPatient
	for rows.Next() {
		var dp DoctorPatient
		if err := rows.Scan(&dp.PatientID, &dp.FullName, &dp.DateOfBirth,
			&dp.ContactNumber, &dp.Status, &dp.Time, &dp.AppointmentID); err != nil {
			return nil, 0, err
		}
		items = append(items, &dp)
	}
	return items, total, rows.Err()
}
