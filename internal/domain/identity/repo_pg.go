package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clinic/clinic/internal/platform/db"
)

type userRepoPG struct{ pool *pgxpool.Pool }

func NewUserRepoPG(pool *pgxpool.Pool) UserRepository { return &userRepoPG{pool: pool} }

func (r *userRepoPG) conn(ctx context.Context) db.Queryable {
	return db.Conn(ctx, r.pool)
}

func (r *userRepoPG) GetByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT id, email, password_hash, role, created_at
		FROM users WHERE email = $1`, email).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	var u User
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT id, email, password_hash, role, created_at
		FROM users WHERE id = $1`, id).
		Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepoPG) List(ctx context.Context, limit, offset int) ([]*User, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, email, role, created_at
		FROM users
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Email, &u.Role, &u.CreatedAt); err != nil {
			return nil, 0, err
		}
		items = append(items, &u)
	}
	return items, total, rows.Err()
}

func (r *userRepoPG) Update(ctx context.Context, id uuid.UUID, email, role string) (int64, error) {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE users SET email=$2, role=$3 WHERE id = $1`, id, email, role)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *userRepoPG) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

type profileRepoPG struct{ pool *pgxpool.Pool }

func NewProfileRepoPG(pool *pgxpool.Pool) ProfileRepository { return &profileRepoPG{pool: pool} }

func (r *profileRepoPG) conn(ctx context.Context) db.Queryable {
	return db.Conn(ctx, r.pool)
}

// ByUser resolves the role profile for an account as a tagged variant.
// The role decides which table is consulted; there is no per-role
// branching left in the callers.
func (r *profileRepoPG) ByUser(ctx context.Context, userID uuid.UUID, role string) (*RoleProfile, error) {
	switch role {
	case RolePatient:
		var p PatientProfile
		err := r.conn(ctx).QueryRow(ctx, `
			SELECT patient_id, full_name, date_of_birth, contact_number, address
			FROM patient WHERE user_id = $1`, userID).
			Scan(&p.PatientID, &p.FullName, &p.DateOfBirth, &p.ContactNumber, &p.Address)
		return tagged(role, &p, err)
	case RoleDoctor:
		var d DoctorProfile
		err := r.conn(ctx).QueryRow(ctx, `
			SELECT doctor_id, full_name, specialty, contact_number, room_id
			FROM doctor WHERE user_id = $1`, userID).
			Scan(&d.DoctorID, &d.FullName, &d.Specialty, &d.ContactNumber, &d.RoomID)
		return tagged(role, &d, err)
	case RoleLabStaff:
		var l LabStaffProfile
		err := r.conn(ctx).QueryRow(ctx, `
			SELECT lab_staff_id, full_name, contact_number, hire_date
			FROM lab_staff WHERE user_id = $1`, userID).
			Scan(&l.LabStaffID, &l.FullName, &l.ContactNumber, &l.HireDate)
		return tagged(role, &l, err)
	case RoleAdmin:
		var a AdminProfile
		err := r.conn(ctx).QueryRow(ctx, `
			SELECT admin_id, full_name FROM admin WHERE user_id = $1`, userID).
			Scan(&a.AdminID, &a.FullName)
		return tagged(role, &a, err)
	}
	return nil, fmt.Errorf("unknown role %q", role)
}

func tagged(role string, profile interface{}, err error) (*RoleProfile, error) {
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &RoleProfile{Role: role, Profile: profile}, nil
}

func (r *profileRepoPG) Patient(ctx context.Context, patientID string) (*PatientProfile, error) {
	var p PatientProfile
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT patient_id, full_name, date_of_birth, contact_number, address
		FROM patient WHERE patient_id = $1`, patientID).
		Scan(&p.PatientID, &p.FullName, &p.DateOfBirth, &p.ContactNumber, &p.Address)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *profileRepoPG) Doctor(ctx context.Context, doctorID string) (*DoctorProfile, error) {
	var d DoctorProfile
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT doctor_id, full_name, specialty, contact_number, room_id
		FROM doctor WHERE doctor_id = $1`, doctorID).
		Scan(&d.DoctorID, &d.FullName, &d.Specialty, &d.ContactNumber, &d.RoomID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *profileRepoPG) LabStaff(ctx context.Context, labStaffID string) (*LabStaffProfile, error) {
	var l LabStaffProfile
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT lab_staff_id, full_name, contact_number, hire_date
		FROM lab_staff WHERE lab_staff_id = $1`, labStaffID).
		Scan(&l.LabStaffID, &l.FullName, &l.ContactNumber, &l.HireDate)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *profileRepoPG) Admin(ctx context.Context, adminID string) (*AdminProfile, error) {
	var a AdminProfile
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT admin_id, full_name FROM admin WHERE admin_id = $1`, adminID).
		Scan(&a.AdminID, &a.FullName)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *profileRepoPG) ListDoctors(ctx context.Context, limit, offset int) ([]*DoctorProfile, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM doctor`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.conn(ctx).Query(ctx, `
		SELECT doctor_id, full_name, specialty, contact_number, room_id
		FROM doctor
		ORDER BY full_name
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []*DoctorProfile
	for rows.Next() {
		var d DoctorProfile
		if err := rows.Scan(&d.DoctorID, &d.FullName, &d.Specialty, &d.ContactNumber, &d.RoomID); err != nil {
			return nil, 0, err
		}
		items = append(items, &d)
	}
	return items, total, rows.Err()
}
