package identity

import (
	"time"

	"github.com/google/uuid"
)

// Roles carried on user accounts and JWT claims.
const (
	RolePatient  = "patient"
	RoleDoctor   = "doctor"
	RoleLabStaff = "labstaff"
	RoleAdmin    = "admin"
)

// User maps to the users table. PasswordHash is a bcrypt hash and never
// serializes.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         string    `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// PatientProfile maps to the patient table.
type PatientProfile struct {
	PatientID     string    `db:"patient_id" json:"patient_id"`
	FullName      string    `db:"full_name" json:"full_name"`
	DateOfBirth   time.Time `db:"date_of_birth" json:"date_of_birth"`
	ContactNumber string    `db:"contact_number" json:"contact_number"`
	Address       string    `db:"address" json:"address"`
}

// DoctorProfile maps to the doctor table.
type DoctorProfile struct {
	DoctorID      string  `db:"doctor_id" json:"doctor_id"`
	FullName      string  `db:"full_name" json:"full_name"`
	Specialty     string  `db:"specialty" json:"specialty"`
	ContactNumber string  `db:"contact_number" json:"contact_number"`
	RoomID        *string `db:"room_id" json:"room_id,omitempty"`
}

// LabStaffProfile maps to the lab_staff table.
type LabStaffProfile struct {
	LabStaffID    string    `db:"lab_staff_id" json:"lab_staff_id"`
	FullName      string    `db:"full_name" json:"full_name"`
	ContactNumber string    `db:"contact_number" json:"contact_number"`
	HireDate      time.Time `db:"hire_date" json:"hire_date"`
}

// AdminProfile maps to the admin table.
type AdminProfile struct {
	AdminID  string `db:"admin_id" json:"admin_id"`
	FullName string `db:"full_name" json:"full_name"`
}

// RoleProfile is the tagged variant returned by profile lookup: Role names
// which concrete profile type Profile holds.
type RoleProfile struct {
	Role    string      `json:"role"`
	Profile interface{} `json:"profile"`
}

// LoginRequest carries login credentials. Username is the account email.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UpdateUserRequest carries the mutable account fields.
type UpdateUserRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}
