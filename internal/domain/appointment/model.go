package appointment

import (
	"time"

	"github.com/google/uuid"
)

// Appointment statuses. Cancelled is terminal: no transition moves an
// appointment out of it.
const (
	StatusPending     = "pending"
	StatusConfirmed   = "confirmed"
	StatusCancelled   = "cancelled"
	StatusRescheduled = "rescheduled"
)

// DateLayout is the wire format for appointment dates.
const DateLayout = "2006-01-02"

// Appointment maps to the appointment table. AppointmentID is the
// human-readable display identifier (A1, A2, ...) allocated at booking.
type Appointment struct {
	ID            uuid.UUID `db:"id" json:"id"`
	AppointmentID string    `db:"appointment_id" json:"appointment_id"`
	PatientID     string    `db:"patient_id" json:"patient_id"`
	DoctorID      string    `db:"doctor_id" json:"doctor_id"`
	Date          time.Time `db:"appointment_date" json:"appointment_date"`
	Time          string    `db:"appointment_time" json:"appointment_time"`
	RoomID        *string   `db:"room_id" json:"room_id,omitempty"`
	Status        string    `db:"status" json:"status"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// BookRequest carries the business fields of a booking. The appointment ID
// is never client-supplied; it is allocated by the workflow.
type BookRequest struct {
	PatientID string  `json:"patient_id"`
	DoctorID  string  `json:"doctor_id"`
	Date      string  `json:"date"`
	Time      string  `json:"time"`
	RoomID    *string `json:"room_id,omitempty"`
}

// RescheduleRequest carries the replacement date and time. Both are
// required.
type RescheduleRequest struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

// PatientAppointment is the patient-facing listing row, joined with the
// doctor's name.
type PatientAppointment struct {
	AppointmentID string    `db:"appointment_id" json:"appointment_id"`
	Date          time.Time `db:"appointment_date" json:"appointment_date"`
	Time          string    `db:"appointment_time" json:"appointment_time"`
	DoctorName    string    `db:"doctor_name" json:"doctor_name"`
	RoomID        *string   `db:"room_id" json:"room_id,omitempty"`
	Status        string    `db:"status" json:"status"`
}

// DoctorAppointment is the doctor-facing listing row, joined with the
// patient's name.
type DoctorAppointment struct {
	AppointmentID string    `db:"appointment_id" json:"appointment_id"`
	PatientID     string    `db:"patient_id" json:"patient_id"`
	PatientName   string    `db:"patient_name" json:"patient_name"`
	Date          time.Time `db:"appointment_date" json:"appointment_date"`
	Time          string    `db:"appointment_time" json:"appointment_time"`
	RoomID        *string   `db:"room_id" json:"room_id,omitempty"`
	Status        string    `db:"status" json:"status"`
}

// DoctorPatient is a row in a doctor's patient roster, derived from the
// doctor's appointments.
type DoctorPatient struct {
	PatientID     string    `db:"patient_id" json:"patient_id"`
	FullName      string    `db:"full_name" json:"full_name"`
	DateOfBirth   time.Time `db:"date_of_birth" json:"date_of_birth"`
	ContactNumber string    `db:"contact_number" json:"contact_number"`
	Status        string    `db:"status" json:"status"`
	Time          string    `db:"appointment_time" json:"appointment_time"`
	AppointmentID string    `db:"appointment_id" json:"appointment_id"`
}
