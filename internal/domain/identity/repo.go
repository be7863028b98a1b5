package identity

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository persists user accounts. Lookups return (nil, nil) when no
// account matches.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	List(ctx context.Context, limit, offset int) ([]*User, int, error)
	Update(ctx context.Context, id uuid.UUID, email, role string) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
}

// ProfileRepository resolves role profiles. ByUser dispatches on the
// account's role and returns the matching profile as a tagged variant;
// the role-specific lookups serve the profile pages.
type ProfileRepository interface {
	ByUser(ctx context.Context, userID uuid.UUID, role string) (*RoleProfile, error)
	Patient(ctx context.Context, patientID string) (*PatientProfile, error)
	Doctor(ctx context.Context, doctorID string) (*DoctorProfile, error)
	LabStaff(ctx context.Context, labStaffID string) (*LabStaffProfile, error)
	Admin(ctx context.Context, adminID string) (*AdminProfile, error)
	ListDoctors(ctx context.Context, limit, offset int) ([]*DoctorProfile, int, error)
}
