package identity

import (
	"context"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/clinic/clinic/internal/platform/auth"
	"github.com/clinic/clinic/internal/platform/fault"
)

type Service struct {
	users    UserRepository
	profiles ProfileRepository
	issuer   *auth.TokenIssuer
}

func NewService(users UserRepository, profiles ProfileRepository, issuer *auth.TokenIssuer) *Service {
	return &Service{users: users, profiles: profiles, issuer: issuer}
}

// LoginResult is returned on a successful login: a signed token plus the
// account's role profile.
type LoginResult struct {
	Token string       `json:"token"`
	User  *RoleProfile `json:"user"`
}

// Login verifies credentials and issues a token. Unknown accounts and
// wrong passwords produce the same message, so the response does not
// reveal which accounts exist.
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*LoginResult, error) {
	if req.Username == "" || req.Password == "" {
		return nil, fault.Invalid("Invalid id or password")
	}

	user, err := s.users.GetByEmail(ctx, req.Username)
	if err != nil {
		return nil, fault.Storage(err)
	}
	if user == nil {
		return nil, fault.Invalid("Invalid id or password")
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, fault.Invalid("Invalid id or password")
	}

	profile, err := s.profiles.ByUser(ctx, user.ID, user.Role)
	if err != nil {
		return nil, fault.Storage(err)
	}
	if profile == nil {
		return nil, fault.NotFound("Profile not found")
	}

	token, err := s.issuer.Issue(user.ID.String(), user.Role)
	if err != nil {
		return nil, fault.Storage(err)
	}
	return &LoginResult{Token: token, User: profile}, nil
}

func (s *Service) ListUsers(ctx context.Context, limit, offset int) ([]*User, int, error) {
	items, total, err := s.users.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, fault.Storage(err)
	}
	return items, total, nil
}

func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fault.Storage(err)
	}
	if user == nil {
		return nil, fault.NotFound("User not found")
	}
	return user, nil
}

func (s *Service) UpdateUser(ctx context.Context, id uuid.UUID, req *UpdateUserRequest) error {
	if req.Email == "" {
		return fault.Invalid("email is required")
	}
	switch req.Role {
	case RolePatient, RoleDoctor, RoleLabStaff, RoleAdmin:
	default:
		return fault.Invalid("invalid role: %s", req.Role)
	}

	n, err := s.users.Update(ctx, id, req.Email, req.Role)
	if err != nil {
		return fault.Storage(err)
	}
	if n == 0 {
		return fault.NotFound("User not found")
	}
	return nil
}

func (s *Service) DeleteUser(ctx context.Context, id uuid.UUID) error {
	n, err := s.users.Delete(ctx, id)
	if err != nil {
		return fault.Storage(err)
	}
	if n == 0 {
		return fault.NotFound("User not found")
	}
	return nil
}

func (s *Service) PatientProfile(ctx context.Context, patientID string) (*PatientProfile, error) {
	p, err := s.profiles.Patient(ctx, patientID)
	if err != nil {
		return nil, fault.Storage(err)
	}
	if p == nil {
		return nil, fault.NotFound("Patient not found")
	}
	return p, nil
}

func (s *Service) DoctorProfile(ctx context.Context, doctorID string) (*DoctorProfile, error) {
	d, err := s.profiles.Doctor(ctx, doctorID)
	if err != nil {
		return nil, fault.Storage(err)
	}
	if d == nil {
		return nil, fault.NotFound("Doctor not found")
	}
	return d, nil
}

func (s *Service) LabStaffProfile(ctx context.Context, labStaffID string) (*LabStaffProfile, error) {
	l, err := s.profiles.LabStaff(ctx, labStaffID)
	if err != nil {
		return nil, fault.Storage(err)
	}
	if l == nil {
		return nil, fault.NotFound("Lab staff not found")
	}
	return l, nil
}

func (s *Service) AdminProfile(ctx context.Context, adminID string) (*AdminProfile, error) {
	a, err := s.profiles.Admin(ctx, adminID)
	if err != nil {
		return nil, fault.Storage(err)
	}
	if a == nil {
		return nil, fault.NotFound("Admin not found")
	}
	return a, nil
}

func (s *Service) ListDoctors(ctx context.Context, limit, offset int) ([]*DoctorProfile, int, error) {
	items, total, err := s.profiles.ListDoctors(ctx, limit, offset)
	if err != nil {
		return nil, 0, fault.Storage(err)
	}
	return items, total, nil
}
