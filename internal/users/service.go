// Package users registers donors, hospitals and blood banks and checks their
// credentials at login.
package users

import (
	"context"
	"time"

	"github.com/bloodsync/bloodsync/internal/apperr"
	"github.com/bloodsync/bloodsync/internal/document"
	"github.com/bloodsync/bloodsync/internal/ids"
	"github.com/bloodsync/bloodsync/internal/location"
	"github.com/bloodsync/bloodsync/internal/models"
	"github.com/bloodsync/bloodsync/pkg/metrics"
	"golang.org/x/crypto/bcrypt"
)

type DonorInput struct {
	Phone    string
	Pincode  string
	Password string
}

// OrganizationInput is the registration payload for hospitals and blood banks.
type OrganizationInput struct {
	Name     string
	Email    string
	Address  string
	Password string
}

// LoginResult carries the authenticated record without its credential.
type LoginResult struct {
	User interface{}
	Role string
}

// Service encapsulates account-related business logic
type Service struct {
	store      document.Store
	resolver   location.Resolver
	bcryptCost int
	now        func() time.Time
}

func NewService(store document.Store, resolver location.Resolver, bcryptCost int) *Service {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{store: store, resolver: resolver, bcryptCost: bcryptCost, now: time.Now}
}

var errDonorExists = apperr.Conflict(apperr.CodeDuplicate, "Donor with this phone number already exists")

// RegisterDonor validates the input, resolves the pincode outside the write
// lock and stores the donor. The duplicate check is repeated under the lock.
func (s *Service) RegisterDonor(ctx context.Context, in DonorInput) (models.Donor, error) {
	d, err := s.registerDonor(ctx, in)
	record(models.RoleDonor, err)
	return d, err
}

func (s *Service) registerDonor(ctx context.Context, in DonorInput) (models.Donor, error) {
	if err := validateDonor(in); err != nil {
		return models.Donor{}, err
	}
	err := s.store.View(ctx, func(doc *document.Document) error {
		if doc.DonorByPhone(in.Phone) != nil {
			return errDonorExists
		}
		return nil
	})
	if err != nil {
		return models.Donor{}, err
	}

	hashed, err := hashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return models.Donor{}, err
	}
	loc := s.resolver.Resolve(ctx, in.Pincode)

	now := s.now().UTC()
	donor := models.Donor{
		ID:        ids.New(ids.PrefixDonor, now),
		Phone:     in.Phone,
		Pincode:   in.Pincode,
		Password:  hashed,
		City:      loc.City,
		State:     loc.State,
		Location:  loc.Location,
		CreatedAt: now,
	}
	err = s.store.Update(ctx, func(doc *document.Document) error {
		if doc.DonorByPhone(in.Phone) != nil {
			return errDonorExists
		}
		doc.Donors = append(doc.Donors, donor)
		return nil
	})
	if err != nil {
		return models.Donor{}, err
	}
	return donor.Public(), nil
}

func (s *Service) RegisterHospital(ctx context.Context, in OrganizationInput) (models.Hospital, error) {
	h, err := s.registerHospital(ctx, in)
	record(models.RoleHospital, err)
	return h, err
}

func (s *Service) registerHospital(ctx context.Context, in OrganizationInput) (models.Hospital, error) {
	if err := validateOrganization(in); err != nil {
		return models.Hospital{}, err
	}
	hashed, err := hashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return models.Hospital{}, err
	}
	now := s.now().UTC()
	h := models.Hospital{
		ID:        ids.New(ids.PrefixHospital, now),
		Name:      in.Name,
		Email:     in.Email,
		Address:   in.Address,
		Password:  hashed,
		CreatedAt: now,
	}
	err = s.store.Update(ctx, func(doc *document.Document) error {
		if doc.HospitalByEmail(in.Email) != nil {
			return apperr.Conflict(apperr.CodeDuplicate, "Hospital with this email already exists")
		}
		doc.Hospitals = append(doc.Hospitals, h)
		return nil
	})
	if err != nil {
		return models.Hospital{}, err
	}
	return h.Public(), nil
}

func (s *Service) RegisterBloodBank(ctx context.Context, in OrganizationInput) (models.BloodBank, error) {
	b, err := s.registerBloodBank(ctx, in)
	record(models.RoleBloodBank, err)
	return b, err
}

func (s *Service) registerBloodBank(ctx context.Context, in OrganizationInput) (models.BloodBank, error) {
	if err := validateOrganization(in); err != nil {
		return models.BloodBank{}, err
	}
	hashed, err := hashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return models.BloodBank{}, err
	}
	now := s.now().UTC()
	b := models.BloodBank{
		ID:        ids.New(ids.PrefixBloodBank, now),
		Name:      in.Name,
		Email:     in.Email,
		Address:   in.Address,
		Password:  hashed,
		CreatedAt: now,
	}
	err = s.store.Update(ctx, func(doc *document.Document) error {
		if doc.BloodBankByEmail(in.Email) != nil {
			return apperr.Conflict(apperr.CodeDuplicate, "Blood bank with this email already exists")
		}
		doc.BloodBanks = append(doc.BloodBanks, b)
		return nil
	})
	if err != nil {
		return models.BloodBank{}, err
	}
	return b.Public(), nil
}

var errInvalidCredentials = apperr.Unauthorized("Invalid credentials")

// Login checks a credential for the given role. Donors log in by phone;
// hospitals and blood banks by email or id. Every mismatch, including an
// unknown role, produces the same error.
func (s *Service) Login(ctx context.Context, role, identifier, password string) (LoginResult, error) {
	if role == "" || identifier == "" || password == "" {
		metrics.Logins.WithLabelValues(roleLabel(role), "rejected").Inc()
		return LoginResult{}, apperr.Validation(apperr.CodeMissingFields, "Role, identifier, and password are required")
	}

	var res LoginResult
	err := s.store.View(ctx, func(doc *document.Document) error {
		var stored string
		switch role {
		case models.RoleDonor:
			if d := doc.DonorByPhone(identifier); d != nil {
				stored, res.User = d.Password, d.Public()
			}
		case models.RoleHospital:
			if h := doc.HospitalByLogin(identifier); h != nil {
				stored, res.User = h.Password, h.Public()
			}
		case models.RoleBloodBank:
			if b := doc.BloodBankByLogin(identifier); b != nil {
				stored, res.User = b.Password, b.Public()
			}
		}
		if res.User == nil || !checkPassword(stored, password) {
			return errInvalidCredentials
		}
		res.Role = role
		return nil
	})
	if err != nil {
		result := "error"
		if apperr.Is(err, apperr.KindUnauthorized) {
			result = "rejected"
		}
		metrics.Logins.WithLabelValues(roleLabel(role), result).Inc()
		return LoginResult{}, err
	}
	metrics.Logins.WithLabelValues(role, "ok").Inc()
	return res, nil
}

// BloodBanks lists every registered blood bank without credentials.
func (s *Service) BloodBanks(ctx context.Context) ([]models.BloodBank, error) {
	var out []models.BloodBank
	err := s.store.View(ctx, func(doc *document.Document) error {
		out = make([]models.BloodBank, 0, len(doc.BloodBanks))
		for _, b := range doc.BloodBanks {
			out = append(out, b.Public())
		}
		return nil
	})
	return out, err
}

// roleLabel keeps metric cardinality bounded for arbitrary role strings.
func roleLabel(role string) string {
	switch role {
	case models.RoleDonor, models.RoleHospital, models.RoleBloodBank:
		return role
	}
	return "other"
}

func record(role string, err error) {
	result := "ok"
	if err != nil {
		result = "rejected"
		if apperr.Is(err, apperr.KindInternal) {
			result = "error"
		}
	}
	metrics.Registrations.WithLabelValues(role, result).Inc()
}
