// Package requests handles hospital blood requests and their approval by
// blood banks.
package requests

import (
	"context"
	"sort"
	"time"

	"github.com/bloodsync/bloodsync/internal/apperr"
	"github.com/bloodsync/bloodsync/internal/document"
	"github.com/bloodsync/bloodsync/internal/ids"
	"github.com/bloodsync/bloodsync/internal/models"
	"github.com/bloodsync/bloodsync/pkg/metrics"
)

const (
	MinUnits = 1
	MaxUnits = 50
)

type CreateInput struct {
	HospitalID string
	BloodGroup string
	Units      int
}

type Service struct {
	store document.Store
	now   func() time.Time
}

func NewService(store document.Store) *Service {
	return &Service{store: store, now: time.Now}
}

func validBloodGroup(g string) bool {
	for _, bg := range models.BloodGroups {
		if bg == g {
			return true
		}
	}
	return false
}

func (s *Service) Create(ctx context.Context, in CreateInput) (models.BloodRequest, error) {
	if in.HospitalID == "" || in.BloodGroup == "" || in.Units == 0 {
		return models.BloodRequest{}, apperr.Validation(apperr.CodeMissingFields, "Hospital ID, blood group, and units are required")
	}
	if !validBloodGroup(in.BloodGroup) {
		return models.BloodRequest{}, apperr.Validation(apperr.CodeInvalidFormat, "Blood group must be one of A+, A-, B+, B-, AB+, AB-, O+, O-")
	}
	if in.Units < MinUnits || in.Units > MaxUnits {
		return models.BloodRequest{}, apperr.Validation(apperr.CodeInvalidFormat, "Units must be between 1 and 50")
	}

	now := s.now().UTC()
	var req models.BloodRequest
	err := s.store.Update(ctx, func(doc *document.Document) error {
		h := doc.HospitalByID(in.HospitalID)
		if h == nil {
			return apperr.NotFound("Hospital not found")
		}
		req = models.BloodRequest{
			ID:           ids.New(ids.PrefixBloodRequest, now),
			HospitalID:   h.ID,
			HospitalName: h.Name,
			BloodGroup:   in.BloodGroup,
			Units:        in.Units,
			Status:       models.RequestStatusPending,
			CreatedAt:    now,
		}
		doc.BloodRequests = append(doc.BloodRequests, req)
		return nil
	})
	if err != nil {
		return models.BloodRequest{}, err
	}
	metrics.BloodRequests.WithLabelValues("created").Inc()
	return req, nil
}

// ListForHospital returns the hospital's requests, newest first.
func (s *Service) ListForHospital(ctx context.Context, hospitalID string) ([]models.BloodRequest, error) {
	var out []models.BloodRequest
	err := s.store.View(ctx, func(doc *document.Document) error {
		if doc.HospitalByID(hospitalID) == nil {
			return apperr.NotFound("Hospital not found")
		}
		out = filter(doc.BloodRequests, func(r models.BloodRequest) bool { return r.HospitalID == hospitalID })
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// ListPending returns requests awaiting approval, oldest first.
func (s *Service) ListPending(ctx context.Context) ([]models.BloodRequest, error) {
	var out []models.BloodRequest
	err := s.store.View(ctx, func(doc *document.Document) error {
		out = filter(doc.BloodRequests, func(r models.BloodRequest) bool { return r.Status == models.RequestStatusPending })
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// Approve marks a pending request as approved by the given blood bank.
func (s *Service) Approve(ctx context.Context, requestID, bloodBankID string) (models.BloodRequest, error) {
	if bloodBankID == "" {
		return models.BloodRequest{}, apperr.Validation(apperr.CodeMissingFields, "Blood bank ID is required")
	}
	now := s.now().UTC()
	var out models.BloodRequest
	err := s.store.Update(ctx, func(doc *document.Document) error {
		req := doc.BloodRequestByID(requestID)
		if req == nil {
			return apperr.NotFound("Request not found")
		}
		if doc.BloodBankByID(bloodBankID) == nil {
			return apperr.NotFound("Blood bank not found")
		}
		if req.Status != models.RequestStatusPending {
			return apperr.Conflict(apperr.CodeInvalidState, "Request already approved")
		}
		req.Status = models.RequestStatusApproved
		req.ApprovedBy = bloodBankID
		req.ApprovedAt = &now
		out = *req
		return nil
	})
	if err != nil {
		return models.BloodRequest{}, err
	}
	metrics.BloodRequests.WithLabelValues("approved").Inc()
	return out, nil
}

func filter(in []models.BloodRequest, keep func(models.BloodRequest) bool) []models.BloodRequest {
	out := make([]models.BloodRequest, 0, len(in))
	for _, r := range in {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}
