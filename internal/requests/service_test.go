package requests

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/bloodsync/bloodsync/internal/apperr"
	"github.com/bloodsync/bloodsync/internal/document"
	"github.com/bloodsync/bloodsync/internal/document/service"
	"github.com/bloodsync/bloodsync/internal/models"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*Service, *service.Service) {
	t.Helper()
	store := service.NewMemoryService()
	require.NoError(t, store.Update(context.Background(), func(d *document.Document) error {
		d.Hospitals = append(d.Hospitals,
			models.Hospital{ID: "hosp-1", Name: "City Hospital"},
			models.Hospital{ID: "hosp-2", Name: "Rural Clinic"},
		)
		d.BloodBanks = append(d.BloodBanks, models.BloodBank{ID: "bb-1", Name: "Central Bank"})
		return nil
	}))
	svc := NewService(store)
	clock := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	return svc, store
}

func TestCreateValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	cases := []struct {
		in   CreateInput
		kind apperr.Kind
	}{
		{CreateInput{BloodGroup: "A+", Units: 2}, apperr.KindValidation},
		{CreateInput{HospitalID: "hosp-1", BloodGroup: "C+", Units: 2}, apperr.KindValidation},
		{CreateInput{HospitalID: "hosp-1", BloodGroup: "a+", Units: 2}, apperr.KindValidation},
		{CreateInput{HospitalID: "hosp-1", BloodGroup: "O-", Units: 51}, apperr.KindValidation},
		{CreateInput{HospitalID: "hosp-1", BloodGroup: "O-", Units: -1}, apperr.KindValidation},
		{CreateInput{HospitalID: "hosp-404", BloodGroup: "O-", Units: 1}, apperr.KindNotFound},
	}
	for _, tc := range cases {
		_, err := svc.Create(ctx, tc.in)
		require.True(t, apperr.Is(err, tc.kind), "%+v: %v", tc.in, err)
	}
}

func TestCreateAndList(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, CreateInput{HospitalID: "hosp-1", BloodGroup: "A+", Units: 2})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(first.ID, "request-"))
	require.Equal(t, "City Hospital", first.HospitalName)
	require.Equal(t, models.RequestStatusPending, first.Status)

	second, err := svc.Create(ctx, CreateInput{HospitalID: "hosp-1", BloodGroup: "AB-", Units: 50})
	require.NoError(t, err)
	other, err := svc.Create(ctx, CreateInput{HospitalID: "hosp-2", BloodGroup: "O+", Units: 1})
	require.NoError(t, err)

	mine, err := svc.ListForHospital(ctx, "hosp-1")
	require.NoError(t, err)
	require.Len(t, mine, 2)
	require.Equal(t, second.ID, mine[0].ID)
	require.Equal(t, first.ID, mine[1].ID)

	_, err = svc.ListForHospital(ctx, "hosp-404")
	require.True(t, apperr.Is(err, apperr.KindNotFound))

	pending, err := svc.ListPending(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 3)
	require.Equal(t, first.ID, pending[0].ID)
	require.Equal(t, other.ID, pending[2].ID)
}

func TestApprove(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	req, err := svc.Create(ctx, CreateInput{HospitalID: "hosp-1", BloodGroup: "B+", Units: 4})
	require.NoError(t, err)

	_, err = svc.Approve(ctx, "request-404", "bb-1")
	require.True(t, apperr.Is(err, apperr.KindNotFound))
	_, err = svc.Approve(ctx, req.ID, "bb-404")
	require.Equal(t, "Blood bank not found", apperr.As(err).Message)
	_, err = svc.Approve(ctx, req.ID, "")
	require.True(t, apperr.Is(err, apperr.KindValidation))

	approved, err := svc.Approve(ctx, req.ID, "bb-1")
	require.NoError(t, err)
	require.Equal(t, models.RequestStatusApproved, approved.Status)
	require.Equal(t, "bb-1", approved.ApprovedBy)
	require.NotNil(t, approved.ApprovedAt)

	_, err = svc.Approve(ctx, req.ID, "bb-1")
	require.True(t, apperr.Is(err, apperr.KindConflict))
	require.Equal(t, "Request already approved", apperr.As(err).Message)

	pending, err := svc.ListPending(ctx)
	require.NoError(t, err)
	require.Empty(t, pending)
}
