// Package drives manages donation drives and donor registrations for them.
package drives

import (
	"context"
	"sort"
	"time"

	"github.com/bloodsync/bloodsync/internal/apperr"
	"github.com/bloodsync/bloodsync/internal/config"
	"github.com/bloodsync/bloodsync/internal/document"
	"github.com/bloodsync/bloodsync/internal/ids"
	"github.com/bloodsync/bloodsync/internal/models"
	"github.com/bloodsync/bloodsync/pkg/metrics"
)

const (
	DefaultMaxCapacity = 100
	DefaultTime        = "9:00 AM - 5:00 PM"
)

type CreateInput struct {
	BloodBankID string
	Title       string
	Date        string
	Location    string
	Time        string
}

// Registration is the outcome of a successful drive registration.
type Registration struct {
	ID            string
	Registrations int
}

type Service struct {
	store           document.Store
	enforceCapacity bool
	maxCapacity     int
	defaultTime     string
	loc             *time.Location
	now             func() time.Time
}

func NewService(store document.Store, cfg config.DrivesConfig) *Service {
	s := &Service{
		store:           store,
		enforceCapacity: cfg.EnforceCapacity,
		maxCapacity:     cfg.MaxCapacity,
		defaultTime:     cfg.DefaultTime,
		loc:             cfg.Timezone,
		now:             time.Now,
	}
	if s.maxCapacity <= 0 {
		s.maxCapacity = DefaultMaxCapacity
	}
	if s.defaultTime == "" {
		s.defaultTime = DefaultTime
	}
	if s.loc == nil {
		s.loc = time.Local
	}
	return s
}

// CreateDrive schedules a drive for an existing blood bank. Location and time
// default to the bank's address and the configured hours.
func (s *Service) CreateDrive(ctx context.Context, in CreateInput) (models.DriveView, error) {
	if in.BloodBankID == "" || in.Title == "" || in.Date == "" {
		return models.DriveView{}, apperr.Validation(apperr.CodeMissingFields, "Blood bank ID, title, and date are required")
	}
	if _, ok := parseDate(in.Date, s.loc); !ok {
		return models.DriveView{}, apperr.Validation(apperr.CodeInvalidFormat, "Date must be a valid date (YYYY-MM-DD)")
	}

	now := s.now().UTC()
	var drive models.Drive
	err := s.store.Update(ctx, func(doc *document.Document) error {
		bank := doc.BloodBankByID(in.BloodBankID)
		if bank == nil {
			return apperr.NotFound("Blood bank not found")
		}
		drive = models.Drive{
			ID:          ids.New(ids.PrefixDrive, now),
			Title:       in.Title,
			Date:        in.Date,
			Location:    in.Location,
			Time:        in.Time,
			Organizer:   bank.Name,
			OrganizerID: bank.ID,
			Status:      models.DriveStatusUpcoming,
			MaxCapacity: s.maxCapacity,
			CreatedAt:   now,
		}
		if drive.Location == "" {
			drive.Location = bank.Address
		}
		if drive.Time == "" {
			drive.Time = s.defaultTime
		}
		doc.Drives = append(doc.Drives, drive)
		return nil
	})
	if err != nil {
		return models.DriveView{}, err
	}
	metrics.DrivesCreated.Inc()
	return models.DriveView{Drive: drive}, nil
}

// ListUpcoming returns drives with status upcoming whose date is today or
// later, soonest first, each with its live registration count.
func (s *Service) ListUpcoming(ctx context.Context) ([]models.DriveView, error) {
	today := startOfDay(s.now(), s.loc)
	return s.list(ctx, func(d models.Drive, at time.Time) bool {
		return d.Status == models.DriveStatusUpcoming && onOrAfter(at, today, s.loc)
	})
}

// ListForBloodBank returns every drive organized by the bank, past ones included.
func (s *Service) ListForBloodBank(ctx context.Context, bloodBankID string) ([]models.DriveView, error) {
	var found bool
	err := s.store.View(ctx, func(doc *document.Document) error {
		found = doc.BloodBankByID(bloodBankID) != nil
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperr.NotFound("Blood bank not found")
	}
	return s.list(ctx, func(d models.Drive, _ time.Time) bool {
		return d.OrganizerID == bloodBankID
	})
}

type datedView struct {
	view models.DriveView
	at   time.Time
}

// list filters drives with parseable dates and sorts them by date, keeping
// insertion order for ties.
func (s *Service) list(ctx context.Context, keep func(models.Drive, time.Time) bool) ([]models.DriveView, error) {
	var rows []datedView
	err := s.store.View(ctx, func(doc *document.Document) error {
		for _, d := range doc.Drives {
			at, ok := parseDate(d.Date, s.loc)
			if !ok || !keep(d, at) {
				continue
			}
			rows = append(rows, datedView{
				view: models.DriveView{Drive: d, Registrations: doc.RegistrationCount(d.ID)},
				at:   at,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].at.Before(rows[j].at) })

	out := make([]models.DriveView, len(rows))
	for i, r := range rows {
		out[i] = r.view
	}
	return out, nil
}

// Register signs a donor up for a drive. When capacity enforcement is on, a
// drive holding maxCapacity registrations accepts no more.
func (s *Service) Register(ctx context.Context, driveID, donorID string) (Registration, error) {
	reg, err := s.register(ctx, driveID, donorID)
	switch {
	case err == nil:
		metrics.DriveRegistrations.WithLabelValues("ok").Inc()
	case apperr.Is(err, apperr.KindInternal):
		metrics.DriveRegistrations.WithLabelValues("error").Inc()
	default:
		metrics.DriveRegistrations.WithLabelValues(apperr.As(err).Code).Inc()
	}
	return reg, err
}

func (s *Service) register(ctx context.Context, driveID, donorID string) (Registration, error) {
	if donorID == "" {
		return Registration{}, apperr.Validation(apperr.CodeMissingFields, "Donor ID is required")
	}
	now := s.now().UTC()
	var out Registration
	err := s.store.Update(ctx, func(doc *document.Document) error {
		drive := doc.DriveByID(driveID)
		if drive == nil {
			return apperr.NotFound("Drive not found")
		}
		if doc.DonorByID(donorID) == nil {
			return apperr.NotFound("Donor not found")
		}
		if doc.Registration(driveID, donorID) != nil {
			return apperr.Conflict(apperr.CodeAlreadyRegistered, "Already registered for this drive")
		}
		count := doc.RegistrationCount(driveID)
		if s.enforceCapacity && count >= capacityOf(*drive, s.maxCapacity) {
			return apperr.Conflict(apperr.CodeCapacityReached, "Drive is at full capacity")
		}
		reg := models.DriveRegistration{
			ID:           ids.New(ids.PrefixRegistration, now),
			DriveID:      driveID,
			DonorID:      donorID,
			RegisteredAt: now,
		}
		doc.DriveRegistrations = append(doc.DriveRegistrations, reg)
		out = Registration{ID: reg.ID, Registrations: count + 1}
		return nil
	})
	if err != nil {
		return Registration{}, err
	}
	return out, nil
}

// capacityOf falls back to the configured maximum for drives stored without one.
func capacityOf(d models.Drive, fallback int) int {
	if d.MaxCapacity > 0 {
		return d.MaxCapacity
	}
	return fallback
}
