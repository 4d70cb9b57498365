package document

import (
	"context"

	"github.com/bloodsync/bloodsync/internal/models"
)

// Document is the whole BloodSync dataset. It is loaded and persisted as a
// single unit; every collection is an append-only slice of records.
type Document struct {
	Donors             []models.Donor             `json:"donors" bson:"donors"`
	Hospitals          []models.Hospital          `json:"hospitals" bson:"hospitals"`
	BloodBanks         []models.BloodBank         `json:"bloodBanks" bson:"bloodBanks"`
	Drives             []models.Drive             `json:"drives" bson:"drives"`
	DriveRegistrations []models.DriveRegistration `json:"driveRegistrations" bson:"driveRegistrations"`
	BloodRequests      []models.BloodRequest      `json:"bloodRequests" bson:"bloodRequests"`
}

// New returns a document with every collection present and empty.
func New() *Document {
	d := &Document{}
	d.Normalize()
	return d
}

// Normalize replaces nil collections with empty ones so the persisted form
// always carries every key as an array.
func (d *Document) Normalize() {
	if d.Donors == nil {
		d.Donors = []models.Donor{}
	}
	if d.Hospitals == nil {
		d.Hospitals = []models.Hospital{}
	}
	if d.BloodBanks == nil {
		d.BloodBanks = []models.BloodBank{}
	}
	if d.Drives == nil {
		d.Drives = []models.Drive{}
	}
	if d.DriveRegistrations == nil {
		d.DriveRegistrations = []models.DriveRegistration{}
	}
	if d.BloodRequests == nil {
		d.BloodRequests = []models.BloodRequest{}
	}
}

// Store is the persistence contract the services depend on. View runs fn
// against a fresh snapshot; Update runs fn against a fresh snapshot and
// persists it if fn returns nil.
type Store interface {
	View(ctx context.Context, fn func(*Document) error) error
	Update(ctx context.Context, fn func(*Document) error) error
}

func (d *Document) DonorByID(id string) *models.Donor {
	for i := range d.Donors {
		if d.Donors[i].ID == id {
			return &d.Donors[i]
		}
	}
	return nil
}

func (d *Document) DonorByPhone(phone string) *models.Donor {
	for i := range d.Donors {
		if d.Donors[i].Phone == phone {
			return &d.Donors[i]
		}
	}
	return nil
}

func (d *Document) HospitalByID(id string) *models.Hospital {
	for i := range d.Hospitals {
		if d.Hospitals[i].ID == id {
			return &d.Hospitals[i]
		}
	}
	return nil
}

func (d *Document) HospitalByEmail(email string) *models.Hospital {
	for i := range d.Hospitals {
		if d.Hospitals[i].Email == email {
			return &d.Hospitals[i]
		}
	}
	return nil
}

// HospitalByLogin matches either the email or the id.
func (d *Document) HospitalByLogin(identifier string) *models.Hospital {
	for i := range d.Hospitals {
		if d.Hospitals[i].Email == identifier || d.Hospitals[i].ID == identifier {
			return &d.Hospitals[i]
		}
	}
	return nil
}

func (d *Document) BloodBankByID(id string) *models.BloodBank {
	for i := range d.BloodBanks {
		if d.BloodBanks[i].ID == id {
			return &d.BloodBanks[i]
		}
	}
	return nil
}

func (d *Document) BloodBankByEmail(email string) *models.BloodBank {
	for i := range d.BloodBanks {
		if d.BloodBanks[i].Email == email {
			return &d.BloodBanks[i]
		}
	}
	return nil
}

// BloodBankByLogin matches either the email or the id.
func (d *Document) BloodBankByLogin(identifier string) *models.BloodBank {
	for i := range d.BloodBanks {
		if d.BloodBanks[i].Email == identifier || d.BloodBanks[i].ID == identifier {
			return &d.BloodBanks[i]
		}
	}
	return nil
}

func (d *Document) DriveByID(id string) *models.Drive {
	for i := range d.Drives {
		if d.Drives[i].ID == id {
			return &d.Drives[i]
		}
	}
	return nil
}

// RegistrationCount counts registration rows for a drive.
func (d *Document) RegistrationCount(driveID string) int {
	n := 0
	for _, r := range d.DriveRegistrations {
		if r.DriveID == driveID {
			n++
		}
	}
	return n
}

func (d *Document) Registration(driveID, donorID string) *models.DriveRegistration {
	for i := range d.DriveRegistrations {
		r := &d.DriveRegistrations[i]
		if r.DriveID == driveID && r.DonorID == donorID {
			return r
		}
	}
	return nil
}

func (d *Document) BloodRequestByID(id string) *models.BloodRequest {
	for i := range d.BloodRequests {
		if d.BloodRequests[i].ID == id {
			return &d.BloodRequests[i]
		}
	}
	return nil
}

// Counts reports the number of records per collection, keyed by JSON name.
func (d *Document) Counts() map[string]int {
	return map[string]int{
		"donors":             len(d.Donors),
		"hospitals":          len(d.Hospitals),
		"bloodBanks":         len(d.BloodBanks),
		"drives":             len(d.Drives),
		"driveRegistrations": len(d.DriveRegistrations),
		"bloodRequests":      len(d.BloodRequests),
	}
}
