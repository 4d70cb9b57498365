package models

import "time"

const DriveStatusUpcoming = "upcoming"

// Drive is a donation drive scheduled by a blood bank. The number of
// registrations is derived from DriveRegistration rows and never stored.
type Drive struct {
	ID          string    `bson:"id" json:"id"`
	Title       string    `bson:"title" json:"title"`
	Date        string    `bson:"date" json:"date"`
	Location    string    `bson:"location" json:"location"`
	Time        string    `bson:"time" json:"time"`
	Organizer   string    `bson:"organizer" json:"organizer"`
	OrganizerID string    `bson:"organizerId" json:"organizerId"`
	Status      string    `bson:"status" json:"status"`
	MaxCapacity int       `bson:"maxCapacity" json:"maxCapacity"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
}

// DriveView is a drive annotated with its live registration count.
type DriveView struct {
	Drive
	Registrations int `json:"registrations"`
}

type DriveRegistration struct {
	ID           string    `bson:"id" json:"id"`
	DriveID      string    `bson:"driveId" json:"driveId"`
	DonorID      string    `bson:"donorId" json:"donorId"`
	RegisteredAt time.Time `bson:"registeredAt" json:"registeredAt"`
}
