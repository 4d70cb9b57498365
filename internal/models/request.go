package models

import "time"

const (
	RequestStatusPending  = "pending"
	RequestStatusApproved = "approved"
)

// BloodGroups lists the accepted ABO/Rh groups.
var BloodGroups = []string{"A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-"}

// BloodRequest is a hospital's request for units of one blood group.
type BloodRequest struct {
	ID           string     `bson:"id" json:"id"`
	HospitalID   string     `bson:"hospitalId" json:"hospitalId"`
	HospitalName string     `bson:"hospitalName" json:"hospitalName"`
	BloodGroup   string     `bson:"bloodGroup" json:"bloodGroup"`
	Units        int        `bson:"units" json:"units"`
	Status       string     `bson:"status" json:"status"`
	ApprovedBy   string     `bson:"approvedBy,omitempty" json:"approvedBy,omitempty"`
	CreatedAt    time.Time  `bson:"createdAt" json:"createdAt"`
	ApprovedAt   *time.Time `bson:"approvedAt,omitempty" json:"approvedAt,omitempty"`
}
