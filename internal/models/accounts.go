package models

import "time"

// Roles accepted at login.
const (
	RoleDonor     = "donor"
	RoleHospital  = "hospital"
	RoleBloodBank = "blood-bank"
)

// Donor is an individual who can register for donation drives.
// Password holds a bcrypt hash (or a cleartext value in data written by the
// legacy service) and is omitted from API responses via Public.
type Donor struct {
	ID         string    `bson:"id" json:"id"`
	Phone      string    `bson:"phone" json:"phone"`
	Pincode    string    `bson:"pincode" json:"pincode"`
	Password   string    `bson:"password" json:"password,omitempty"`
	City       string    `bson:"city" json:"city"`
	State      string    `bson:"state" json:"state"`
	Location   string    `bson:"location" json:"location"`
	BloodGroup *string   `bson:"bloodGroup" json:"bloodGroup"`
	CreatedAt  time.Time `bson:"createdAt" json:"createdAt"`
}

// Public returns a copy without the credential.
func (d Donor) Public() Donor {
	d.Password = ""
	return d
}

// Hospital raises blood requests.
type Hospital struct {
	ID        string    `bson:"id" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Email     string    `bson:"email" json:"email"`
	Address   string    `bson:"address" json:"address"`
	Password  string    `bson:"password" json:"password,omitempty"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

func (h Hospital) Public() Hospital {
	h.Password = ""
	return h
}

// BloodBank organizes donation drives and approves hospital requests.
type BloodBank struct {
	ID        string    `bson:"id" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Email     string    `bson:"email" json:"email"`
	Address   string    `bson:"address" json:"address"`
	Password  string    `bson:"password" json:"password,omitempty"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

func (b BloodBank) Public() BloodBank {
	b.Password = ""
	return b
}
