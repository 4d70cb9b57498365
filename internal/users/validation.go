package users

import (
	"regexp"
	"unicode/utf8"

	"github.com/bloodsync/bloodsync/internal/apperr"
)

var (
	phoneRe   = regexp.MustCompile(`^\d{10}$`)
	pincodeRe = regexp.MustCompile(`^\d{6}$`)
	emailRe   = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

const (
	minPasswordLen = 6
	minNameLen     = 3
	minAddressLen  = 10
)

func validateDonor(in DonorInput) error {
	if in.Phone == "" || in.Pincode == "" || in.Password == "" {
		return apperr.Validation(apperr.CodeMissingFields, "Phone, pincode, and password are required")
	}
	if !phoneRe.MatchString(in.Phone) {
		return apperr.Validation(apperr.CodeInvalidFormat, "Phone number must be 10 digits")
	}
	if !pincodeRe.MatchString(in.Pincode) {
		return apperr.Validation(apperr.CodeInvalidFormat, "Pincode must be 6 digits")
	}
	return validatePassword(in.Password)
}

// validateOrganization covers hospitals and blood banks, which share a shape.
func validateOrganization(in OrganizationInput) error {
	if in.Name == "" || in.Email == "" || in.Address == "" || in.Password == "" {
		return apperr.Validation(apperr.CodeMissingFields, "Name, email, address, and password are required")
	}
	if utf8.RuneCountInString(in.Name) < minNameLen {
		return apperr.Validation(apperr.CodeInvalidFormat, "Name must be at least 3 characters")
	}
	if !emailRe.MatchString(in.Email) {
		return apperr.Validation(apperr.CodeInvalidFormat, "Invalid email format")
	}
	if utf8.RuneCountInString(in.Address) < minAddressLen {
		return apperr.Validation(apperr.CodeInvalidFormat, "Address must be at least 10 characters")
	}
	return validatePassword(in.Password)
}

func validatePassword(pw string) error {
	if utf8.RuneCountInString(pw) < minPasswordLen {
		return apperr.Validation(apperr.CodeWeakPassword, "Password must be at least 6 characters")
	}
	return nil
}
