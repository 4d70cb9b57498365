package handlers

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (a *testAPI) registerBank(t *testing.T) string {
	t.Helper()
	code, body := a.do(t, "POST", "/api/auth/register/blood-bank", gin.H{"name": "Central Bank", "email": "bank@central.example", "address": "1 Ring Road, Delhi", "password": "bank-pass"})
	require.Equal(t, http.StatusOK, code)
	return body["bloodBankId"].(string)
}

func (a *testAPI) registerDonor(t *testing.T, phone string) string {
	t.Helper()
	code, body := a.do(t, "POST", "/api/auth/register/donor", gin.H{"phone": phone, "pincode": "110001", "password": "secret1"})
	require.Equal(t, http.StatusOK, code)
	return body["userId"].(string)
}

func futureDate(days int) string {
	return time.Now().UTC().AddDate(0, 0, days).Format("2006-01-02")
}

// Blood bank creates a drive, a donor registers, the upcoming list shows the count.
func TestDriveLifecycle(t *testing.T) {
	api := newTestAPI(t)
	bankID := api.registerBank(t)
	donorID := api.registerDonor(t, "9876543210")

	code, body := api.do(t, "POST", "/api/blood-bank/drives", gin.H{"bloodBankId": bankID, "title": "Spring Drive", "date": futureDate(7)})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Drive created successfully", body["message"])
	driveID := body["driveId"].(string)
	drive := body["drive"].(map[string]interface{})
	assert.Equal(t, driveID, drive["id"])
	assert.Equal(t, "1 Ring Road, Delhi", drive["location"])
	assert.Equal(t, "9:00 AM - 5:00 PM", drive["time"])
	assert.Equal(t, "Central Bank", drive["organizer"])
	assert.Equal(t, "upcoming", drive["status"])
	assert.Equal(t, float64(100), drive["maxCapacity"])
	assert.Equal(t, float64(0), drive["registrations"])

	code, body = api.do(t, "POST", "/api/drives/"+driveID+"/register", gin.H{"donorId": donorID})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Successfully registered for drive", body["message"])
	assert.Equal(t, float64(1), body["registrations"])
	assert.NotEmpty(t, body["registrationId"])

	code, body = api.do(t, "POST", "/api/drives/"+driveID+"/register", gin.H{"donorId": donorID})
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "Already registered for this drive", body["message"])

	code, body = api.do(t, "GET", "/api/drives/upcoming", nil)
	require.Equal(t, http.StatusOK, code)
	list := body["drives"].([]interface{})
	require.Len(t, list, 1)
	assert.Equal(t, float64(1), list[0].(map[string]interface{})["registrations"])

	code, body = api.do(t, "GET", "/api/blood-banks/"+bankID+"/drives", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, body["drives"], 1)
}

func TestDriveEndpointErrors(t *testing.T) {
	api := newTestAPI(t)
	bankID := api.registerBank(t)
	donorID := api.registerDonor(t, "9876543210")

	code, body := api.do(t, "POST", "/api/blood-bank/drives", gin.H{"bloodBankId": bankID, "title": "No date"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Blood bank ID, title, and date are required", body["message"])

	code, body = api.do(t, "POST", "/api/blood-bank/drives", gin.H{"bloodBankId": bankID, "title": "Bad date", "date": "31/12/2026"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Date must be a valid date (YYYY-MM-DD)", body["message"])

	code, body = api.do(t, "POST", "/api/blood-bank/drives", gin.H{"bloodBankId": "bb-missing", "title": "x", "date": futureDate(1)})
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Blood bank not found", body["message"])

	code, body = api.do(t, "POST", "/api/drives/drive-missing/register", gin.H{"donorId": donorID})
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Drive not found", body["message"])

	code, body = api.do(t, "POST", "/api/drives/drive-missing/register", gin.H{})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Donor ID is required", body["message"])

	code, _ = api.do(t, "GET", "/api/blood-banks/bb-missing/drives", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestUpcomingEmptyIsArray(t *testing.T) {
	api := newTestAPI(t)
	code, body := api.do(t, "GET", "/api/drives/upcoming", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, []interface{}{}, body["drives"])
}

func TestDriveCapacityOverHTTP(t *testing.T) {
	api := newTestAPI(t)
	bankID := api.registerBank(t)
	_, body := api.do(t, "POST", "/api/blood-bank/drives", gin.H{"bloodBankId": bankID, "title": "Tiny", "date": futureDate(3)})
	driveID := body["driveId"].(string)

	// shrink the drive so the limit is reachable
	doc, err := api.store.Snapshot(t.Context())
	require.NoError(t, err)
	doc.DriveByID(driveID).MaxCapacity = 2
	require.NoError(t, api.store.Replace(t.Context(), doc))

	for i := 0; i < 2; i++ {
		donor := api.registerDonor(t, fmt.Sprintf("900000000%d", i))
		code, _ := api.do(t, "POST", "/api/drives/"+driveID+"/register", gin.H{"donorId": donor})
		require.Equal(t, http.StatusOK, code)
	}
	donor := api.registerDonor(t, "9000000009")
	code, body := api.do(t, "POST", "/api/drives/"+driveID+"/register", gin.H{"donorId": donor})
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "Drive is at full capacity", body["message"])
	assert.Equal(t, "capacity_reached", body["code"])
}

func TestListBloodBanksEndpoint(t *testing.T) {
	api := newTestAPI(t)
	bankID := api.registerBank(t)

	code, body := api.do(t, "GET", "/api/blood-banks", nil)
	require.Equal(t, http.StatusOK, code)
	banks := body["bloodBanks"].([]interface{})
	require.Len(t, banks, 1)
	bank := banks[0].(map[string]interface{})
	assert.Equal(t, bankID, bank["id"])
	assert.NotContains(t, bank, "password")
}
