package handlers

import (
	"net/http"

	"github.com/bloodsync/bloodsync/internal/drives"
	"github.com/bloodsync/bloodsync/internal/users"
	"github.com/gin-gonic/gin"
)

type createDriveRequest struct {
	BloodBankID string `json:"bloodBankId"`
	Title       string `json:"title"`
	Date        string `json:"date"`
	Location    string `json:"location"`
	Time        string `json:"time"`
}

type driveRegisterRequest struct {
	DonorID string `json:"donorId"`
}

// DriveHandler serves donation drives and the blood bank directory.
type DriveHandler struct {
	drivesSvc *drives.Service
	usersSvc  *users.Service
}

func NewDriveHandler(d *drives.Service, u *users.Service) *DriveHandler {
	return &DriveHandler{drivesSvc: d, usersSvc: u}
}

func (h *DriveHandler) Register(rg *gin.RouterGroup) {
	rg.POST("/blood-bank/drives", h.CreateDrive)
	rg.GET("/drives/upcoming", h.ListUpcoming)
	rg.POST("/drives/:id/register", h.RegisterDonor)
	rg.GET("/blood-banks", h.ListBloodBanks)
	rg.GET("/blood-banks/:id/drives", h.ListForBloodBank)
}

func (h *DriveHandler) CreateDrive(c *gin.Context) {
	var req createDriveRequest
	if !bindJSON(c, &req) {
		return
	}
	v, err := h.drivesSvc.CreateDrive(c.Request.Context(), drives.CreateInput{
		BloodBankID: req.BloodBankID,
		Title:       req.Title,
		Date:        req.Date,
		Location:    req.Location,
		Time:        req.Time,
	})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Drive created successfully", "driveId": v.ID, "drive": v})
}

func (h *DriveHandler) ListUpcoming(c *gin.Context) {
	views, err := h.drivesSvc.ListUpcoming(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "drives": views})
}

func (h *DriveHandler) RegisterDonor(c *gin.Context) {
	var req driveRegisterRequest
	if !bindJSON(c, &req) {
		return
	}
	reg, err := h.drivesSvc.Register(c.Request.Context(), c.Param("id"), req.DonorID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Successfully registered for drive", "registrationId": reg.ID, "registrations": reg.Registrations})
}

func (h *DriveHandler) ListBloodBanks(c *gin.Context) {
	banks, err := h.usersSvc.BloodBanks(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "bloodBanks": banks})
}

func (h *DriveHandler) ListForBloodBank(c *gin.Context) {
	views, err := h.drivesSvc.ListForBloodBank(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "drives": views})
}
