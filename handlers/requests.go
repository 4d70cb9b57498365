package handlers

import (
	"net/http"

	"github.com/bloodsync/bloodsync/internal/requests"
	"github.com/gin-gonic/gin"
)

type createBloodRequest struct {
	HospitalID string `json:"hospitalId"`
	BloodGroup string `json:"bloodGroup"`
	Units      int    `json:"units"`
}

type approveRequest struct {
	BloodBankID string `json:"bloodBankId"`
}

// RequestHandler serves hospital blood requests.
type RequestHandler struct {
	svc *requests.Service
}

func NewRequestHandler(s *requests.Service) *RequestHandler {
	return &RequestHandler{svc: s}
}

func (h *RequestHandler) Register(rg *gin.RouterGroup) {
	rg.POST("/hospital/requests", h.Create)
	rg.GET("/hospitals/:id/requests", h.ListForHospital)
	rg.GET("/blood-bank/requests/pending", h.ListPending)
	rg.POST("/blood-bank/requests/:id/approve", h.Approve)
}

func (h *RequestHandler) Create(c *gin.Context) {
	var req createBloodRequest
	if !bindJSON(c, &req) {
		return
	}
	r, err := h.svc.Create(c.Request.Context(), requests.CreateInput{HospitalID: req.HospitalID, BloodGroup: req.BloodGroup, Units: req.Units})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Blood request created successfully", "requestId": r.ID, "request": r})
}

func (h *RequestHandler) ListForHospital(c *gin.Context) {
	out, err := h.svc.ListForHospital(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "requests": out})
}

func (h *RequestHandler) ListPending(c *gin.Context) {
	out, err := h.svc.ListPending(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "requests": out})
}

func (h *RequestHandler) Approve(c *gin.Context) {
	var req approveRequest
	if !bindJSON(c, &req) {
		return
	}
	r, err := h.svc.Approve(c.Request.Context(), c.Param("id"), req.BloodBankID)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Request approved", "request": r})
}
