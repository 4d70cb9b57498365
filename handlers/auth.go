package handlers

import (
	"net/http"

	"github.com/bloodsync/bloodsync/internal/users"
	"github.com/gin-gonic/gin"
)

type registerDonorRequest struct {
	Phone    string `json:"phone"`
	Pincode  string `json:"pincode"`
	Password string `json:"password"`
}

// registerOrganizationRequest is shared by hospitals and blood banks.
type registerOrganizationRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Address  string `json:"address"`
	Password string `json:"password"`
}

func (r registerOrganizationRequest) input() users.OrganizationInput {
	return users.OrganizationInput{Name: r.Name, Email: r.Email, Address: r.Address, Password: r.Password}
}

// LoginRequest identifies donors by phone and organizations by email or id.
type LoginRequest struct {
	Role       string `json:"role"`
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// AuthHandler holds dependencies
type AuthHandler struct {
	usersSvc *users.Service
}

func NewAuthHandler(u *users.Service) *AuthHandler {
	return &AuthHandler{usersSvc: u}
}

// Register routes under /auth
func (h *AuthHandler) Register(rg *gin.RouterGroup) {
	a := rg.Group("/auth")
	a.POST("/register/donor", h.RegisterDonor)
	a.POST("/register/hospital", h.RegisterHospital)
	a.POST("/register/blood-bank", h.RegisterBloodBank)
	a.POST("/login", h.Login)
}

func (h *AuthHandler) RegisterDonor(c *gin.Context) {
	var req registerDonorRequest
	if !bindJSON(c, &req) {
		return
	}
	d, err := h.usersSvc.RegisterDonor(c.Request.Context(), users.DonorInput{Phone: req.Phone, Pincode: req.Pincode, Password: req.Password})
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Donor registered successfully", "userId": d.ID})
}

func (h *AuthHandler) RegisterHospital(c *gin.Context) {
	var req registerOrganizationRequest
	if !bindJSON(c, &req) {
		return
	}
	hosp, err := h.usersSvc.RegisterHospital(c.Request.Context(), req.input())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Hospital registered successfully", "hospitalId": hosp.ID})
}

func (h *AuthHandler) RegisterBloodBank(c *gin.Context) {
	var req registerOrganizationRequest
	if !bindJSON(c, &req) {
		return
	}
	bank, err := h.usersSvc.RegisterBloodBank(c.Request.Context(), req.input())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Blood bank registered successfully", "bloodBankId": bank.ID})
}

// Login checks credentials and returns the account record. No session or
// token is issued.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.usersSvc.Login(c.Request.Context(), req.Role, req.Identifier, req.Password)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Login successful", "user": res.User, "role": res.Role})
}
