package handlers

import (
	"errors"
	"net/http"

	"coursepay/internal/domain/account"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type AccountHandler struct {
	service *account.AccountService
}

func NewAccountHandler(s *account.AccountService) AccountHandler {
	return AccountHandler{service: s}
}

type syncRoleBody struct {
	Email string `json:"email" binding:"required,email"`
}

// SyncRole re-derives the role from the payment ledger for clients whose
// session predates their first purchase.
func (h *AccountHandler) SyncRole(c *gin.Context) {
	var body syncRoleBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing email"})
		return
	}

	role, err := h.service.SyncRole(c.Request.Context(), body.Email)
	if err != nil {
		if errors.Is(err, account.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"role": string(role)})
}

func (h *AccountHandler) CheckEnrollment(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing email"})
		return
	}

	courseID, err := uuid.Parse(c.Query("course_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid course_id"})
		return
	}

	enrollment, err := h.service.CheckEnrollment(c.Request.Context(), email, courseID)
	if err != nil {
		if errors.Is(err, account.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	if enrollment == nil {
		c.JSON(http.StatusOK, gin.H{"enrolled": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"enrolled":    true,
		"enrolled_at": enrollment.EnrolledAt.UTC(),
	})
}
