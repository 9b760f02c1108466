package handlers

import (
	"errors"
	"net/http"

	"coursepay/internal/domain/account"
	"coursepay/internal/domain/catalog"
	"coursepay/internal/domain/gateway"
	"coursepay/internal/domain/payment"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PaymentHandler struct {
	service *payment.PaymentService
}

func NewPaymentHandler(s *payment.PaymentService) PaymentHandler {
	return PaymentHandler{service: s}
}

type createIntentBody struct {
	Price     float64 `json:"price" binding:"required"`
	UserEmail string  `json:"user_email" binding:"required,email"`
	CourseID  string  `json:"course_id" binding:"required,uuid"`
}

func (h *PaymentHandler) CreateIntent(c *gin.Context) {
	var body createIntentBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	courseID, err := uuid.Parse(body.CourseID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid course_id"})
		return
	}

	res, err := h.service.CreateIntent(c.Request.Context(), payment.CreateIntentRequest{
		Price:     body.Price,
		UserEmail: body.UserEmail,
		CourseID:  courseID,
	})
	if err != nil {
		if errors.Is(err, payment.ErrInvalidAmount) || errors.Is(err, payment.ErrAmountTooSmall) {
			c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		} else if errors.Is(err, account.ErrUserNotFound) || errors.Is(err, catalog.ErrCourseNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
		} else if errors.Is(err, payment.ErrAlreadyPurchased) {
			c.JSON(http.StatusConflict, gin.H{"message": err.Error()})
		} else if errors.Is(err, gateway.ErrUnavailable) {
			c.JSON(http.StatusBadGateway, gin.H{"message": err.Error()})
		} else if errors.Is(err, gateway.ErrRejected) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"message": err.Error()})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, res)
}

type confirmBody struct {
	IntentID string `json:"payment_intent_id" binding:"required"`
}

type paymentView struct {
	IntentID    string  `json:"id"`
	AmountMinor int64   `json:"amount_minor"`
	Currency    string  `json:"currency"`
	Status      string  `json:"status"`
	CourseTitle string  `json:"course_title"`
	ReceiptURL  *string `json:"receipt_url,omitempty"`
	CreatedAt   string  `json:"created_at"`
}

func toPaymentView(p payment.Payment) paymentView {
	return paymentView{
		IntentID:    p.IntentID,
		AmountMinor: p.AmountMinor,
		Currency:    p.Currency,
		Status:      string(p.Status),
		CourseTitle: p.CourseTitle(),
		ReceiptURL:  p.ReceiptURL,
		CreatedAt:   p.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

// Confirm reconciles the intent against the processor's canonical status.
// The client-reported outcome is never trusted, only the intent id is taken.
func (h *PaymentHandler) Confirm(c *gin.Context) {
	var body confirmBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing payment_intent_id"})
		return
	}

	p, err := h.service.Reconcile(c.Request.Context(), body.IntentID)
	if err != nil {
		if errors.Is(err, payment.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
		} else if errors.Is(err, gateway.ErrUnavailable) || errors.Is(err, gateway.ErrIntentNotFound) {
			c.JSON(http.StatusBadGateway, gin.H{"message": err.Error()})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, toPaymentView(p))
}

func (h *PaymentHandler) UserPayments(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Missing email"})
		return
	}

	res, err := h.service.UserPayments(c.Request.Context(), email)
	if err != nil {
		if errors.Is(err, account.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
		return
	}

	views := make([]paymentView, 0, len(res.Payments))
	for _, p := range res.Payments {
		views = append(views, toPaymentView(p))
	}

	c.JSON(http.StatusOK, gin.H{
		"payments":          views,
		"total_spent_minor": res.TotalSpentMinor,
	})
}
