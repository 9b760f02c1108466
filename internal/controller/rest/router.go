package rest

import (
	"coursepay/internal/controller/rest/handlers"

	"github.com/gin-gonic/gin"
)

type Router struct {
	payment handlers.PaymentHandler
	webhook handlers.WebhookHandler
	account handlers.AccountHandler
}

func NewRouter(payment handlers.PaymentHandler, webhook handlers.WebhookHandler, account handlers.AccountHandler) *Router {
	return &Router{
		payment: payment,
		webhook: webhook,
		account: account,
	}
}

func (r *Router) SetUp(engine *gin.Engine) {
	engine.POST("/webhooks/stripe", r.webhook.Stripe)

	engine.POST("/payments/intent", r.payment.CreateIntent)
	engine.POST("/payments/confirm", r.payment.Confirm)
	engine.GET("/payments/user", r.payment.UserPayments)

	engine.POST("/users/sync-role", r.account.SyncRole)
	engine.GET("/users/check-enrollment", r.account.CheckEnrollment)
}
