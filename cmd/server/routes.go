package main

import (
	"github.com/gin-gonic/gin"
	"habita-coop.backend/internal/interfaces/http/handlers"
	"habita-coop.backend/internal/interfaces/http/middleware"
)

type routeDeps struct {
	authHandler          *handlers.AuthHandler
	paymentHandler       *handlers.PaymentHandler
	webhookHandler       *handlers.WebhookHandler
	associationHandler   *handlers.AssociationHandler
	adminHandler         *handlers.AdminHandler
	contactHandler       *handlers.ContactHandler
	projectStatusHandler *handlers.ProjectStatusHandler
	termsHandler         *handlers.TermsHandler
	authMiddleware       gin.HandlerFunc
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	v1 := r.Group("/api/v1")
	{
		// Auth routes (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", d.authHandler.Register)
			auth.POST("/login", d.authHandler.Login)
			auth.POST("/association/login", d.authHandler.AssociationLogin)
			auth.POST("/logout", d.authMiddleware, d.authHandler.Logout)
			auth.GET("/me", d.authMiddleware, d.authHandler.Me)
		}

		// Member payment routes (protected)
		payments := v1.Group("/payments")
		payments.Use(d.authMiddleware)
		{
			payments.GET("", d.paymentHandler.ListMyPayments)
			payments.GET("/next", d.paymentHandler.NextInstallment)
			payments.GET("/compliance", d.paymentHandler.Compliance)
			payments.POST("/charge", d.paymentHandler.CreateCharge)
			payments.POST("/:id/mark-paid", d.paymentHandler.MarkPaidMine)
		}

		// Member construction progress (protected)
		v1.GET("/project-status", d.authMiddleware, d.projectStatusHandler.GetMine)

		// Terms of service
		terms := v1.Group("/terms")
		{
			terms.GET("", d.termsHandler.GetActive)
			terms.GET("/status", d.authMiddleware, d.termsHandler.Status)
			terms.POST("/:id/accept", d.authMiddleware, d.termsHandler.Accept)
		}

		// Public contact form
		v1.POST("/contacts", d.contactHandler.Create)

		// Association routes
		associations := v1.Group("/associations")
		{
			associations.POST("/register", d.associationHandler.Register)
			associations.GET("", d.associationHandler.ListPublic)

			me := associations.Group("/me")
			me.Use(d.authMiddleware, middleware.RequireAssociation())
			{
				me.GET("", d.associationHandler.GetMine)
				me.PUT("", d.associationHandler.UpdateMine)
				me.GET("/metrics", d.associationHandler.MyMetrics)
			}
		}

		// Gateway webhook (token-authenticated, not user-authenticated)
		webhooks := v1.Group("/webhooks")
		{
			webhooks.POST("/gateway", d.webhookHandler.HandleGatewayWebhook)
		}

		// Admin routes (protected)
		admin := v1.Group("/admin")
		admin.Use(d.authMiddleware, middleware.RequireAdmin())
		{
			admin.GET("/dashboard", d.adminHandler.Dashboard)
			admin.GET("/reports/payments", d.adminHandler.PaymentsReport)
			admin.GET("/reports/overdue", d.adminHandler.OverdueReport)

			admin.GET("/users", d.adminHandler.ListUsers)
			admin.GET("/users/:id", d.adminHandler.GetUser)
			admin.PUT("/users/:id", d.adminHandler.UpdateUser)
			admin.POST("/users/:id/reset-password", d.adminHandler.ResetUserPassword)
			admin.POST("/users/:id/toggle-active", d.adminHandler.ToggleUserActive)
			admin.GET("/users/:id/profile", d.adminHandler.GetUserProfile)
			admin.PUT("/users/:id/profile", d.adminHandler.UpdateUserProfile)
			admin.GET("/users/:id/compliance", d.paymentHandler.UserCompliance)
			admin.POST("/users/:id/payments/ensure-next", d.paymentHandler.EnsureNext)
			admin.PUT("/users/:id/project-status", d.projectStatusHandler.Upsert)

			admin.POST("/payments/:id/mark-paid", d.paymentHandler.MarkPaid)

			admin.GET("/associations", d.associationHandler.ListAll)
			admin.POST("/associations", d.associationHandler.Create)
			admin.GET("/associations/:id", d.associationHandler.Get)
			admin.PUT("/associations/:id", d.associationHandler.Update)
			admin.DELETE("/associations/:id", d.associationHandler.Delete)
			admin.POST("/associations/:id/approve", d.associationHandler.Approve)
			admin.POST("/associations/:id/toggle-active", d.associationHandler.ToggleActive)
			admin.POST("/associations/:id/set-default", d.associationHandler.SetDefault)
			admin.GET("/associations/:id/metrics", d.associationHandler.Metrics)

			admin.GET("/contacts", d.contactHandler.List)

			admin.POST("/terms", d.termsHandler.Publish)
			admin.GET("/terms", d.termsHandler.List)
		}
	}
}
