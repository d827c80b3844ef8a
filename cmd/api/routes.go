package main

import (
	"newsdesk-platform/internal/auth"
	"newsdesk-platform/internal/httpapi"
	"newsdesk-platform/internal/rbac"
	"newsdesk-platform/internal/whatsapp"

	"github.com/gin-gonic/gin"
)

// registerRoutes wires HTTP routes to handlers.
// Keep this file free of business logic. Handlers should delegate to internal modules.
func registerRoutes(r *gin.Engine, webhook whatsapp.WebhookHandler, h httpapi.Handlers, authMW gin.HandlerFunc) {
	// public
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// WhatsApp Cloud API webhooks (public). GET answers the subscription
	// handshake; POST receives inbound messages and delivery receipts.
	r.GET("/webhooks/whatsapp", webhook.HandleVerify)
	r.POST("/webhooks/whatsapp", webhook.HandleReceive)

	// AUTH routes (token issuance).
	// NOTE: This is a placeholder login route; real credential validation is not implemented.
	r.POST("/auth/login", h.Login)

	// protected API group
	v1 := r.Group("/v1")
	v1.Use(authMW)
	{
		v1.GET("/me", func(c *gin.Context) {
			uid, _ := auth.UserID(c.Request.Context())
			role, _ := auth.Role(c.Request.Context())
			c.JSON(200, gin.H{"user_id": uid, "role": role})
		})

		// TASK routes: desk staff create and dispatch assignments; the
		// cancel/reassign overrides are editor-or-admin only.
		tasksGroup := v1.Group("/tasks")
		tasksGroup.Use(rbac.RequireAnyRole(rbac.RoleEditor, rbac.RoleAdmin))
		{
			tasksGroup.POST("", h.CreateTask)
			tasksGroup.GET("/:task_id", h.GetTask)
			tasksGroup.POST("/:task_id/send", h.SendAssignment)
			tasksGroup.POST("/:task_id/cancel", h.CancelTask)
			tasksGroup.POST("/:task_id/reassign", h.ReassignTask)
			tasksGroup.GET("/:task_id/expenses", h.ListTaskExpenses)
		}

		// EXPENSE review
		expensesGroup := v1.Group("/expenses")
		expensesGroup.Use(rbac.RequireAnyRole(rbac.RoleEditor, rbac.RoleAdmin))
		{
			expensesGroup.POST("/:expense_id/approve", h.ApproveExpense)
			expensesGroup.POST("/:expense_id/reject", h.RejectExpense)
		}

		// REPORTING
		reports := v1.Group("/reports")
		reports.Use(rbac.RequireAnyRole(rbac.RoleEditor, rbac.RoleAdmin))
		{
			reports.GET("/tasks", h.TasksSummary)
			reports.GET("/expenses", h.ExpenseSummary)
		}
	}
}
