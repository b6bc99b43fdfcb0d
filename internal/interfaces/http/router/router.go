package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/paydesk/backend/internal/domain/identity"
	"github.com/paydesk/backend/internal/infrastructure/auth"
	"github.com/paydesk/backend/internal/interfaces/http/handler"
	"github.com/paydesk/backend/internal/interfaces/http/middleware"
)

// Handlers bundles every HTTP handler the router mounts
type Handlers struct {
	Auth            *handler.AuthHandler
	Users           *handler.UserHandler
	Roles           *handler.RoleHandler
	Companies       *handler.CompanyHandler
	PaymentRequests *handler.PaymentRequestHandler
	ExpenseRequests *handler.ExpenseRequestHandler
	Notifications   *handler.NotificationHandler
}

// Setup builds the gin engine and mounts all routes under /api. Every
// route except login requires a valid token; write routes additionally
// require the matching permission.
func Setup(jwtManager *auth.JWTManager, checker middleware.PermissionChecker, logger *zap.Logger, h Handlers) *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := engine.Group("/api")
	api.POST("/auth/login", h.Auth.Login)

	authed := api.Group("")
	authed.Use(middleware.Authenticate(jwtManager))

	perm := func(resource identity.Resource, action identity.Action) gin.HandlerFunc {
		return middleware.RequirePermission(checker, logger, identity.NewPermission(resource, action))
	}

	authed.GET("/auth/me", h.Auth.Me)
	authed.POST("/auth/change-password", h.Auth.ChangePassword)

	users := authed.Group("/users")
	{
		users.GET("", perm(identity.ResourceUser, identity.ActionRead), h.Users.List)
		users.GET("/:id", perm(identity.ResourceUser, identity.ActionRead), h.Users.Get)
		users.POST("", perm(identity.ResourceUser, identity.ActionCreate), h.Users.Create)
		users.PUT("/:id", perm(identity.ResourceUser, identity.ActionUpdate), h.Users.Update)
		users.DELETE("/:id", perm(identity.ResourceUser, identity.ActionDelete), h.Users.Deactivate)
		users.GET("/:id/roles", perm(identity.ResourceRole, identity.ActionRead), h.Roles.UserRoles)
		users.PUT("/:id/roles", perm(identity.ResourceRole, identity.ActionManage), h.Roles.AssignToUser)
	}

	roles := authed.Group("/roles")
	{
		roles.GET("", perm(identity.ResourceRole, identity.ActionRead), h.Roles.List)
		roles.GET("/permissions", perm(identity.ResourceRole, identity.ActionRead), h.Roles.Permissions)
		roles.GET("/:id", perm(identity.ResourceRole, identity.ActionRead), h.Roles.Get)
		roles.POST("", perm(identity.ResourceRole, identity.ActionCreate), h.Roles.Create)
		roles.PUT("/:id", perm(identity.ResourceRole, identity.ActionUpdate), h.Roles.Update)
		roles.DELETE("/:id", perm(identity.ResourceRole, identity.ActionDelete), h.Roles.Delete)
	}

	company := authed.Group("/company")
	{
		company.GET("", perm(identity.ResourceCompany, identity.ActionRead), h.Companies.Get)
		company.PUT("", perm(identity.ResourceCompany, identity.ActionUpdate), h.Companies.Update)
		company.GET("/departments", perm(identity.ResourceDepartment, identity.ActionRead), h.Companies.ListDepartments)
		company.POST("/departments", perm(identity.ResourceDepartment, identity.ActionCreate), h.Companies.CreateDepartment)
	}

	payments := authed.Group("/payment-requests")
	{
		payments.GET("", perm(identity.ResourcePaymentRequest, identity.ActionRead), h.PaymentRequests.List)
		payments.GET("/statistics", perm(identity.ResourcePaymentRequest, identity.ActionRead), h.PaymentRequests.Statistics)
		payments.GET("/:id", perm(identity.ResourcePaymentRequest, identity.ActionRead), h.PaymentRequests.Get)
		payments.POST("", perm(identity.ResourcePaymentRequest, identity.ActionCreate), h.PaymentRequests.Create)
		payments.PUT("/:id", perm(identity.ResourcePaymentRequest, identity.ActionUpdate), h.PaymentRequests.Update)
		payments.PATCH("/:id/status", perm(identity.ResourcePaymentRequest, identity.ActionRead), h.PaymentRequests.ChangeStatus)
		payments.POST("/:id/payments", perm(identity.ResourcePaymentRequest, identity.ActionUpdate), h.PaymentRequests.ProcessPayment)
		payments.POST("/:id/payment-url", perm(identity.ResourcePaymentRequest, identity.ActionRead), h.PaymentRequests.PaymentURL)
		payments.DELETE("/:id", perm(identity.ResourcePaymentRequest, identity.ActionDelete), h.PaymentRequests.Delete)
	}

	expenses := authed.Group("/expense-requests")
	{
		expenses.GET("", perm(identity.ResourceExpenseRequest, identity.ActionRead), h.ExpenseRequests.List)
		expenses.GET("/categories", perm(identity.ResourceExpenseRequest, identity.ActionRead), h.ExpenseRequests.Categories)
		expenses.GET("/:id", perm(identity.ResourceExpenseRequest, identity.ActionRead), h.ExpenseRequests.Get)
		expenses.POST("", perm(identity.ResourceExpenseRequest, identity.ActionCreate), h.ExpenseRequests.Create)
		expenses.PUT("/:id", perm(identity.ResourceExpenseRequest, identity.ActionUpdate), h.ExpenseRequests.Update)
		expenses.PATCH("/:id/status", perm(identity.ResourceExpenseRequest, identity.ActionRead), h.ExpenseRequests.ChangeStatus)
		expenses.DELETE("/:id", perm(identity.ResourceExpenseRequest, identity.ActionDelete), h.ExpenseRequests.Delete)
	}

	notifications := authed.Group("/notifications")
	{
		notifications.GET("", h.Notifications.List)
		notifications.GET("/unread-count", h.Notifications.UnreadCount)
		notifications.PATCH("/:id/read", h.Notifications.MarkRead)
		notifications.POST("/read-all", h.Notifications.MarkAllRead)
		notifications.DELETE("/:id", h.Notifications.Delete)
	}

	return engine
}
