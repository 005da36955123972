package api

import (
	"database/sql"
	"log"
	stdhttp "net/http"

	"github.com/gin-gonic/gin"

	"eventadmin/internal/authz"
	intconfig "eventadmin/internal/config"
	"eventadmin/internal/domain/models"
	h "eventadmin/internal/http/handlers"
	"eventadmin/internal/http/middleware"
	"eventadmin/internal/notify"
)

func NewRouter(env intconfig.Env, db *sql.DB, notifier notify.Notifier) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS(env.AllowedOrigins))

	if err := r.SetTrustedProxies(nil); err != nil {
		log.Printf("warning: failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	system := h.SystemHandler{DB: db}
	auth := h.AuthHandler{DB: db, Secret: []byte(env.JWTSecret)}
	users := h.UserHandler{DB: db}
	venues := h.VenueHandler{DB: db}
	categories := h.CategoryHandler{DB: db}
	bookables := h.BookableHandler{DB: db}
	budgets := h.BudgetHandler{DB: db, Notifier: notifier}
	expenses := h.ExpenseHandler{DB: db}
	reports := h.ReportHandler{DB: db}

	api := r.Group("/api")
	{
		api.GET("/health", system.Health)
		api.GET("/db-check", system.DBCheck)
		api.POST("/auth/login", auth.Login)

		authed := api.Group("")
		authed.Use(middleware.Auth([]byte(env.JWTSecret)))

		authed.GET("/auth/me", auth.Me)

		// Users (admin only; role enforcement repeats inside the service)
		u := authed.Group("/users")
		u.GET("", users.List)
		u.GET("/:id", users.Get)
		u.POST("", middleware.RequireRoles(authz.Roles(authz.ActionManageUsers)...), users.Create)
		u.PUT("/:id", middleware.RequireRoles(authz.Roles(authz.ActionManageUsers)...), users.Update)
		u.DELETE("/:id", middleware.RequireRoles(authz.Roles(authz.ActionDeleteUser)...), users.Delete)

		// Venues
		v := authed.Group("/venues")
		v.GET("", venues.List)
		v.GET("/:id", venues.Get)
		v.POST("", middleware.RequireRoles(authz.Roles(authz.ActionManageVenues)...), venues.Create)
		v.PUT("/:id", middleware.RequireRoles(authz.Roles(authz.ActionManageVenues)...), venues.Update)
		v.DELETE("/:id", middleware.RequireRoles(authz.Roles(authz.ActionManageVenues)...), venues.Delete)

		// Budget/expense categories
		cat := authed.Group("/categories")
		cat.GET("", categories.List)
		cat.POST("", middleware.RequireRoles(authz.Roles(authz.ActionManageCategories)...), categories.Create)
		cat.PUT("/:id", middleware.RequireRoles(authz.Roles(authz.ActionManageCategories)...), categories.Update)

		// Events and workshops share one lifecycle; mount the same handlers
		// under both prefixes with the kind fixed per group.
		mountBookable(authed.Group("/events"), models.KindEvent, bookables, budgets, expenses, reports)
		mountBookable(authed.Group("/workshops"), models.KindWorkshop, bookables, budgets, expenses, reports)

		// Expense edits address the expense directly.
		authed.PUT("/expenses/:id", expenses.Update)
		authed.DELETE("/expenses/:id", expenses.Delete)
	}

	return r
}

func mountBookable(g *gin.RouterGroup, kind string, bookables h.BookableHandler, budgets h.BudgetHandler, expenses h.ExpenseHandler, reports h.ReportHandler) {
	g.GET("", bookables.List(kind))
	g.POST("", bookables.Create(kind))
	g.GET("/:id", bookables.Get)
	g.PATCH("/:id", bookables.Update)
	g.DELETE("/:id", bookables.Delete)
	g.POST("/:id/complete", bookables.Complete)
	g.POST("/:id/venue", bookables.AssignVenue)
	g.GET("/:id/audit", bookables.Audit)

	g.GET("/:id/budget", budgets.ListLines)
	g.POST("/:id/budget", budgets.Submit)
	g.POST("/:id/budget/review", budgets.Review)
	g.GET("/:id/budget/approvals", budgets.ListApprovals)

	g.GET("/:id/expenses", expenses.List)
	g.POST("/:id/expenses", expenses.Create)

	g.GET("/:id/summary", reports.Summary)
	g.GET("/:id/summary/pdf", reports.SummaryPDF)
}
