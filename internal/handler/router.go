// internal/handler/router.go
package handler

import (
	"finance-tracker/internal/middleware"

	"github.com/gin-gonic/gin"
)

type RouterOptions struct {
	CORSOrigins []string
	// Auth != nil включает JWT для роутов с данными.
	Auth *middleware.AuthMiddleware
}

func NewRouter(finance *FinanceHandler, login *AuthHandler, opts RouterOptions) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(middleware.CORS(opts.CORSOrigins))

	router.GET("/health", finance.Health)
	router.GET("/exchange-rate", finance.ExchangeRate)
	if login != nil {
		router.POST("/login", login.Login)
	}

	api := router.Group("/")
	if opts.Auth != nil {
		api.Use(opts.Auth.RequireAuth())
	}
	{
		api.POST("/transactions", finance.CreateTransaction)
		api.GET("/transactions", finance.ListTransactions)
		api.GET("/spending-report", finance.SpendingReport)
		api.GET("/categories", finance.ListCategories)
	}
	return router
}
