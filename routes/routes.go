package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"stem-orders/controllers"
	"stem-orders/middleware"
	"stem-orders/models"
)

type Controllers struct {
	Order     *controllers.OrderController
	Dashboard *controllers.DashboardController
	// Auth is nil when no operator account is configured.
	Auth *controllers.AuthController
}

func SetupRoutes(router *gin.Engine, ctrls Controllers, jwtSecret string) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, models.Response{Status: "ok", Message: "STEM Explorer orders"})
	})

	router.GET("/", ctrls.Order.ShowForm)
	router.POST("/orders", ctrls.Order.CreateOrder)

	dashboard := router.Group("/dashboard")
	if ctrls.Auth != nil {
		router.GET("/login", ctrls.Auth.ShowLogin)
		router.POST("/login", ctrls.Auth.Login)
		router.POST("/logout", ctrls.Auth.Logout)
		dashboard.Use(middleware.AuthMiddleware(jwtSecret))
	}
	{
		dashboard.GET("", ctrls.Dashboard.Show)
		dashboard.POST("/orders/:row/status", ctrls.Dashboard.UpdateStatus)
		dashboard.GET("/export.csv", ctrls.Dashboard.Export)
	}
}
