package httpserver

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/sweetly/sweetly-server/internal/middleware"
)

type Deps struct {
	Auth   *AuthHTTP
	Sweet  *SweetHTTP
	Order  *OrderHTTP
	AuthMW *middleware.AuthMiddleware
	Logger *slog.Logger

	// Rate limits are per client IP; zero values pick the defaults.
	GlobalRate  rate.Limit
	GlobalBurst int
	AuthRate    rate.Limit
	AuthBurst   int
}

func Register(e *echo.Echo, d *Deps) {
	if d.GlobalRate == 0 {
		d.GlobalRate = 20
		d.GlobalBurst = 40
	}
	if d.AuthRate == 0 {
		d.AuthRate = 1
		d.AuthBurst = 10
	}

	e.HideBanner = true
	e.HTTPErrorHandler = ErrorHandler()
	e.Use(echomw.Recover())
	if d.Logger != nil {
		e.Use(middleware.RequestLogger(d.Logger))
	}

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"ok": true})
	})

	api := e.Group("/api", rateLimit(d.GlobalRate, d.GlobalBurst))

	auth := api.Group("/auth", rateLimit(d.AuthRate, d.AuthBurst))
	auth.POST("/register", d.Auth.Register)
	auth.POST("/login", d.Auth.Login)
	auth.POST("/refresh", d.Auth.Refresh)
	auth.POST("/logout", d.Auth.Logout)

	user := api.Group("/user")
	user.GET("/sweets", d.Sweet.List)
	user.GET("/sweets/search", d.Sweet.SearchSweets)
	user.GET("/sweets/fts", d.Sweet.FullTextSearch)
	user.POST("/sweets/:id/purchase", d.Sweet.Purchase, d.AuthMW.RequireAuth)

	admin := api.Group("/admin", d.AuthMW.RequireAdmin)
	admin.POST("/sweets", d.Sweet.Create)
	admin.PUT("/sweets/:id", d.Sweet.Update)
	admin.DELETE("/sweets/:id", d.Sweet.Delete)
	admin.POST("/sweets/:id/restock", d.Sweet.Restock)

	orders := api.Group("/orders")
	orders.POST("", d.Order.Create, d.AuthMW.RequireAuth)
	orders.GET("", d.Order.All, d.AuthMW.RequireAdmin)
	orders.GET("/my-orders", d.Order.MyOrders, d.AuthMW.RequireAuth)
	orders.GET("/:orderId", d.Order.ByID, d.AuthMW.RequireAuth)
	orders.PUT("/:orderId/status", d.Order.UpdateStatus, d.AuthMW.RequireAdmin)
}

func rateLimit(r rate.Limit, burst int) echo.MiddlewareFunc {
	return echomw.RateLimiterWithConfig(echomw.RateLimiterConfig{
		Store: echomw.NewRateLimiterMemoryStoreWithConfig(echomw.RateLimiterMemoryStoreConfig{
			Rate:      r,
			Burst:     burst,
			ExpiresIn: 3 * time.Minute,
		}),
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return echo.NewHTTPError(http.StatusTooManyRequests, "Too many requests, please try again later")
		},
	})
}
