package router

import (
	"fmt"
	"log/slog"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/polkiloo/storepickup/internal/config"
	"github.com/polkiloo/storepickup/internal/domain/model"
	"github.com/polkiloo/storepickup/internal/pkg/validation"
	"github.com/polkiloo/storepickup/internal/server/http/handlers"
	"github.com/polkiloo/storepickup/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.PickupFacade, cfg *config.Config, logger *slog.Logger) (*gin.Engine, error) {
	if err := validation.RegisterBinding(); err != nil {
		return nil, fmt.Errorf("register validators: %w", err)
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithDecompressFn(gzip.DefaultDecompressHandle)))

	authHandler := handlers.NewAuthHandler(facade)
	storeHandler := handlers.NewStoreHandler(facade, handlers.GeoDefaults{
		Point:    model.Point{Lat: cfg.DefaultLat, Lng: cfg.DefaultLng},
		RadiusKm: cfg.DefaultRadiusKm,
	})
	orderHandler := handlers.NewOrderHandler(facade, facade)
	staffHandler := handlers.NewStaffHandler(facade)
	healthHandler := handlers.NewHealthHandler(facade)

	api := engine.Group("/api")
	api.GET("/health", healthHandler.Check)

	stores := api.Group("/stores")
	stores.GET("", storeHandler.List)
	stores.GET("/nearby", storeHandler.Nearby)
	stores.GET("/:id", storeHandler.Get)
	stores.GET("/:id/open", storeHandler.Open)
	stores.GET("/:id/slots", storeHandler.Slots)
	stores.GET("/:id/estimate", storeHandler.Estimate)

	api.POST("/pickup/verify", orderHandler.Verify)

	user := api.Group("/user")
	user.POST("/register", authHandler.Register)
	user.POST("/login", authHandler.Login)

	userAuth := user.Group("")
	userAuth.Use(middleware.AuthRequired(facade))
	userAuth.POST("/orders", orderHandler.Create)
	userAuth.GET("/orders", orderHandler.List)
	userAuth.GET("/orders/:id", orderHandler.Get)
	userAuth.POST("/orders/:id/cancel", orderHandler.Cancel)

	staff := api.Group("/staff")
	staff.Use(middleware.StaffKeyRequired(cfg.StaffAPIKey))
	staff.GET("/orders", staffHandler.ByStatus)
	staff.POST("/orders/:id/:action", staffHandler.Advance)
	staff.GET("/stores/:id/orders", staffHandler.ByStore)
	staff.POST("/verify", staffHandler.Verify)

	return engine, nil
}
