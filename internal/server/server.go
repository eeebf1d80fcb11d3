package server

import (
	"context"
	"net/http"
	"time"

	"sportslot/internal/auth"
	"sportslot/internal/booking"
	"sportslot/internal/config"
	"sportslot/internal/email"
	"sportslot/internal/export"
	"sportslot/internal/slot"
	"sportslot/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Server struct {
	router *gin.Engine
	http   *http.Server
	db     *sqlx.DB
	config *config.Config
}

func New(db *sqlx.DB, cfg *config.Config, emailService *email.Service) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(corsMiddleware(cfg.CORSOrigins))

	userRepo := user.NewRepository(db)
	slotRepo := slot.NewRepository(db)
	bookingRepo := booking.NewRepository(db)

	userService := user.NewService(userRepo, cfg.JWTSecret)
	slotService := slot.NewService(slotRepo)
	bookingService := booking.NewService(bookingRepo, slotRepo, userRepo, emailService)

	userHandler := user.NewHandler(userService)
	slotHandler := slot.NewHandler(slotService)
	bookingHandler := booking.NewHandler(bookingService)
	exportHandler := export.NewHandler(bookingService)

	public := router.Group("/auth")
	public.Use(RateLimitMiddleware(5, 10))
	{
		public.POST("/login", userHandler.Login)
	}

	authMiddleware := auth.AuthMiddleware(cfg.JWTSecret)
	protected := router.Group("/")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", userHandler.GetMe)
		protected.GET("/slots", slotHandler.ListForDate)
		protected.GET("/bookings/my", bookingHandler.ListMine)
		protected.POST("/bookings", bookingHandler.Book)
		protected.DELETE("/bookings/:bookingID", bookingHandler.Cancel)
	}

	admin := router.Group("/admin")
	admin.Use(authMiddleware, auth.RequireRole(auth.RoleAdmin))
	{
		admin.GET("/slots", slotHandler.ListAll)
		admin.POST("/slots", slotHandler.Create)
		admin.PUT("/slots/:slotID", slotHandler.Update)
		admin.POST("/slots/:slotID/deactivate", slotHandler.Deactivate)
		admin.GET("/bookings", bookingHandler.ListForSlot)
		admin.GET("/export", exportHandler.Export)
	}

	router.GET("/health", Health)
	router.GET("/metrics", Metrics())
	SetupSwagger(router)

	return &Server{
		router: router,
		db:     db,
		config: cfg,
	}
}

// Handler exposes the router, mainly for tests driving the server in-process.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start(port string) error {
	s.http = &http.Server{
		Addr:              ":" + port,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s.http.ListenAndServe()
}

// Shutdown drains in-flight requests before the process exits.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

func corsMiddleware(allowedOrigins string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", allowedOrigins)
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
