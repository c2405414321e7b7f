package routes

import (
	"net/http"
	"os"

	"fileweb/internal/config"
	"fileweb/internal/controllers"
	"fileweb/internal/logging"
	"fileweb/internal/metrics"
	"fileweb/internal/middleware"
	"fileweb/internal/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Dependencies holds the services the router exposes
type Dependencies struct {
	Config   *config.Config
	Explorer *services.Explorer
	Usage    *services.UsageCache
	Hub      *services.WebSocketHub
	Auth     *services.AuthService // nil when auth is disabled
	Logger   *logging.Logger
}

// NewRouter builds the gin engine with middleware and every route registered
func NewRouter(deps Dependencies) *gin.Engine {
	cfg := deps.Config
	logger := deps.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	secLog := middleware.NewSecurityLogger(logger)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logger))
	r.Use(metrics.Middleware())
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.CORS(middleware.DefaultCORSConfig(cfg.CORS.Origins)))
	r.Use(middleware.IPWhitelistMiddleware(middleware.NewIPWhitelist(cfg.Server.AllowedIPs), secLog))
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst))
		r.Use(middleware.RateLimitMiddleware(
			middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst), secLog))
	}

	RegisterSystemRoutes(r)

	api := r.Group("/")
	if deps.Auth != nil {
		api.Use(middleware.AuthMiddleware(deps.Auth, secLog))
	}
	RegisterFileRoutes(api,
		controllers.NewFilesController(deps.Explorer),
		controllers.NewThumbnailController(deps.Explorer))
	RegisterDriveRoutes(api,
		controllers.NewDrivesController(deps.Explorer, deps.Usage),
		controllers.NewLocationsController(deps.Explorer))

	// The websocket controller checks tokens itself so it can log the connection attempt
	RegisterWebSocketRoutes(r,
		controllers.NewWebSocketController(deps.Hub, deps.Auth, secLog, logger),
		middleware.RateLimitMiddleware(middleware.NewConnectionRateLimiter(), secLog))

	registerStatic(r, cfg.Server.StaticDir, logger)
	return r
}

// registerStatic serves the browser client from dir when it exists
func registerStatic(r *gin.Engine, dir string, logger *logging.Logger) {
	notFound := func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "route not found", "code": string(services.KindNotFound)})
	}

	if info, err := os.Stat(dir); dir == "" || err != nil || !info.IsDir() {
		logger.Info("Static client disabled", zap.String("dir", dir))
		r.NoRoute(notFound)
		return
	}

	files := http.FileServer(gin.Dir(dir, false))
	r.NoRoute(func(c *gin.Context) {
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			notFound(c)
			return
		}
		files.ServeHTTP(c.Writer, c.Request)
	})
	logger.Info("Serving static client", zap.String("dir", dir))
}
