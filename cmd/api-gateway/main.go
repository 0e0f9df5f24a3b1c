package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"

	"github.com/udgtools/horarios-api/internal/handler"
	"github.com/udgtools/horarios-api/internal/middleware"
	"github.com/udgtools/horarios-api/internal/models"
	"github.com/udgtools/horarios-api/internal/repository"
	"github.com/udgtools/horarios-api/internal/service"
	"github.com/udgtools/horarios-api/internal/siiau"
	"github.com/udgtools/horarios-api/pkg/cache"
	"github.com/udgtools/horarios-api/pkg/config"
	"github.com/udgtools/horarios-api/pkg/database"
	"github.com/udgtools/horarios-api/pkg/logger"
	corsmiddleware "github.com/udgtools/horarios-api/pkg/middleware/cors"
	reqidmiddleware "github.com/udgtools/horarios-api/pkg/middleware/requestid"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	var redisClient *redis.Client
	if cfg.Cache.Enabled {
		redisClient, err = cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
			redisClient = nil
		}
	}

	validate := validator.New()

	centroRepo := repository.NewCentroRepository(db)
	calendarioRepo := repository.NewCalendarioRepository(db)
	materiaRepo := repository.NewMateriaRepository(db)
	profesorRepo := repository.NewProfesorRepository(db)
	edificioRepo := repository.NewEdificioRepository(db)
	aulaRepo := repository.NewAulaRepository(db)
	seccionRepo := repository.NewSeccionRepository(db)
	claseRepo := repository.NewClaseRepository(db)
	userRepo := repository.NewUserRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	metricsSvc := service.NewMetricsService()
	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             cfg.JWT.Issuer,
	})
	centroSvc := service.NewCentroService(centroRepo, validate, logr)
	calendarioSvc := service.NewCalendarioService(calendarioRepo, validate, logr)
	materiaSvc := service.NewMateriaService(materiaRepo, validate, logr)
	profesorSvc := service.NewProfesorService(profesorRepo, validate, logr)
	edificioSvc := service.NewEdificioService(edificioRepo, centroRepo, validate, logr)
	aulaSvc := service.NewAulaService(aulaRepo, edificioRepo, validate, logr)
	seccionSvc := service.NewSeccionService(seccionRepo, claseRepo, cacheRepo, metricsSvc, cfg.Cache.TTL, validate, logr)
	claseSvc := service.NewClaseService(claseRepo, seccionRepo, validate, logr)

	siiauClient := siiau.NewClient(cfg.SIIAU, logr)
	resolver := siiau.NewResolver(materiaRepo, profesorRepo, edificioRepo, aulaRepo)
	reconciler := siiau.NewReconciler(seccionRepo, claseRepo, resolver, logr)
	importer := siiau.NewImporter(calendarioRepo, centroRepo, siiauClient, reconciler, cacheRepo, metricsSvc, logr)

	authHandler := handler.NewAuthHandler(authSvc)
	centroHandler := handler.NewCentroHandler(centroSvc)
	calendarioHandler := handler.NewCalendarioHandler(calendarioSvc)
	materiaHandler := handler.NewMateriaHandler(materiaSvc)
	profesorHandler := handler.NewProfesorHandler(profesorSvc)
	edificioHandler := handler.NewEdificioHandler(edificioSvc)
	aulaHandler := handler.NewAulaHandler(aulaSvc)
	seccionHandler := handler.NewSeccionHandler(seccionSvc)
	claseHandler := handler.NewClaseHandler(claseSvc)
	taskHandler := handler.NewTaskHandler(importer)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/logout", middleware.JWT(authSvc), authHandler.Logout)
		auth.POST("/change-password", middleware.JWT(authSvc), authHandler.ChangePassword)
		auth.GET("/me", middleware.JWT(authSvc), authHandler.Me)
	}

	staffOnly := []gin.HandlerFunc{
		middleware.JWT(authSvc),
		middleware.RequireRoles(models.RoleAdmin, models.RoleStaff),
	}

	registerCRUD(api, "/centros", staffOnly, crudHandlers{
		list: centroHandler.List, get: centroHandler.Get,
		create: centroHandler.Create, update: centroHandler.Update, delete: centroHandler.Delete,
	})
	registerCRUD(api, "/calendarios", staffOnly, crudHandlers{
		list: calendarioHandler.List, get: calendarioHandler.Get,
		create: calendarioHandler.Create, update: calendarioHandler.Update, delete: calendarioHandler.Delete,
	})
	registerCRUD(api, "/materias", staffOnly, crudHandlers{
		list: materiaHandler.List, get: materiaHandler.Get,
		create: materiaHandler.Create, update: materiaHandler.Update, delete: materiaHandler.Delete,
	})
	registerCRUD(api, "/profesores", staffOnly, crudHandlers{
		list: profesorHandler.List, get: profesorHandler.Get,
		create: profesorHandler.Create, update: profesorHandler.Update, delete: profesorHandler.Delete,
	})
	registerCRUD(api, "/edificios", staffOnly, crudHandlers{
		list: edificioHandler.List, get: edificioHandler.Get,
		create: edificioHandler.Create, update: edificioHandler.Update, delete: edificioHandler.Delete,
	})
	registerCRUD(api, "/aulas", staffOnly, crudHandlers{
		list: aulaHandler.List, get: aulaHandler.Get,
		create: aulaHandler.Create, update: aulaHandler.Update, delete: aulaHandler.Delete,
	})

	secciones := api.Group("/secciones")
	{
		secciones.GET("", seccionHandler.List)
		secciones.GET("/:id", seccionHandler.Get)
		secciones.GET("/:id/clases", seccionHandler.GetClases)
		secciones.POST("", append(staffOnly, seccionHandler.Create)...)
		secciones.PUT("/:id", append(staffOnly, seccionHandler.Update)...)
		secciones.DELETE("/:id", append(staffOnly, seccionHandler.Delete)...)
	}

	clases := api.Group("/clases")
	{
		clases.GET("", claseHandler.List)
		clases.GET("/:id", claseHandler.Get)
		clases.POST("", append(staffOnly, claseHandler.Create)...)
		clases.DELETE("/:id", append(staffOnly, claseHandler.Delete)...)
	}

	tasks := api.Group("/tasks", staffOnly...)
	{
		tasks.GET("/importar-secciones", taskHandler.ImportSecciones)
		tasks.GET("/actualizar-secciones", taskHandler.UpdateSecciones)
		tasks.POST("/importar-secciones-manual", taskHandler.ImportSeccionesManual)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

type crudHandlers struct {
	list, get, create, update, delete gin.HandlerFunc
}

// registerCRUD mounts the standard read-open, write-gated route set for an
// entity collection.
func registerCRUD(api *gin.RouterGroup, path string, writeGuards []gin.HandlerFunc, h crudHandlers) {
	group := api.Group(path)
	group.GET("", h.list)
	group.GET("/:id", h.get)
	group.POST("", append(writeGuards, h.create)...)
	group.PUT("/:id", append(writeGuards, h.update)...)
	group.DELETE("/:id", append(writeGuards, h.delete)...)
}
