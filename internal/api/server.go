package api

import (
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/buckutt/buckutt-api/docs"
	v1 "github.com/buckutt/buckutt-api/internal/api/handler/v1"
	"github.com/buckutt/buckutt-api/internal/api/middleware"
	"github.com/buckutt/buckutt-api/internal/config"
	"github.com/buckutt/buckutt-api/internal/repository"
	"github.com/buckutt/buckutt-api/internal/repository/dao"
	"github.com/buckutt/buckutt-api/internal/service"
)

type Server struct {
	Config *config.AppConfig
	Router *gin.Engine
}

type handlers struct {
	auth    *v1.AuthHandler
	user    *v1.UserHandler
	article *v1.ArticleHandler
	ledger  *v1.LedgerHandler
}

// NewServer wires every handler on db. rdb may be nil, in which case login
// attempts are not rate limited.
func NewServer(conf *config.AppConfig, db *gorm.DB, rdb *redis.Client) *Server {
	gin.SetMode(conf.Gin.Mode)
	engine := gin.New()

	s := &Server{
		Config: conf,
		Router: engine,
	}

	s.MountMiddlewares()

	pricing := s.initPricingService(db)
	s.MountHandlers(handlers{
		auth:    s.initAuthHandler(db),
		user:    s.initUserHandler(db),
		article: v1.NewArticleHandler(pricing),
		ledger:  s.initLedgerHandler(db, pricing),
	}, s.initLoginLimiter(rdb))

	return s
}

func (s *Server) initAuthHandler(db *gorm.DB) *v1.AuthHandler {
	userDAO := dao.NewUserDAO(db)
	repo := repository.NewUserRepository(userDAO)
	svc := service.NewAuthService(repo)
	handler := v1.NewAuthHandler(s.Config.API, svc)

	return handler
}

func (s *Server) initUserHandler(db *gorm.DB) *v1.UserHandler {
	userDAO := dao.NewUserDAO(db)
	repo := repository.NewUserRepository(userDAO)
	svc := service.NewUserService(repo)
	handler := v1.NewUserHandler(svc)

	return handler
}

func (s *Server) initPricingService(db *gorm.DB) *service.PricingService {
	catalogDAO := dao.NewCatalogDAO(db)
	repo := repository.NewCatalogRepository(catalogDAO)

	return service.NewPricingService(repo)
}

func (s *Server) initLedgerHandler(db *gorm.DB, pricing *service.PricingService) *v1.LedgerHandler {
	ledgerRepo := repository.NewLedgerRepository(dao.NewLedgerDAO(db))
	userRepo := repository.NewUserRepository(dao.NewUserDAO(db))
	catalogRepo := repository.NewCatalogRepository(dao.NewCatalogDAO(db))
	svc := service.NewLedgerService(ledgerRepo, userRepo, catalogRepo, pricing)
	handler := v1.NewLedgerHandler(svc)

	return handler
}

func (s *Server) initLoginLimiter(rdb *redis.Client) *middleware.RateLimiter {
	var counter middleware.Counter
	if rdb != nil {
		counter = middleware.NewRedisCounter(rdb)
	}

	return middleware.NewRateLimiter(counter, "login", s.Config.RateLimit.LoginAttempts, s.Config.RateLimit.Window)
}

func (s *Server) MountMiddlewares() {
	// Logger and Recovery are needed unless we use gin.Default().
	s.Router.Use(gin.Logger())
	s.Router.Use(gin.Recovery())
	s.Router.Use(requestid.New())
	s.Router.Use(middleware.ConfigCORS(s.Config.API.AllowedCORSDomains))
}

func (s *Server) MountHandlers(h handlers, loginLimiter *middleware.RateLimiter) {
	const basePath = "/api/v1"

	auth := s.Router.Group(basePath)
	{
		auth.POST("/auth/login", loginLimiter.Limit(), h.auth.HandleLogin)
	}

	authn := middleware.NewAuthenticator(s.Config.API.JWTSigningKey).VerifyJWT()

	users := s.Router.Group(basePath, authn)
	{
		users.GET("/users/:userID", h.user.HandleGetUser)
	}

	articles := s.Router.Group(basePath, authn)
	{
		articles.GET("/articles/available", h.article.HandleGetAvailable)
	}

	ledger := s.Router.Group(basePath, authn)
	{
		ledger.POST("/purchases", h.ledger.HandleCreatePurchase)
		ledger.GET("/purchases", h.ledger.HandleListPurchases)
		ledger.GET("/purchases/summary", h.ledger.HandleSummarizePurchases)
		ledger.GET("/purchases/total", h.ledger.HandleTotalPurchases)
		ledger.POST("/reloads", h.ledger.HandleCreateReload)
		ledger.GET("/reloads", h.ledger.HandleListReloads)
		ledger.GET("/reloads/summary", h.ledger.HandleSummarizeReloads)
		ledger.GET("/reloads/total", h.ledger.HandleTotalReloads)
	}

	s.Router.GET("/", v1.HandleHealthcheck)

	// Setup Swagger UI.
	docs.SwaggerInfo.Host = s.Config.API.BaseURL
	docs.SwaggerInfo.BasePath = basePath
	docs.SwaggerInfo.Title = "buckutt API"
	docs.SwaggerInfo.Description = "Cashless point-of-sale: credit reloads and purchases."
	docs.SwaggerInfo.Version = "1.0"
	s.Router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))
}
