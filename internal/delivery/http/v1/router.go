package v1

import (
	"net/http"
	"time"

	"careeros-backend/config"
	"careeros-backend/internal/delivery/http/middleware"
	"careeros-backend/internal/delivery/http/response"
	"careeros-backend/internal/domain"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	ApplicationUC domain.ApplicationUsecase
	ProfileUC     domain.ProfileUsecase
	Config        *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(deps.Config)) // CORS must be first!
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.ErrorHandler())

	v1 := r.Group("/v1")

	// Health Check
	v1.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, "System operational", nil)
	})

	// Swagger
	v1.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	llmLimit := middleware.LLMRateLimitConfig(
		deps.Config.RateLimitLLMThreshold,
		time.Duration(deps.Config.RateLimitWindowSeconds)*time.Second,
	)

	// Protected routes
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(deps.Config))
	{
		NewJobHandler(protected, deps.ApplicationUC, llmLimit)
		NewProfileHandler(protected, deps.ProfileUC)
	}

	return r
}
