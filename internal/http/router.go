package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/nomadicTree/frayerstore/internal/http/handlers"
	httpMW "github.com/nomadicTree/frayerstore/internal/http/middleware"
	"github.com/nomadicTree/frayerstore/internal/observability"
	"github.com/nomadicTree/frayerstore/internal/platform/logger"
)

type RouterConfig struct {
	Log         *logger.Logger
	Metrics     *observability.Metrics
	ServiceName string
	CORSOrigins []string

	CatalogHandler *httpH.CatalogHandler
	HealthHandler  *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.CORSOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapF(cfg.Metrics.WriteHTTP))
	}

	api := r.Group("/api")
	{
		if cfg.CatalogHandler != nil {
			// Subjects
			api.GET("/subjects", cfg.CatalogHandler.ListSubjects)
			api.GET("/subjects/:slug", cfg.CatalogHandler.GetSubject)
			api.GET("/subjects/:slug/courses", cfg.CatalogHandler.ListSubjectCourses)

			// Levels, courses, topics
			api.GET("/levels", cfg.CatalogHandler.ListLevels)
			api.GET("/courses/:id/topics", cfg.CatalogHandler.ListCourseTopics)
			api.GET("/topics/:id/words", cfg.CatalogHandler.ListTopicWords)

			// Words
			api.GET("/words", cfg.CatalogHandler.SearchWords)
			api.GET("/words/:id", cfg.CatalogHandler.GetWord)
		}
	}

	return r
}
