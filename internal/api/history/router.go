// Package history serves the read-only submission log over gin.
package history

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/eshaffer321/ration-form/internal/api/dto"
	"github.com/eshaffer321/ration-form/internal/infrastructure/storage"
)

// Server answers history queries from a submission repository.
type Server struct {
	repo   storage.SubmissionRepository
	logger *slog.Logger
}

// NewServer creates a history server.
func NewServer(repo storage.SubmissionRepository, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{repo: repo, logger: logger}
}

// Router builds the gin engine with CORS for origins.
func (s *Server) Router(origins []string) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/api/health"},
	}))

	// CORS configuration
	corsCfg := cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		corsCfg.AllowOrigins = nil
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	}
	router.Use(cors.New(corsCfg))

	api := router.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "healthy"})
		})
		api.GET("/stats", s.getStats)
		api.GET("/submissions", s.listSubmissions)
		api.GET("/submissions/:id", s.getSubmission)
	}

	return router
}

func (s *Server) getStats(c *gin.Context) {
	stats, err := s.repo.GetStats()
	if err != nil {
		s.logger.Error("failed to fetch stats", "error", err)
		c.JSON(http.StatusInternalServerError, dto.InternalError())
		return
	}
	c.JSON(http.StatusOK, dto.ToStatsResponse(stats))
}

func (s *Server) listSubmissions(c *gin.Context) {
	filters := storage.SubmissionFilters{
		Email:  c.Query("email"),
		Type:   c.Query("type"),
		Status: c.Query("status"),
	}
	for name, dst := range map[string]*int{
		"days_back": &filters.DaysBack,
		"limit":     &filters.Limit,
		"offset":    &filters.Offset,
	} {
		raw := c.Query(name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, dto.BadRequestError("invalid "+name+" parameter"))
			return
		}
		*dst = n
	}

	result, err := s.repo.ListSubmissions(filters)
	if err != nil {
		s.logger.Error("failed to list submissions", "error", err)
		c.JSON(http.StatusInternalServerError, dto.InternalError())
		return
	}
	c.JSON(http.StatusOK, dto.ToSubmissionListResponse(result))
}

func (s *Server) getSubmission(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.BadRequestError("invalid submission id"))
		return
	}

	sub, err := s.repo.GetSubmission(id)
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, dto.NotFoundError("submission"))
		return
	}
	if err != nil {
		s.logger.Error("failed to fetch submission", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, dto.InternalError())
		return
	}
	c.JSON(http.StatusOK, dto.ToSubmissionResponse(sub, true))
}
