package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"biaslens/app"
	"biaslens/internal"
	"biaslens/internal/config"
	"biaslens/internal/store"
)

// Server is the HTTP surface of the service: upload, cleanup, detection and
// correction endpoints backed by the app-layer services.
type Server struct {
	router *gin.Engine
	log    *internal.Logger
	cfg    *config.Config

	bias       *app.BiasService
	skew       *app.SkewService
	preprocess *app.PreprocessService
	reports    *app.ReportService

	columnTypes      *store.ColumnTypesStore
	selectedFeatures *store.SelectedFeaturesStore
}

// NewServer wires the services and stores into a gin router.
func NewServer(cfg *config.Config, log *internal.Logger, bias *app.BiasService, skew *app.SkewService, preprocess *app.PreprocessService, reports *app.ReportService) *Server {
	gin.SetMode(cfg.Server.GinMode)
	s := &Server{
		router:           gin.Default(),
		log:              log,
		cfg:              cfg,
		bias:             bias,
		skew:             skew,
		preprocess:       preprocess,
		reports:          reports,
		columnTypes:      store.NewColumnTypesStore(),
		selectedFeatures: store.NewSelectedFeaturesStore(),
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleIndex)
	s.router.GET("/health", s.handleHealth)

	api := s.router.Group("/api")
	api.POST("/upload", s.handleUpload)
	api.POST("/preview", s.handlePreview)
	api.POST("/preprocess", s.handlePreprocess)
	api.POST("/select_features", s.handleSelectFeatures)
	api.POST("/set_column_types", s.handleSetColumnTypes)
	api.POST("/classify_columns", s.handleClassifyColumns)
	api.POST("/bias/detect", s.handleBiasDetect)
	api.POST("/bias/fix", s.handleBiasFix)
	api.POST("/skewness/detect", s.handleSkewDetect)
	api.POST("/skewness/fix", s.handleSkewFix)
	api.POST("/reports/generate", s.handleReportGenerate)
}

// Start runs the server on the given address, blocking until it exits.
func (s *Server) Start(addr string) error {
	s.log.Info("Starting API server on http://%s", addr)
	return s.router.Run(addr)
}

// Handler exposes the router for tests and for embedding in a custom
// http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleIndex(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "biaslens",
		"message": "Dataset imbalance and skewness analysis service",
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
