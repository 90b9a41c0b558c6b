package api

import (
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"biaslens/app"
	"biaslens/internal/analysis"
)

type reportRequest struct {
	FilePath     string   `json:"file_path" binding:"required"`
	TargetColumn string   `json:"target_column"`
	SkewColumns  []string `json:"skew_columns"`
}

// handleReportGenerate runs the analyses for the requested columns and
// renders them into an HTML report under the reports directory.
func (s *Server) handleReportGenerate(c *gin.Context) {
	var req reportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file_path is required"})
		return
	}
	tbl, fullPath, ok := s.loadDataset(c, req.FilePath, 0, s.cfg.Paths.UploadDir, s.cfg.Paths.CorrectedDir)
	if !ok {
		return
	}

	in := app.ReportInput{
		DatasetName:  filepath.Base(fullPath),
		TargetColumn: req.TargetColumn,
	}
	if req.TargetColumn != "" {
		dist := analysis.AnalyzeDistribution(tbl, req.TargetColumn)
		in.Distribution = &dist
	}
	for _, column := range req.SkewColumns {
		detection, err := s.skew.DetectSkewness(c.Request.Context(), tbl, req.FilePath, column)
		if err != nil {
			detection = app.SkewDetection{Column: column, Message: err.Error()}
		}
		in.Skewness = append(in.Skewness, detection)
	}

	name, err := s.reports.Generate(c.Request.Context(), in)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":     "Report generated",
		"report_file": filepath.ToSlash(filepath.Join("reports", name)),
	})
}
