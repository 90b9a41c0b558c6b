package api

import (
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"biaslens/adapters/fileio"
)

type skewDetectRequest struct {
	Filename string `json:"filename" binding:"required"`
	Column   string `json:"column" binding:"required"`
}

// handleSkewDetect computes the skewness of one column. A missing file is a
// 404 here so a caller can distinguish stale filenames from bad columns.
func (s *Server) handleSkewDetect(c *gin.Context) {
	var req skewDetectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "filename and column are required"})
		return
	}
	tbl, _, ok := s.loadDataset(c, req.Filename, http.StatusNotFound, s.cfg.Paths.UploadDir, s.cfg.Paths.CorrectedDir)
	if !ok {
		return
	}

	detection, err := s.skew.DetectSkewness(c.Request.Context(), tbl, req.Filename, req.Column)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, detection)
}

type skewFixRequest struct {
	Filename string   `json:"filename" binding:"required"`
	Columns  []string `json:"columns" binding:"required"`
}

// handleSkewFix transforms every requested column independently and saves
// the result alongside the corrected datasets. Columns that cannot be
// transformed report their error in the per-column results rather than
// failing the batch.
func (s *Server) handleSkewFix(c *gin.Context) {
	var req skewFixRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "filename and columns are required"})
		return
	}
	if len(req.Columns) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "columns must not be empty"})
		return
	}
	tbl, _, ok := s.loadDataset(c, req.Filename, http.StatusNotFound, s.cfg.Paths.UploadDir, s.cfg.Paths.CorrectedDir)
	if !ok {
		return
	}

	corrected, results := s.skew.CorrectMultipleColumns(c.Request.Context(), tbl, req.Filename, req.Columns)

	correctedPath := filepath.Join(s.cfg.Paths.CorrectedDir, "skew_corrected_dataset.csv")
	if err := fileio.SaveDataset(corrected, correctedPath, true); err != nil {
		s.log.Error("failed to save skew-corrected dataset: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save corrected dataset"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":        "Skewness correction applied",
		"results":        results,
		"corrected_file": s.relPath(correctedPath),
	})
}
