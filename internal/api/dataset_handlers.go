package api

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"biaslens/adapters/fileio"
	"biaslens/internal/analysis"
	"biaslens/internal/store"
)

// handleUpload accepts a multipart dataset under the "file" key. It keeps
// the raw upload as original_<name> and writes a CSV working copy that all
// later operations read and rewrite.
func (s *Server) handleUpload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no file provided under key 'file'"})
		return
	}
	name, err := fileio.SecureFilename(fileHeader.Filename)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	originalPath := filepath.Join(s.cfg.Paths.UploadDir, "original_"+name)
	if err := c.SaveUploadedFile(fileHeader, originalPath); err != nil {
		s.log.Error("failed to save upload %s: %v", name, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save uploaded file"})
		return
	}

	tbl, err := fileio.ReadDataset(originalPath)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	base := strings.TrimSuffix(name, filepath.Ext(name))
	workingPath := filepath.Join(s.cfg.Paths.UploadDir, "working_"+base+".csv")
	if err := fileio.SaveDataset(tbl, workingPath, true); err != nil {
		s.log.Error("failed to write working copy for %s: %v", name, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to write working copy"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "File uploaded successfully",
		"original_path": s.relPath(originalPath),
		"file_path":     s.relPath(workingPath),
		"rows":          tbl.RowCount(),
		"columns":       tbl.Columns,
	})
}

type previewRequest struct {
	FilePath string `json:"file_path" binding:"required"`
}

func (s *Server) handlePreview(c *gin.Context) {
	var req previewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file_path is required"})
		return
	}
	tbl, _, ok := s.loadDataset(c, req.FilePath, 0)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, fileio.Preview(tbl, 10))
}

type preprocessRequest struct {
	FilePath        string            `json:"file_path" binding:"required"`
	SelectedColumns []string          `json:"selected_columns"`
	FillStrategies  map[string]string `json:"fill_strategies"`
}

// handlePreprocess cleans the working copy in place and reports what
// changed.
func (s *Server) handlePreprocess(c *gin.Context) {
	var req preprocessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file_path is required"})
		return
	}
	tbl, fullPath, ok := s.loadDataset(c, req.FilePath, 0)
	if !ok {
		return
	}

	cleaned, summary, err := s.preprocess.Preprocess(tbl, req.SelectedColumns, req.FillStrategies)
	if err != nil {
		s.fail(c, err)
		return
	}
	if err := fileio.SaveDataset(cleaned, fullPath, false); err != nil {
		s.log.Error("failed to rewrite %s after preprocessing: %v", req.FilePath, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save cleaned dataset"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "Preprocessing complete",
		"file_path": req.FilePath,
		"summary":   summary,
	})
}

type selectFeaturesRequest struct {
	FilePath         string   `json:"file_path" binding:"required"`
	SelectedFeatures []string `json:"selected_features" binding:"required"`
}

// handleSelectFeatures subsets the dataset to the chosen columns and saves
// the result as selected_<name>.csv.
func (s *Server) handleSelectFeatures(c *gin.Context) {
	var req selectFeaturesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file_path and selected_features are required"})
		return
	}
	tbl, fullPath, ok := s.loadDataset(c, req.FilePath, 0)
	if !ok {
		return
	}

	features := dedupe(req.SelectedFeatures)
	if len(features) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "selected_features must not be empty"})
		return
	}
	subset, err := tbl.SelectColumns(features)
	if err != nil {
		s.fail(c, err)
		return
	}

	base := strings.TrimSuffix(filepath.Base(fullPath), filepath.Ext(fullPath))
	selectedPath := filepath.Join(s.cfg.Paths.UploadDir, "selected_"+base+".csv")
	if err := fileio.SaveDataset(subset, selectedPath, true); err != nil {
		s.log.Error("failed to save feature subset: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save selected features"})
		return
	}
	s.selectedFeatures.Set(s.relPath(selectedPath), features)

	c.JSON(http.StatusOK, gin.H{
		"message":           "Features selected",
		"file_path":         s.relPath(selectedPath),
		"selected_features": features,
	})
}

type setColumnTypesRequest struct {
	FilePath    string   `json:"file_path" binding:"required"`
	Categorical []string `json:"categorical"`
	Continuous  []string `json:"continuous"`
}

// handleSetColumnTypes validates and stores the caller's categorical and
// continuous column assignments for the given file.
func (s *Server) handleSetColumnTypes(c *gin.Context) {
	var req setColumnTypesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file_path is required"})
		return
	}
	tbl, _, ok := s.loadDataset(c, req.FilePath, 0)
	if !ok {
		return
	}

	var unknown []string
	for _, col := range append(append([]string{}, req.Categorical...), req.Continuous...) {
		if !tbl.HasColumn(col) {
			unknown = append(unknown, col)
		}
	}
	if len(unknown) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("columns not found in dataset: %v", unknown)})
		return
	}
	catSet := make(map[string]bool, len(req.Categorical))
	for _, col := range req.Categorical {
		catSet[col] = true
	}
	for _, col := range req.Continuous {
		if catSet[col] {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("column %q cannot be both categorical and continuous", col)})
			return
		}
	}

	s.columnTypes.Set(req.FilePath, store.ColumnTypes{
		Categorical: dedupe(req.Categorical),
		Continuous:  dedupe(req.Continuous),
	})
	c.JSON(http.StatusOK, gin.H{
		"message":     "Column types saved",
		"categorical": req.Categorical,
		"continuous":  req.Continuous,
	})
}

type classifyColumnsRequest struct {
	FilePath string `json:"file_path" binding:"required"`
}

// handleClassifyColumns auto-classifies every column with thresholds
// derived from the dataset itself.
func (s *Server) handleClassifyColumns(c *gin.Context) {
	var req classifyColumnsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file_path is required"})
		return
	}
	tbl, _, ok := s.loadDataset(c, req.FilePath, 0)
	if !ok {
		return
	}

	th := analysis.AutoThresholds(tbl)
	classifications := make(map[string]string, len(tbl.Columns))
	for _, col := range tbl.Columns {
		values, err := tbl.Column(col)
		if err != nil {
			continue
		}
		classifications[col] = analysis.ClassifyColumn(values, th)
	}
	c.JSON(http.StatusOK, gin.H{
		"thresholds":      th,
		"classifications": classifications,
	})
}

// relPath renders an absolute data-dir path as the relative form callers
// pass back on later requests.
func (s *Server) relPath(fullPath string) string {
	rel, err := filepath.Rel(s.cfg.Paths.BaseDir, fullPath)
	if err != nil {
		return fullPath
	}
	return filepath.ToSlash(rel)
}

func dedupe(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item == "" || seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
	}
	return out
}
