package api

import (
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"biaslens/adapters/fileio"
	"biaslens/app"
	"biaslens/domain/policy"
	"biaslens/internal/analysis"
)

type biasDetectRequest struct {
	FilePath    string   `json:"file_path" binding:"required"`
	Categorical []string `json:"categorical"`
}

// handleBiasDetect analyzes class distributions for the given categorical
// columns, falling back to the stored column types when none are passed.
func (s *Server) handleBiasDetect(c *gin.Context) {
	var req biasDetectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file_path is required"})
		return
	}
	tbl, _, ok := s.loadDataset(c, req.FilePath, 0)
	if !ok {
		return
	}

	categorical := req.Categorical
	if len(categorical) == 0 {
		if types, found := s.columnTypes.Get(req.FilePath); found {
			categorical = types.Categorical
		}
	}
	if len(categorical) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no categorical columns provided or stored for this file"})
		return
	}

	results := s.bias.DetectImbalance(c.Request.Context(), tbl, req.FilePath, categorical)
	c.JSON(http.StatusOK, gin.H{"distributions": results})
}

type biasFixRequest struct {
	FilePath            string   `json:"file_path" binding:"required"`
	TargetColumn        string   `json:"target_column" binding:"required"`
	Method              string   `json:"method" binding:"required"`
	Threshold           *float64 `json:"threshold"`
	CategoricalFeatures []string `json:"categorical_features"`
}

// handleBiasFix runs the requested correction and saves the corrected
// dataset. Reweighting leaves the dataset untouched and only returns
// weights.
func (s *Server) handleBiasFix(c *gin.Context) {
	var req biasFixRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file_path, target_column and method are required"})
		return
	}
	tbl, _, ok := s.loadDataset(c, req.FilePath, 0)
	if !ok {
		return
	}

	before, err := analysis.ClassDistribution(tbl, req.TargetColumn)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	corrected, meta, err := s.bias.CorrectImbalance(c.Request.Context(), tbl, req.FilePath, app.CorrectionRequest{
		TargetColumn:        req.TargetColumn,
		Method:              req.Method,
		Threshold:           req.Threshold,
		CategoricalFeatures: req.CategoricalFeatures,
	})
	if err != nil {
		s.fail(c, err)
		return
	}

	resp := gin.H{
		"method":              meta.Method,
		"sampling_strategy":   meta.SamplingStrategy,
		"target_column":       req.TargetColumn,
		"before_distribution": before,
	}

	if meta.Method == policy.MethodReweight {
		resp["message"] = "Reweighting computed (dataset unchanged)."
		resp["class_weights"] = meta.ClassWeights
		resp["after_distribution"] = before
		c.JSON(http.StatusOK, resp)
		return
	}

	after, err := analysis.ClassDistribution(corrected, req.TargetColumn)
	if err != nil {
		s.fail(c, err)
		return
	}
	correctedPath := filepath.Join(s.cfg.Paths.CorrectedDir, "corrected_dataset.csv")
	if err := fileio.SaveDataset(corrected, correctedPath, true); err != nil {
		s.log.Error("failed to save corrected dataset: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save corrected dataset"})
		return
	}

	resp["message"] = "Imbalance correction applied"
	resp["after_distribution"] = after
	resp["corrected_file"] = s.relPath(correctedPath)
	c.JSON(http.StatusOK, resp)
}
