package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"biaslens/adapters/fileio"
	"biaslens/domain/table"
	"biaslens/internal/errors"
)

// statusFor maps application error codes onto HTTP statuses. Caller input
// problems are 400s, unknown resources 404s, everything else a 500.
func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.CodeValidationError, errors.CodeFeatureType, errors.CodeInsufficientData, errors.CodeConfigInvalid:
		return http.StatusBadRequest
	case errors.CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.log.Error("request %s failed: %v", c.FullPath(), err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// loadDataset resolves a caller path under the data directories and reads
// the dataset. notFoundStatus controls whether a missing file is a 404 or a
// 400, which differs between route groups.
func (s *Server) loadDataset(c *gin.Context, relPath string, notFoundStatus int, allowedDirs ...string) (*table.Table, string, bool) {
	if len(allowedDirs) == 0 {
		allowedDirs = []string{s.cfg.Paths.UploadDir}
	}
	fullPath, err := fileio.ResolveUnder(relPath, s.cfg.Paths.BaseDir, allowedDirs...)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, "", false
	}
	tbl, err := fileio.ReadDataset(fullPath)
	if err != nil {
		status := http.StatusBadRequest
		if notFoundStatus != 0 && errors.HasCode(err, errors.CodeNotFound) {
			status = notFoundStatus
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return nil, "", false
	}
	return tbl, fullPath, true
}
