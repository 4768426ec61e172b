package handlers

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"restaurant_web/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func respond(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{"success": true, "data": data})
}

func statusFor(kind services.ErrorKind) int {
	switch kind {
	case services.KindValidation, services.KindConflict:
		return http.StatusBadRequest
	case services.KindUnauthorized:
		return http.StatusUnauthorized
	case services.KindForbidden:
		return http.StatusForbidden
	case services.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the error envelope. Internal failures are logged and
// reported without detail.
func respondError(c *gin.Context, logger *logrus.Logger, err error) {
	var svcErr *services.Error
	if !errors.As(err, &svcErr) {
		svcErr = services.Internal("internal server error", err)
	}

	status := statusFor(svcErr.Kind)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		logger.WithError(err).WithField("request_id", c.GetString("request_id")).Error("Request failed")
		c.AbortWithStatusJSON(status, gin.H{"success": false, "error": "internal server error"})
		return
	}

	body := gin.H{"success": false, "error": svcErr.Message}
	if len(svcErr.Fields) > 0 {
		body["details"] = svcErr.Fields
	}
	c.AbortWithStatusJSON(status, body)
}

func bindJSON(c *gin.Context, logger *logrus.Logger, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		respondError(c, logger, services.NewValidationError("invalid request body", nil))
		return false
	}
	return true
}

func paramID(c *gin.Context, logger *logrus.Logger, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		respondError(c, logger, services.NewValidationError("invalid id", map[string]string{name: "must be a positive integer"}))
		return 0, false
	}
	return uint(id), true
}

func queryInt(c *gin.Context, name string, fallback int) int {
	if v, err := strconv.Atoi(c.Query(name)); err == nil {
		return v
	}
	return fallback
}

type page struct {
	Items interface{} `json:"items"`
	Total int64       `json:"total"`
	Page  int         `json:"page"`
	Limit int         `json:"limit"`
}

// formUpload opens an optional multipart file. The returned closer is never nil.
func formUpload(c *gin.Context, field string) (*services.Upload, func(), error) {
	header, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, func() {}, nil
		}
		return nil, func() {}, services.NewValidationError("invalid upload", map[string]string{field: err.Error()})
	}
	file, err := header.Open()
	if err != nil {
		return nil, func() {}, services.Internal("failed to open upload", err)
	}
	return uploadFrom(header, file), func() { file.Close() }, nil
}

func uploadFrom(header *multipart.FileHeader, r io.Reader) *services.Upload {
	return &services.Upload{Filename: header.Filename, Size: header.Size, Reader: r}
}
