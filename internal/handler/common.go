package handler

import (
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/siakadcloud/siakad-backend/internal/response"
	"github.com/siakadcloud/siakad-backend/internal/service"
	"github.com/siakadcloud/siakad-backend/internal/storage"
)

// maxUploadBytes caps any single uploaded file.
const maxUploadBytes = 10 << 20

// paramID parses the :id path segment. A false return means the response
// was already written.
func paramID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return 0, false
	}
	return id, true
}

// formUpload pulls an uploaded file out of the multipart form. Returns the
// open upload plus the file handle to close, or nil/nil when the field is
// absent. A false return means a failure response was already written.
func formUpload(c *gin.Context, field string) (*service.Upload, multipart.File, bool) {
	header, err := c.FormFile(field)
	if err != nil {
		return nil, nil, true
	}
	if header.Size > maxUploadBytes {
		response.Fail(c, http.StatusRequestEntityTooLarge, response.ErrFileTooLarge)
		return nil, nil, false
	}
	contentType := header.Header.Get("Content-Type")
	if !storage.AllowedContentType(contentType) {
		response.Fail(c, http.StatusUnsupportedMediaType, response.ErrUnsupportedFile)
		return nil, nil, false
	}
	file, err := header.Open()
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return nil, nil, false
	}
	return &service.Upload{Reader: file, ContentType: contentType}, file, true
}
