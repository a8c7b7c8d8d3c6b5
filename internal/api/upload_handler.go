package api

import (
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"path"
	"path/filepath"
	"strings"

	"github.com/dutchcoders/go-clamd"
	"github.com/gin-gonic/gin"

	"desadarit/internal/api/middleware"
	"desadarit/internal/storage"
)

var allowedImageExts = map[string]bool{
	".jpeg": true,
	".jpg":  true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

var allowedImageMIMEs = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// UploadHandler accepts a single multipart image, validates it by extension
// and sniffed MIME type, optionally scans it with clamd, and stores it under
// a generated filename.
type UploadHandler struct {
	Store     *storage.Store
	Logger    *slog.Logger
	BaseURL   string
	MaxBytes  int64
	ClamdAddr string
}

// NewUploadHandler returns an UploadHandler.
func NewUploadHandler(store *storage.Store, logger *slog.Logger, baseURL string, maxBytes int64, clamdAddr string) *UploadHandler {
	return &UploadHandler{
		Store:     store,
		Logger:    logger,
		BaseURL:   baseURL,
		MaxBytes:  maxBytes,
		ClamdAddr: clamdAddr,
	}
}

// Handle is the generic per-resource upload endpoint. The caller attaches the
// returned filename to a resource field with a follow-up update call.
func (h *UploadHandler) Handle(c *gin.Context) {
	filename, ok := h.saveUpload(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Image uploaded successfully",
		"filename": filename,
		"url":      path.Join(h.BaseURL, filename),
	})
}

// saveUpload validates and stores the "image" form file. On failure it writes
// the error response itself and returns ok=false.
func (h *UploadHandler) saveUpload(c *gin.Context) (string, bool) {
	file, err := c.FormFile("image")
	if err != nil {
		BadRequest(c, "No image file provided")
		return "", false
	}

	if file.Size > h.MaxBytes {
		BadRequest(c, fmt.Sprintf("File too large. Maximum size is %dMB.", h.MaxBytes/(1024*1024)))
		return "", false
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedImageExts[ext] {
		BadRequest(c, "Only image files are allowed")
		return "", false
	}

	if !h.sniffIsImage(c, file) {
		return "", false
	}

	if h.ClamdAddr != "" {
		if !h.scanUpload(c, file) {
			return "", false
		}
	}

	src, err := file.Open()
	if err != nil {
		Internal(c, "Failed to upload image")
		return "", false
	}
	defer src.Close()

	filename := h.Store.GenerateFilename(file.Filename)
	if err := h.Store.Save(filename, src); err != nil {
		middleware.LoggerFromContext(c).Error("store upload", slog.String("error", err.Error()))
		Internal(c, "Failed to upload image")
		return "", false
	}

	return filename, true
}

// sniffIsImage checks the file's leading bytes against the image whitelist so
// a renamed non-image cannot slip through on extension alone.
func (h *UploadHandler) sniffIsImage(c *gin.Context, file *multipart.FileHeader) bool {
	src, err := file.Open()
	if err != nil {
		Internal(c, "Failed to upload image")
		return false
	}
	defer src.Close()

	head := make([]byte, 512)
	n, _ := src.Read(head)
	contentType := http.DetectContentType(head[:n])
	if !allowedImageMIMEs[contentType] {
		BadRequest(c, "Only image files are allowed")
		return false
	}
	return true
}

// scanUpload streams the file through clamd before it touches the store.
func (h *UploadHandler) scanUpload(c *gin.Context, file *multipart.FileHeader) bool {
	src, err := file.Open()
	if err != nil {
		Internal(c, "Failed to upload image")
		return false
	}

	clamdClient := clamd.NewClamd(h.ClamdAddr)
	abortChan := make(chan bool)
	scanChan, err := clamdClient.ScanStream(src, abortChan)
	src.Close()
	if err != nil {
		middleware.LoggerFromContext(c).Error("scan upload", slog.String("error", err.Error()))
		Internal(c, "Failed to scan file")
		return false
	}
	defer close(abortChan)

	for result := range scanChan {
		if result.Status != clamd.RES_OK {
			BadRequest(c, "Malicious file detected")
			return false
		}
	}
	return true
}

// deleteStoredImage removes an image file best-effort. Row deletion must never
// be blocked by a failed file delete, so errors are only logged.
func deleteStoredImage(c *gin.Context, store *storage.Store, filename *string) {
	if filename == nil || *filename == "" {
		return
	}
	if err := store.Delete(*filename); err != nil {
		middleware.LoggerFromContext(c).Error("delete image file",
			slog.String("filename", *filename),
			slog.String("error", err.Error()),
		)
	}
}
