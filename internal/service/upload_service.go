package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/glowmart/glowmart-api/internal/config"
	"github.com/glowmart/glowmart-api/internal/logger"
	"github.com/glowmart/glowmart-api/internal/storage/supabase"

	"github.com/google/uuid"
)

var allowedUploadScenes = map[string]struct{}{
	"product":  {},
	"category": {},
	"combo":    {},
	"banner":   {},
	"common":   {},
}

// UploadService validates incoming files and pushes them to object storage.
type UploadService struct {
	cfg     *config.Config
	storage *supabase.Client
}

// NewUploadService creates an upload service instance.
func NewUploadService(cfg *config.Config, storage *supabase.Client) *UploadService {
	return &UploadService{cfg: cfg, storage: storage}
}

// SaveFile validates and stores an uploaded file, returning its public URL.
func (s *UploadService) SaveFile(ctx context.Context, file *multipart.FileHeader, scene string) (string, error) {
	if s.storage == nil || !s.storage.Configured() {
		return "", ErrStorageDisabled
	}

	if s.cfg.Upload.MaxSize > 0 && file.Size > s.cfg.Upload.MaxSize {
		return "", fmt.Errorf("%w: max %d MB", ErrUploadTooLarge, s.cfg.Upload.MaxSize/1024/1024)
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if len(s.cfg.Upload.AllowedExtensions) > 0 {
		if ext == "" || !isAllowedExtension(ext, s.cfg.Upload.AllowedExtensions) {
			return "", fmt.Errorf("%w: extension %q", ErrUploadInvalidType, ext)
		}
	}

	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	// Sniff the MIME type from the first 512 bytes, the filename is
	// not trusted.
	header := make([]byte, 512)
	n, err := src.Read(header)
	if err != nil && err != io.EOF {
		return "", err
	}
	contentType := http.DetectContentType(header[:n])
	if len(s.cfg.Upload.AllowedTypes) > 0 {
		allowed := false
		for _, t := range s.cfg.Upload.AllowedTypes {
			if strings.EqualFold(contentType, t) {
				allowed = true
				break
			}
		}
		if !allowed {
			return "", fmt.Errorf("%w: %s", ErrUploadInvalidType, contentType)
		}
	}

	body := io.MultiReader(bytes.NewReader(header[:n]), src)

	objectPath := buildObjectPath(normalizeUploadScene(scene), ext)
	url, err := s.storage.Upload(ctx, objectPath, contentType, body)
	if err != nil {
		logger.Errorw("upload_store_failed", "path", objectPath, "error", err)
		return "", err
	}

	logger.Infow("upload_stored", "path", objectPath, "size", file.Size, "content_type", contentType)
	return url, nil
}

// DeleteFile removes an object by its storage path or public URL.
func (s *UploadService) DeleteFile(ctx context.Context, target string) error {
	if s.storage == nil || !s.storage.Configured() {
		return ErrStorageDisabled
	}
	if err := s.storage.Delete(ctx, target); err != nil {
		return err
	}
	logger.Infow("upload_deleted", "target", target)
	return nil
}

func buildObjectPath(scene, ext string) string {
	now := time.Now()
	name := fmt.Sprintf("%s-%d%s", uuid.New().String(), now.Unix(), ext)
	return filepath.Join(scene, now.Format("2006"), now.Format("01"), name)
}

func normalizeUploadScene(scene string) string {
	scene = strings.ToLower(strings.TrimSpace(scene))
	if _, ok := allowedUploadScenes[scene]; ok {
		return scene
	}
	return "common"
}

func isAllowedExtension(ext string, allowed []string) bool {
	for _, a := range allowed {
		a = strings.ToLower(strings.TrimSpace(a))
		if a == "" {
			continue
		}
		if !strings.HasPrefix(a, ".") {
			a = "." + a
		}
		if a == ext {
			return true
		}
	}
	return false
}
