package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// MediaService stores uploaded images on local disk.
type MediaService interface {
	// Save writes the upload and returns the stored file name.
	Save(ctx context.Context, file *multipart.FileHeader) (string, error)
}

type mediaService struct {
	dir     string
	maxSize int64
	logger  *slog.Logger
}

// NewMediaService creates the upload directory if needed.
func NewMediaService(dir string, maxSize int64, logger *slog.Logger) (MediaService, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &mediaService{
		dir:     dir,
		maxSize: maxSize,
		logger:  logger,
	}, nil
}

func (s *mediaService) Save(ctx context.Context, file *multipart.FileHeader) (string, error) {
	if file == nil {
		return "", validationError("Nenhum arquivo enviado")
	}
	if s.maxSize > 0 && file.Size > s.maxSize {
		return "", validationError(fmt.Sprintf("Arquivo excede o limite de %d bytes", s.maxSize))
	}

	src, err := file.Open()
	if err != nil {
		return "", validationError("Arquivo inválido")
	}
	defer src.Close()

	mtype, err := mimetype.DetectReader(src)
	if err != nil {
		return "", validationError("Arquivo inválido")
	}
	if !strings.HasPrefix(mtype.String(), "image/") {
		return "", validationError("Apenas imagens são permitidas")
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext == "" {
		ext = mtype.Extension()
	}
	name := "file-" + uuid.NewString() + ext

	dst, err := os.OpenFile(filepath.Join(s.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		s.logger.Error("❌ [MediaService] Failed to create file", "error", err)
		return "", err
	}

	if _, err := io.Copy(dst, src); err != nil {
		_ = dst.Close()
		_ = os.Remove(dst.Name())
		s.logger.Error("❌ [MediaService] Failed to write file", "error", err)
		return "", err
	}
	if err := dst.Close(); err != nil {
		return "", err
	}

	s.logger.Info("🖼️ [MediaService] File stored", "name", name, "size", file.Size, "type", mtype.String())
	return name, nil
}
