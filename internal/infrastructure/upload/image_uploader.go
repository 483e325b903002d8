package upload

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"Places-App/internal/apperror"
	"Places-App/internal/domain/repository"
	"Places-App/internal/logging"
)

// MaxImageBytes アップロード画像の上限サイズ
const MaxImageBytes = 500000

var mimeTypeMap = map[string]string{
	"image/png":  "png",
	"image/jpeg": "jpeg",
	"image/jpg":  "jpg",
}

var ErrInvalidMimeType = apperror.NewValidation("Invalid mime type!")

// ImageUploader アップロード画像をローカルディスクに保存する
type ImageUploader struct {
	dir      string
	maxBytes int64
}

// NewImageUploader dirを作成して新しいImageUploaderを返す
func NewImageUploader(dir string) (*ImageUploader, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("画像ディレクトリの作成に失敗: %w", err)
	}
	return &ImageUploader{dir: dir, maxBytes: MaxImageBytes}, nil
}

var _ repository.ImageStore = (*ImageUploader)(nil)

// Dir 保存先ディレクトリ
func (u *ImageUploader) Dir() string {
	return u.dir
}

// Save MIMEタイプを確認して <uuid>.<ext> で保存し、保存先のパスを返す
func (u *ImageUploader) Save(ctx context.Context, fh *multipart.FileHeader) (string, error) {
	if fh.Size > u.maxBytes {
		return "", apperror.NewValidation("File too large.")
	}

	ext, ok := mimeTypeMap[fh.Header.Get("Content-Type")]
	if !ok {
		return "", ErrInvalidMimeType
	}

	src, err := fh.Open()
	if err != nil {
		return "", apperror.NewValidation("Could not read uploaded file.")
	}
	defer src.Close()

	// 宣言されたContent-Typeだけでなく中身も確認する
	detected, err := mimetype.DetectReader(src)
	if err != nil {
		return "", apperror.NewValidation("Could not read uploaded file.")
	}
	if _, ok := mimeTypeMap[detected.String()]; !ok {
		logging.Ctx(ctx).Warn().Str("declared", fh.Header.Get("Content-Type")).Str("detected", detected.String()).Msg("⚠️ 画像のMIMEタイプが一致しません")
		return "", ErrInvalidMimeType
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", apperror.NewStore("Could not store uploaded file.", err)
	}

	path := filepath.Join(u.dir, uuid.NewString()+"."+ext)
	dst, err := os.Create(path)
	if err != nil {
		return "", apperror.NewStore("Could not store uploaded file.", err)
	}
	if _, err := io.Copy(dst, io.LimitReader(src, u.maxBytes)); err != nil {
		dst.Close()
		_ = os.Remove(path)
		return "", apperror.NewStore("Could not store uploaded file.", err)
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(path)
		return "", apperror.NewStore("Could not store uploaded file.", err)
	}

	logging.Ctx(ctx).Debug().Str("path", path).Msg("📷 画像を保存")
	return filepath.ToSlash(path), nil
}

// Remove 保存済みの画像を削除する。保存先ディレクトリ外のパスは拒否する
func (u *ImageUploader) Remove(ctx context.Context, path string) error {
	if path == "" {
		return nil
	}
	if !u.contains(path) {
		return fmt.Errorf("画像ディレクトリ外のパスは削除できません: %s", path)
	}
	if err := os.Remove(filepath.FromSlash(path)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("画像の削除に失敗: %w", err)
	}
	return nil
}

func (u *ImageUploader) contains(path string) bool {
	rel, err := filepath.Rel(filepath.Clean(u.dir), filepath.Clean(filepath.FromSlash(path)))
	if err != nil {
		return false
	}
	return rel != "." && !strings.HasPrefix(rel, "..")
}
