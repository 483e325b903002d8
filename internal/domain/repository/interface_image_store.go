package repository

import "context"

// ImageStore アップロード画像の削除
type ImageStore interface {
	Remove(ctx context.Context, path string) error
}
