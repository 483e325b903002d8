package repository

import (
	"context"

	"Places-App/internal/domain/model"
)

type PlacesRepository interface {
	GetByID(ctx context.Context, id string) (*model.Place, error)
	GetByCreator(ctx context.Context, creatorID string) ([]model.Place, error)
	// Update titleとdescriptionなど単一ドキュメントの上書き保存
	Update(ctx context.Context, place *model.Place) error
}
