package repository

import (
	"context"

	"Places-App/internal/domain/model"
)

// Geocoder 住所を緯度経度に変換する
type Geocoder interface {
	Resolve(ctx context.Context, address string) (model.LatLng, error)
}
