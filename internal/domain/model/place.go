package model

import (
	"github.com/paulmach/orb/geojson"
)

// Place ユーザーが共有する場所
type Place struct {
	ID          string `json:"id"`          // ストアが生成するID
	Title       string `json:"title"`       // タイトル
	Description string `json:"description"` // 説明（5文字以上）
	ImageURL    string `json:"imageUrl"`    // アップロード画像のパス
	Address     string `json:"address"`     // 住所
	Location    LatLng `json:"location"`    // ジオコーディング結果
	Creator     string `json:"creator"`     // 作成したユーザーのID
}

// CreatePlaceInput 場所作成の入力（ハンドラーで検証済み）
type CreatePlaceInput struct {
	Title       string
	Description string
	Address     string
	Creator     string
	ImageURL    string
}

// UpdatePlaceInput 場所更新の入力
type UpdatePlaceInput struct {
	Title       string
	Description string
}

// ToFeature PlaceをGeoJSON Featureに変換
func (p *Place) ToFeature() *geojson.Feature {
	f := geojson.NewFeature(p.Location.ToPoint())
	f.ID = p.ID
	f.Properties["title"] = p.Title
	f.Properties["description"] = p.Description
	f.Properties["address"] = p.Address
	f.Properties["imageUrl"] = p.ImageURL
	f.Properties["creator"] = p.Creator
	return f
}

// PlacesToFeatureCollection 複数のPlaceをFeatureCollectionにまとめる
func PlacesToFeatureCollection(places []Place) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for i := range places {
		fc.Append(places[i].ToFeature())
	}
	return fc
}
