package model

import "github.com/paulmach/orb"

// LatLng 緯度経度を表す基本的な型（ジオコーディング結果）
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// ToPoint orb.Pointに変換（GeoJSONでは [lng, lat]）
func (l LatLng) ToPoint() orb.Point {
	return orb.Point{l.Lng, l.Lat}
}

// FromPoint orb.PointからLatLngを作成
func FromPoint(p orb.Point) LatLng {
	return LatLng{Lat: p.Lat(), Lng: p.Lon()}
}

// IsValid 緯度経度が有効範囲内かチェック
func (l LatLng) IsValid() bool {
	return l.Lat >= -90 && l.Lat <= 90 && l.Lng >= -180 && l.Lng <= 180
}
