package maps

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/goccy/go-json"

	"Places-App/internal/apperror"
	"Places-App/internal/domain/model"
	"Places-App/internal/domain/repository"
	"Places-App/internal/logging"
)

const defaultGeocodeURL = "https://maps.googleapis.com/maps/api/geocode/json"

// ErrLocationNotFound 住所に対応する位置が見つからない
var ErrLocationNotFound = apperror.NewValidation("Could not find location for specified address.")

// GoogleGeocodingProvider はGoogle Maps Geocoding APIを使用したジオコーディングの実装
type GoogleGeocodingProvider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewGoogleGeocodingProvider は新しいプロバイダを生成する
func NewGoogleGeocodingProvider(apiKey string) *GoogleGeocodingProvider {
	return &GoogleGeocodingProvider{
		apiKey:     apiKey,
		baseURL:    defaultGeocodeURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// WithBaseURL APIのURLを差し替える（テスト用）
func (g *GoogleGeocodingProvider) WithBaseURL(baseURL string) *GoogleGeocodingProvider {
	g.baseURL = baseURL
	return g
}

var _ repository.Geocoder = (*GoogleGeocodingProvider)(nil)

// Resolve は住所をGeocoding APIに問い合わせ、最初の結果の緯度経度を返す。
// 結果が無い場合はErrLocationNotFound (422)、通信に失敗した場合はTransportError (500)
func (g *GoogleGeocodingProvider) Resolve(ctx context.Context, address string) (model.LatLng, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.buildURL(address), nil)
	if err != nil {
		return model.LatLng{}, apperror.NewTransport("Could not reach the geocoding service.", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return model.LatLng{}, apperror.NewTransport("Could not reach the geocoding service.", fmt.Errorf("APIリクエストに失敗: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return model.LatLng{}, apperror.NewTransport("Could not reach the geocoding service.", fmt.Errorf("APIからエラーステータスが返されました: %s", resp.Status))
	}

	var apiResp googleGeocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("⚠️ Geocoding APIのレスポンスをパースできませんでした")
		return model.LatLng{}, ErrLocationNotFound
	}

	switch apiResp.Status {
	case "OK", "ZERO_RESULTS", "":
	default:
		return model.LatLng{}, apperror.NewTransport("Could not reach the geocoding service.",
			fmt.Errorf("Geocoding APIエラー: %s %s", apiResp.Status, apiResp.ErrorMessage))
	}

	if len(apiResp.Results) == 0 {
		return model.LatLng{}, ErrLocationNotFound
	}

	loc := apiResp.Results[0].Geometry.Location
	coords := model.LatLng{Lat: loc.Lat, Lng: loc.Lng}
	if !coords.IsValid() {
		return model.LatLng{}, ErrLocationNotFound
	}
	return coords, nil
}

func (g *GoogleGeocodingProvider) buildURL(address string) string {
	params := url.Values{}
	params.Set("address", address)
	params.Set("key", g.apiKey)
	return fmt.Sprintf("%s?%s", g.baseURL, params.Encode())
}

// --- Google Maps APIのレスポンスをパースするための構造体 ---

type googleGeocodeResponse struct {
	Results      []geocodeResult `json:"results"`
	Status       string          `json:"status"`
	ErrorMessage string          `json:"error_message,omitempty"`
}
type geocodeResult struct {
	FormattedAddress string   `json:"formatted_address"`
	Geometry         geometry `json:"geometry"`
}
type geometry struct {
	Location model.LatLng `json:"location"`
}
