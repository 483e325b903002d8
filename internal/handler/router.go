package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RouterConfig ルーターの依存関係
type RouterConfig struct {
	Places          *PlacesHandler
	Users           *UsersHandler
	Uploader        ImageUploader
	UploadDir       string
	CORSAllowOrigin string
}

// NewRouter APIのルーティングを設定したgin.Engineを作成
func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	// パニック時も画像を削除するため、ErrorHandlerはRecoveryより外側
	r.Use(RequestLogger(), CORS(cfg.CORSAllowOrigin), ErrorHandler(cfg.Uploader), Recovery())

	if cfg.UploadDir != "" {
		r.Static("/uploads/images", cfg.UploadDir)
	}

	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": "Places-App"})
	})

	places := r.Group("/api/places")
	{
		places.GET("/:pid", cfg.Places.GetPlaceByID)
		places.GET("/user/:uid", cfg.Places.GetPlacesByUserID)
		places.GET("/user/:uid/geojson", cfg.Places.GetPlacesByUserIDGeoJSON)
		places.POST("", cfg.Places.CreatePlace)
		places.PATCH("/:pid", cfg.Places.UpdatePlace)
		places.DELETE("/:pid", cfg.Places.DeletePlace)
	}

	users := r.Group("/api/users")
	{
		users.GET("", cfg.Users.GetUsers)
		users.POST("/signup", cfg.Users.Signup)
		users.POST("/login", cfg.Users.Login)
	}

	r.NoRoute(NotFound)
	return r
}
