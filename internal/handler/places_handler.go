package handler

import (
	"context"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"Places-App/internal/apperror"
	"Places-App/internal/domain/model"
	"Places-App/internal/usecase"
)

// ImageUploader multipartの画像を保存・削除する
type ImageUploader interface {
	Save(ctx context.Context, fh *multipart.FileHeader) (string, error)
	Remove(ctx context.Context, path string) error
}

// PlacesHandler 場所に関するHTTPハンドラー
type PlacesHandler struct {
	placeUseCase usecase.PlaceUseCase
	uploader     ImageUploader
}

// NewPlacesHandler PlacesHandlerの新しいインスタンスを作成
func NewPlacesHandler(placeUseCase usecase.PlaceUseCase, uploader ImageUploader) *PlacesHandler {
	return &PlacesHandler{
		placeUseCase: placeUseCase,
		uploader:     uploader,
	}
}

type createPlaceRequest struct {
	Title       string `form:"title" binding:"required"`
	Description string `form:"description" binding:"required,min=5"`
	Address     string `form:"address" binding:"required"`
	Creator     string `form:"creator" binding:"required"`
}

type updatePlaceRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required,min=5"`
}

// GetPlaceByID GET /api/places/:pid
func (h *PlacesHandler) GetPlaceByID(c *gin.Context) {
	place, err := h.placeUseCase.GetPlaceByID(c.Request.Context(), c.Param("pid"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"place": place})
}

// GetPlacesByUserID GET /api/places/user/:uid
func (h *PlacesHandler) GetPlacesByUserID(c *gin.Context) {
	places, err := h.placeUseCase.GetPlacesByUserID(c.Request.Context(), c.Param("uid"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"places": places})
}

// GetPlacesByUserIDGeoJSON GET /api/places/user/:uid/geojson - 地図表示用のFeatureCollection
func (h *PlacesHandler) GetPlacesByUserIDGeoJSON(c *gin.Context) {
	places, err := h.placeUseCase.GetPlacesByUserID(c.Request.Context(), c.Param("uid"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, model.PlacesToFeatureCollection(places))
}

// CreatePlace POST /api/places (multipart: image, title, description, address, creator)
func (h *PlacesHandler) CreatePlace(c *gin.Context) {
	var req createPlaceRequest
	if err := c.ShouldBind(&req); err != nil {
		_ = c.Error(invalidInput(c, err))
		return
	}

	imagePath, err := saveImage(c, h.uploader)
	if err != nil {
		_ = c.Error(err)
		return
	}

	place, err := h.placeUseCase.CreatePlace(c.Request.Context(), &model.CreatePlaceInput{
		Title:       req.Title,
		Description: req.Description,
		Address:     req.Address,
		Creator:     req.Creator,
		ImageURL:    imagePath,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"place": place})
}

// UpdatePlace PATCH /api/places/:pid
func (h *PlacesHandler) UpdatePlace(c *gin.Context) {
	var req updatePlaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(invalidInput(c, err))
		return
	}

	place, err := h.placeUseCase.UpdatePlace(c.Request.Context(), c.Param("pid"), &model.UpdatePlaceInput{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"place": place})
}

// DeletePlace DELETE /api/places/:pid
func (h *PlacesHandler) DeletePlace(c *gin.Context) {
	if err := h.placeUseCase.DeletePlace(c.Request.Context(), c.Param("pid")); err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Deleted place."})
}

// saveImage "image"フィールドの画像を保存し、失敗時に削除できるようパスをContextに記録する
func saveImage(c *gin.Context, uploader ImageUploader) (string, error) {
	fh, err := c.FormFile("image")
	if err != nil {
		return "", apperror.Wrap(apperror.KindValidation, "No image provided.", err)
	}

	path, err := uploader.Save(c.Request.Context(), fh)
	if err != nil {
		return "", err
	}
	c.Set(uploadedFileKey, path)
	return path, nil
}
