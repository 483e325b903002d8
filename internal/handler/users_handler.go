package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"Places-App/internal/domain/model"
	"Places-App/internal/usecase"
)

// UsersHandler ユーザーに関するHTTPハンドラー
type UsersHandler struct {
	userUseCase usecase.UserUseCase
	uploader    ImageUploader
}

// NewUsersHandler UsersHandlerの新しいインスタンスを作成
func NewUsersHandler(userUseCase usecase.UserUseCase, uploader ImageUploader) *UsersHandler {
	return &UsersHandler{
		userUseCase: userUseCase,
		uploader:    uploader,
	}
}

// Emailの形式はNormalizeEmailの後にvalidateで検証する
type signupRequest struct {
	Name     string `form:"name" binding:"required"`
	Email    string `form:"email" binding:"required"`
	Password string `form:"password" binding:"required,min=6,max=72"`
}

var validate = validator.New()

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// GetUsers GET /api/users
func (h *UsersHandler) GetUsers(c *gin.Context) {
	users, err := h.userUseCase.GetUsers(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// Signup POST /api/users/signup (multipart: image, name, email, password)
func (h *UsersHandler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBind(&req); err != nil {
		_ = c.Error(invalidInput(c, err))
		return
	}
	req.Email = model.NormalizeEmail(req.Email)
	if err := validate.Var(req.Email, "required,email"); err != nil {
		_ = c.Error(invalidInput(c, err))
		return
	}

	imagePath, err := saveImage(c, h.uploader)
	if err != nil {
		_ = c.Error(err)
		return
	}

	user, err := h.userUseCase.Signup(c.Request.Context(), &model.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		ImageURL: imagePath,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": user})
}

// Login POST /api/users/login
func (h *UsersHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		_ = c.Error(invalidInput(c, err))
		return
	}

	user, err := h.userUseCase.Login(c.Request.Context(), &model.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged in!", "user": user})
}
