package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"Places-App/internal/apperror"
	"Places-App/internal/domain/repository"
	"Places-App/internal/logging"
)

// uploadedFileKey このリクエストで保存した画像のパス（gin.Contextのキー）
const uploadedFileKey = "uploadedFile"

// ErrorHandler c.Errorで積まれたエラーを {"message": ...} とステータスに変換する。
// 失敗したリクエスト（Recoveryが返した500を含む）で保存済みの画像があれば削除する。
// Recoveryより外側に登録すること
func ErrorHandler(images repository.ImageStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		ctx := c.Request.Context()
		log := logging.Ctx(ctx)
		failed := len(c.Errors) > 0 || c.Writer.Status() >= http.StatusBadRequest

		if path := c.GetString(uploadedFileKey); failed && path != "" && images != nil {
			if rmErr := images.Remove(ctx, path); rmErr != nil {
				log.Warn().Err(rmErr).Str("path", path).Msg("⚠️ アップロード画像の削除に失敗")
			}
		}

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err

		status := apperror.StatusCode(err)
		if status >= http.StatusInternalServerError {
			log.Error().Err(err).Int("status", status).Msg("❌ リクエスト処理に失敗")
		} else {
			log.Info().Err(err).Int("status", status).Msg("⚠️ リクエストを拒否")
		}
		c.JSON(status, gin.H{"message": apperror.PublicMessage(err)})
	}
}

// Recovery panicを500の {"message": ...} に変換する
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logging.Ctx(c.Request.Context()).Error().Interface("panic", recovered).Msg("❌ panic")
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "An unknown error occurred!"})
	})
}

// NotFound どのルートにも一致しない場合
func NotFound(c *gin.Context) {
	_ = c.Error(apperror.NewNotFound("Could not find this route."))
}

// invalidInput バインドエラーを422にする。どのフィールドが不正かはログにのみ出す
func invalidInput(c *gin.Context, err error) error {
	fields := []string{}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			fields = append(fields, fe.Field()+":"+fe.Tag())
		}
	}
	logging.Ctx(c.Request.Context()).Debug().Err(err).Strs("fields", fields).Msg("入力値の検証に失敗")
	return apperror.Wrap(apperror.KindValidation, "Invalid inputs passed, please check your data.", err)
}
