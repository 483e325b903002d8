package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"Places-App/internal/config"
	"Places-App/internal/handler"
	"Places-App/internal/infrastructure/firestore"
	"Places-App/internal/infrastructure/maps"
	"Places-App/internal/infrastructure/upload"
	"Places-App/internal/logging"
	"Places-App/internal/repository"
	"Places-App/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Error().Err(err).Msg("必要な環境変数: FIRESTORE_PROJECT_ID, GOOGLE_MAPS_API_KEY")
		os.Exit(1)
	}

	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logging.Info().Msg("Initializing Firestore client...")
	fsClient, err := firestore.NewFirestoreClient(ctx, cfg.FirestoreProjectID, cfg.CredentialsFile)
	if err != nil {
		logging.Error().Err(err).Msg("❌ Firestoreクライアント初期化失敗")
		os.Exit(1)
	}
	defer fsClient.Close()

	uploader, err := upload.NewImageUploader(cfg.UploadDir)
	if err != nil {
		logging.Error().Err(err).Msg("❌ 画像ディレクトリの初期化失敗")
		os.Exit(1)
	}

	// リポジトリ
	client := fsClient.GetClient()
	placesRepo := repository.NewFirestorePlacesRepository(client)
	usersRepo := repository.NewFirestoreUsersRepository(client)
	transactor := repository.NewFirestoreTransactor(client)
	geocoder := maps.NewGoogleGeocodingProvider(cfg.GoogleMapsAPIKey)

	// ユースケース
	placeUseCase := usecase.NewPlaceUseCase(placesRepo, usersRepo, transactor, geocoder, uploader)
	userUseCase := usecase.NewUserUseCase(usersRepo)

	router := handler.NewRouter(handler.RouterConfig{
		Places:          handler.NewPlacesHandler(placeUseCase, uploader),
		Users:           handler.NewUsersHandler(userUseCase, uploader),
		Uploader:        uploader,
		UploadDir:       cfg.UploadDir,
		CORSAllowOrigin: cfg.CORSAllowOrigin,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logging.Info().Str("addr", cfg.Addr()).Msg("🚀 Places-App server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error().Err(err).Msg("❌ サーバーが停止しました")
			stop()
		}
	}()

	<-ctx.Done()
	logging.Info().Msg("🛑 シャットダウン中...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("❌ シャットダウンに失敗")
	}
}
