package firestore

import (
	"context"
	"fmt"
	"os"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"

	"Places-App/internal/logging"
)

type FirestoreClient struct {
	client *firestore.Client
}

// NewFirestoreClient projectIDのFirestoreに接続する。
// credentialsFileが空またはファイルが無い場合はデフォルト認証（エミュレータ含む）を使用
func NewFirestoreClient(ctx context.Context, projectID, credentialsFile string) (*FirestoreClient, error) {
	if projectID == "" {
		return nil, fmt.Errorf("FirestoreのプロジェクトIDが指定されていません")
	}

	var opts []option.ClientOption
	if os.Getenv("FIRESTORE_EMULATOR_HOST") != "" {
		logging.Info().Str("host", os.Getenv("FIRESTORE_EMULATOR_HOST")).Msg("🧪 Firestoreエミュレータに接続")
	} else if credentialsFile != "" {
		if _, err := os.Stat(credentialsFile); err != nil {
			logging.Warn().Str("file", credentialsFile).Msg("⚠️ Credentials file not found, trying with default authentication")
		} else {
			logging.Info().Str("file", credentialsFile).Msg("📄 Using credentials file")
			opts = append(opts, option.WithCredentialsFile(credentialsFile))
		}
	}

	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Firestore client: %w", err)
	}
	logging.Info().Str("project", projectID).Msg("✅ Firestore client initialized")

	return &FirestoreClient{client: client}, nil
}

func (fc *FirestoreClient) Close() error {
	return fc.client.Close()
}

func (fc *FirestoreClient) GetClient() *firestore.Client {
	return fc.client
}
