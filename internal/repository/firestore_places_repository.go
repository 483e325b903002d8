package repository

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"Places-App/internal/domain/model"
	domainrepo "Places-App/internal/domain/repository"
)

// FirestorePlacesRepository placesコレクションへのアクセス
type FirestorePlacesRepository struct {
	client *firestore.Client
}

// NewFirestorePlacesRepository 新しいFirestorePlacesRepositoryインスタンスを作成
func NewFirestorePlacesRepository(client *firestore.Client) domainrepo.PlacesRepository {
	return &FirestorePlacesRepository{client: client}
}

func (r *FirestorePlacesRepository) GetByID(ctx context.Context, id string) (*model.Place, error) {
	doc, err := r.client.Collection(placesCollection).Doc(id).Get(ctx)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("場所 %s: %w", id, domainrepo.ErrNotFound)
		}
		return nil, fmt.Errorf("場所の取得に失敗しました: %w", err)
	}

	var data FirestorePlace
	if err := doc.DataTo(&data); err != nil {
		return nil, fmt.Errorf("データの変換に失敗しました: %w", err)
	}
	return data.ToPlace(doc.Ref.ID), nil
}

func (r *FirestorePlacesRepository) GetByCreator(ctx context.Context, creatorID string) ([]model.Place, error) {
	iter := r.client.Collection(placesCollection).Where("creator", "==", creatorID).Documents(ctx)
	defer iter.Stop()

	places := []model.Place{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ユーザーの場所一覧の取得に失敗しました: %w", err)
		}

		var data FirestorePlace
		if err := doc.DataTo(&data); err != nil {
			return nil, fmt.Errorf("データの変換に失敗しました: %w", err)
		}
		places = append(places, *data.ToPlace(doc.Ref.ID))
	}
	return places, nil
}

// Update titleとdescriptionを更新する。ドキュメントが無ければErrNotFound
func (r *FirestorePlacesRepository) Update(ctx context.Context, place *model.Place) error {
	_, err := r.client.Collection(placesCollection).Doc(place.ID).Update(ctx, []firestore.Update{
		{Path: "title", Value: place.Title},
		{Path: "description", Value: place.Description},
	})
	if err != nil {
		if isNotFound(err) {
			return fmt.Errorf("場所 %s: %w", place.ID, domainrepo.ErrNotFound)
		}
		return fmt.Errorf("場所の更新に失敗しました: %w", err)
	}
	return nil
}
