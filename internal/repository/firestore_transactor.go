package repository

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"

	"Places-App/internal/domain/model"
	domainrepo "Places-App/internal/domain/repository"
)

// FirestoreTransactor Client.RunTransactionでplacesとusersへの書き込みをまとめる
type FirestoreTransactor struct {
	client *firestore.Client
}

// NewFirestoreTransactor 新しいFirestoreTransactorインスタンスを作成
func NewFirestoreTransactor(client *firestore.Client) domainrepo.Transactor {
	return &FirestoreTransactor{client: client}
}

// RunInTransaction fnがエラーを返すとFirestoreがロールバックする。競合時はfnが再実行される
func (t *FirestoreTransactor) RunInTransaction(ctx context.Context, fn func(ctx context.Context, tx domainrepo.Transaction) error) error {
	return t.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		return fn(ctx, &firestoreTransaction{client: t.client, tx: tx})
	})
}

type firestoreTransaction struct {
	client *firestore.Client
	tx     *firestore.Transaction
}

func (t *firestoreTransaction) GetUser(id string) (*model.User, error) {
	doc, err := t.tx.Get(t.client.Collection(usersCollection).Doc(id))
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("ユーザー %s: %w", id, domainrepo.ErrNotFound)
		}
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}

	var data FirestoreUser
	if err := doc.DataTo(&data); err != nil {
		return nil, fmt.Errorf("データの変換に失敗しました: %w", err)
	}
	return data.ToUser(doc.Ref.ID), nil
}

func (t *firestoreTransaction) GetPlace(id string) (*model.Place, error) {
	doc, err := t.tx.Get(t.client.Collection(placesCollection).Doc(id))
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

func (t *firestoreTransaction) CreatePlace(place *model.Place) error {
	ref := t.client.Collection(placesCollection).NewDoc()
	if err := t.tx.Create(ref, toFirestorePlace(place)); err != nil {
		return fmt.Errorf("場所の作成に失敗しました: %w", err)
	}
	place.ID = ref.ID
	return nil
}

func (t *firestoreTransaction) DeletePlace(id string) error {
	if err := t.tx.Delete(t.client.Collection(placesCollection).Doc(id), firestore.Exists); err != nil {
		return fmt.Errorf("場所の削除に失敗しました: %w", err)
	}
	return nil
}

func (t *firestoreTransaction) SaveUserPlaces(user *model.User) error {
	ref := t.client.Collection(usersCollection).Doc(user.ID)
	err := t.tx.Update(ref, []firestore.Update{
		{Path: "places", Value: nonNilPlaces(user.Places)},
	})
	if err != nil {
		return fmt.Errorf("ユーザーの場所一覧の更新に失敗しました: %w", err)
	}
	return nil
}
