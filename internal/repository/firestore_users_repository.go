package repository

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"

	"Places-App/internal/domain/model"
	domainrepo "Places-App/internal/domain/repository"
)

// FirestoreUsersRepository usersコレクションへのアクセス
type FirestoreUsersRepository struct {
	client *firestore.Client
}

// NewFirestoreUsersRepository 新しいFirestoreUsersRepositoryインスタンスを作成
func NewFirestoreUsersRepository(client *firestore.Client) domainrepo.UsersRepository {
	return &FirestoreUsersRepository{client: client}
}

func (r *FirestoreUsersRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	doc, err := r.client.Collection(usersCollection).Doc(id).Get(ctx)
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

func (r *FirestoreUsersRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	iter := r.client.Collection(usersCollection).Where("email", "==", model.NormalizeEmail(email)).Limit(1).Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, fmt.Errorf("メールアドレス %s: %w", email, domainrepo.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("ユーザーの検索に失敗しました: %w", err)
	}

	var data FirestoreUser
	if err := doc.DataTo(&data); err != nil {
		return nil, fmt.Errorf("データの変換に失敗しました: %w", err)
	}
	return data.ToUser(doc.Ref.ID), nil
}

func (r *FirestoreUsersRepository) GetAll(ctx context.Context) ([]model.User, error) {
	iter := r.client.Collection(usersCollection).Documents(ctx)
	defer iter.Stop()

	users := []model.User{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("全ユーザーの取得に失敗しました: %w", err)
		}

		var data FirestoreUser
		if err := doc.DataTo(&data); err != nil {
			return nil, fmt.Errorf("データの変換に失敗しました: %w", err)
		}
		users = append(users, *data.ToUser(doc.Ref.ID))
	}
	return users, nil
}

// Create ユーザーとメールアドレスのインデックスを同一トランザクションで作成する。
// インデックスはtx.Createで作るため、同じメールが既にあればAlreadyExistsで失敗する
func (r *FirestoreUsersRepository) Create(ctx context.Context, user *model.User) error {
	user.Email = model.NormalizeEmail(user.Email)
	emailRef := r.client.Collection(userEmailsCollection).Doc(emailKey(user.Email))

	var userID string
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		userRef := r.client.Collection(usersCollection).NewDoc()
		userID = userRef.ID

		if err := tx.Create(emailRef, &firestoreUserEmail{UserID: userRef.ID}); err != nil {
			return err
		}
		return tx.Create(userRef, toFirestoreUser(user))
	})
	if err != nil {
		if isAlreadyExists(err) {
			return fmt.Errorf("メールアドレス %s: %w", user.Email, domainrepo.ErrDuplicateEmail)
		}
		return fmt.Errorf("ユーザーの作成に失敗しました: %w", err)
	}

	user.ID = userID
	user.Places = nonNilPlaces(user.Places)
	return nil
}

// emailKey メールアドレスから決定的なドキュメントIDを作る（'/'などを含んでもよいように）
func emailKey(email string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte("mailto:"+email)).String()
}
