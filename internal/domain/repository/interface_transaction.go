package repository

import (
	"context"
	"errors"

	"Places-App/internal/domain/model"
)

var (
	// ErrNotFound ドキュメントが存在しない
	ErrNotFound = errors.New("document not found")
	// ErrDuplicateEmail メールアドレスの一意制約違反
	ErrDuplicateEmail = errors.New("email already registered")
)

// Transactor placesとusersをまたぐ書き込みをひとつのトランザクションで実行する。
// fnがnilを返せばコミット、エラーを返せばアボートする。
// ストアによってはfnが複数回呼ばれるため、fnは自分で読んだ値だけから状態を組み立てること。
type Transactor interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context, tx Transaction) error) error
}

// Transaction トランザクション内の操作。読み込みはすべて書き込みより先に行う
type Transaction interface {
	GetUser(id string) (*model.User, error)
	GetPlace(id string) (*model.Place, error)
	// CreatePlace place.IDを採番して挿入する
	CreatePlace(place *model.Place) error
	DeletePlace(id string) error
	// SaveUserPlaces user.Placesを永続化する
	SaveUserPlaces(user *model.User) error
}
