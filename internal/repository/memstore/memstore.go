// Package memstore テスト用のインメモリドキュメントストア。
// placesとusersをインスタンス内に保持し、トランザクションはコピーしたスナップショットに
// 書き込んでfnが成功したときだけ差し替える。
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"Places-App/internal/domain/model"
	"Places-App/internal/domain/repository"
)

// Op 失敗を注入できる操作
type Op string

const (
	OpGetUser        Op = "GetUser"
	OpGetPlace       Op = "GetPlace"
	OpCreatePlace    Op = "CreatePlace"
	OpDeletePlace    Op = "DeletePlace"
	OpSaveUserPlaces Op = "SaveUserPlaces"
	OpUpdatePlace    Op = "UpdatePlace"
	OpCreateUser     Op = "CreateUser"
	OpGetAllUsers    Op = "GetAllUsers"
	OpGetByCreator   Op = "GetByCreator"
	OpGetByEmail     Op = "GetByEmail"
)

type placeRecord struct {
	seq   int
	place model.Place
}

type userRecord struct {
	seq  int
	user model.User
}

type snapshot struct {
	places map[string]placeRecord
	users  map[string]userRecord
}

func (s snapshot) clone() snapshot {
	c := snapshot{
		places: make(map[string]placeRecord, len(s.places)),
		users:  make(map[string]userRecord, len(s.users)),
	}
	for id, rec := range s.places {
		c.places[id] = rec
	}
	for id, rec := range s.users {
		rec.user.Places = append([]string{}, rec.user.Places...)
		c.users[id] = rec
	}
	return c
}

// Store placesとusersを持つインメモリストア
type Store struct {
	mu    sync.RWMutex
	txMu  sync.Mutex
	data  snapshot
	seq   int
	fails map[Op]error

	commits int
	aborts  int
}

// New 空のStoreを作成
func New() *Store {
	return &Store{
		data: snapshot{
			places: map[string]placeRecord{},
			users:  map[string]userRecord{},
		},
		fails: map[Op]error{},
	}
}

// FailOn opが次に呼ばれたときにerrを返す
func (s *Store) FailOn(op Op, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fails[op] = err
}

func (s *Store) takeFailure(op Op) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err, ok := s.fails[op]; ok {
		delete(s.fails, op)
		return err
	}
	return nil
}

// Stats コミット数とアボート数
func (s *Store) Stats() (commits, aborts int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.commits, s.aborts
}

func (s *Store) nextSeq() int {
	s.seq++
	return s.seq
}

// Places PlacesRepositoryとしてのビュー
func (s *Store) Places() repository.PlacesRepository { return (*placesRepo)(s) }

// Users UsersRepositoryとしてのビュー
func (s *Store) Users() repository.UsersRepository { return (*usersRepo)(s) }

// AllPlaces 全ての場所（テストでの不変条件チェック用）
func (s *Store) AllPlaces() []model.Place {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedPlaces(s.data.places, func(model.Place) bool { return true })
}

// AllUsers 全てのユーザー
func (s *Store) AllUsers() []model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedUsers(s.data.users)
}

// RunInTransaction スナップショット上でfnを実行し、成功したときだけ反映する
func (s *Store) RunInTransaction(ctx context.Context, fn func(ctx context.Context, tx repository.Transaction) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.RLock()
	staged := s.data.clone()
	seq := s.seq
	s.mu.RUnlock()

	tx := &transaction{store: s, data: staged, seq: seq}
	if err := fn(ctx, tx); err != nil {
		s.mu.Lock()
		s.aborts++
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	s.data = tx.data
	s.seq = tx.seq
	s.commits++
	s.mu.Unlock()
	return nil
}

type transaction struct {
	store *Store
	data  snapshot
	seq   int
}

func (t *transaction) GetUser(id string) (*model.User, error) {
	if err := t.store.takeFailure(OpGetUser); err != nil {
		return nil, err
	}
	rec, ok := t.data.users[id]
	if !ok {
		return nil, fmt.Errorf("ユーザー %s: %w", id, repository.ErrNotFound)
	}
	u := rec.user
	u.Places = append([]string{}, rec.user.Places...)
	return &u, nil
}

func (t *transaction) GetPlace(id string) (*model.Place, error) {
	if err := t.store.takeFailure(OpGetPlace); err != nil {
		return nil, err
	}
	rec, ok := t.data.places[id]
	if !ok {
		return nil, fmt.Errorf("場所 %s: %w", id, repository.ErrNotFound)
	}
	p := rec.place
	return &p, nil
}

func (t *transaction) CreatePlace(place *model.Place) error {
	if err := t.store.takeFailure(OpCreatePlace); err != nil {
		return err
	}
	place.ID = uuid.NewString()
	t.seq++
	t.data.places[place.ID] = placeRecord{seq: t.seq, place: *place}
	return nil
}

func (t *transaction) DeletePlace(id string) error {
	if err := t.store.takeFailure(OpDeletePlace); err != nil {
		return err
	}
	if _, ok := t.data.places[id]; !ok {
		return fmt.Errorf("場所 %s: %w", id, repository.ErrNotFound)
	}
	delete(t.data.places, id)
	return nil
}

func (t *transaction) SaveUserPlaces(user *model.User) error {
	if err := t.store.takeFailure(OpSaveUserPlaces); err != nil {
		return err
	}
	rec, ok := t.data.users[user.ID]
	if !ok {
		return fmt.Errorf("ユーザー %s: %w", user.ID, repository.ErrNotFound)
	}
	rec.user.Places = append([]string{}, user.Places...)
	t.data.users[user.ID] = rec
	return nil
}

type placesRepo Store

func (r *placesRepo) GetByID(ctx context.Context, id string) (*model.Place, error) {
	s := (*Store)(r)
	if err := s.takeFailure(OpGetPlace); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.data.places[id]
	if !ok {
		return nil, fmt.Errorf("場所 %s: %w", id, repository.ErrNotFound)
	}
	p := rec.place
	return &p, nil
}

func (r *placesRepo) GetByCreator(ctx context.Context, creatorID string) ([]model.Place, error) {
	s := (*Store)(r)
	if err := s.takeFailure(OpGetByCreator); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedPlaces(s.data.places, func(p model.Place) bool { return p.Creator == creatorID }), nil
}

func (r *placesRepo) Update(ctx context.Context, place *model.Place) error {
	s := (*Store)(r)
	if err := s.takeFailure(OpUpdatePlace); err != nil {
		return err
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.data.places[place.ID]
	if !ok {
		return fmt.Errorf("場所 %s: %w", place.ID, repository.ErrNotFound)
	}
	rec.place.Title = place.Title
	rec.place.Description = place.Description
	s.data.places[place.ID] = rec
	return nil
}

type usersRepo Store

func (r *usersRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	s := (*Store)(r)
	if err := s.takeFailure(OpGetUser); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.data.users[id]
	if !ok {
		return nil, fmt.Errorf("ユーザー %s: %w", id, repository.ErrNotFound)
	}
	u := rec.user
	u.Places = append([]string{}, rec.user.Places...)
	return &u, nil
}

func (r *usersRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	s := (*Store)(r)
	if err := s.takeFailure(OpGetByEmail); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	normalized := model.NormalizeEmail(email)
	for _, u := range sortedUsers(s.data.users) {
		if u.Email == normalized {
			return &u, nil
		}
	}
	return nil, fmt.Errorf("メールアドレス %s: %w", email, repository.ErrNotFound)
}

func (r *usersRepo) GetAll(ctx context.Context) ([]model.User, error) {
	s := (*Store)(r)
	if err := s.takeFailure(OpGetAllUsers); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedUsers(s.data.users), nil
}

func (r *usersRepo) Create(ctx context.Context, user *model.User) error {
	s := (*Store)(r)
	if err := s.takeFailure(OpCreateUser); err != nil {
		return err
	}
	// トランザクションのコミットで上書きされないようにする
	s.txMu.Lock()
	defer s.txMu.Unlock()
	s.mu.Lock()
	defer s.mu.Unlock()

	user.Email = model.NormalizeEmail(user.Email)
	for _, rec := range s.data.users {
		if rec.user.Email == user.Email {
			return fmt.Errorf("メールアドレス %s: %w", user.Email, repository.ErrDuplicateEmail)
		}
	}

	user.ID = uuid.NewString()
	if user.Places == nil {
		user.Places = []string{}
	}
	stored := *user
	stored.Places = append([]string{}, user.Places...)
	s.data.users[user.ID] = userRecord{seq: s.nextSeq(), user: stored}
	return nil
}

func sortedPlaces(records map[string]placeRecord, keep func(model.Place) bool) []model.Place {
	recs := make([]placeRecord, 0, len(records))
	for _, rec := range records {
		if keep(rec.place) {
			recs = append(recs, rec)
		}
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].seq < recs[j].seq })

	places := make([]model.Place, len(recs))
	for i, rec := range recs {
		places[i] = rec.place
	}
	return places
}

func sortedUsers(records map[string]userRecord) []model.User {
	recs := make([]userRecord, 0, len(records))
	for _, rec := range records {
		recs = append(recs, rec)
	}
	sort.Slice(recs, func(i, j int) bool { return recs[i].seq < recs[j].seq })

	users := make([]model.User, len(recs))
	for i, rec := range recs {
		u := rec.user
		u.Places = append([]string{}, rec.user.Places...)
		users[i] = u
	}
	return users
}
