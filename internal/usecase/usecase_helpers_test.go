package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"Places-App/internal/apperror"
	"Places-App/internal/domain/model"
	"Places-App/internal/repository/memstore"
)

// fakeGeocoder 住所ごとに固定の座標を返す
type fakeGeocoder struct {
	mu     sync.Mutex
	coords map[string]model.LatLng
	err    error
	calls  int
}

func (g *fakeGeocoder) Resolve(ctx context.Context, address string) (model.LatLng, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls++
	if g.err != nil {
		return model.LatLng{}, g.err
	}
	c, ok := g.coords[address]
	if !ok {
		return model.LatLng{}, apperror.NewValidation("Could not find location for specified address.")
	}
	return c, nil
}

// fakeImages 削除されたパスを記録する
type fakeImages struct {
	mu      sync.Mutex
	removed []string
	err     error
}

func (f *fakeImages) Remove(ctx context.Context, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, path)
	return f.err
}

const empireAddress = "20 W 34th St, New York, NY 10001"

type fixture struct {
	store    *memstore.Store
	geocoder *fakeGeocoder
	images   *fakeImages
	places   PlaceUseCase
	users    UserUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memstore.New()
	geocoder := &fakeGeocoder{coords: map[string]model.LatLng{
		empireAddress: {Lat: 40.7484405, Lng: -73.9878584},
	}}
	images := &fakeImages{}

	users := NewUserUseCase(store.Users())
	users.(*userUseCaseImpl).bcryptCost = bcrypt.MinCost

	return &fixture{
		store:    store,
		geocoder: geocoder,
		images:   images,
		places:   NewPlaceUseCase(store.Places(), store.Users(), store, geocoder, images),
		users:    users,
	}
}

func (f *fixture) signup(t *testing.T, email string) *model.User {
	t.Helper()
	user, err := f.users.Signup(context.Background(), &model.SignupInput{
		Name:     "Stacey Joseph",
		Email:    email,
		Password: "secret1",
		ImageURL: "uploads/images/u.png",
	})
	require.NoError(t, err)
	return user
}

func (f *fixture) createPlace(t *testing.T, creator string) *model.Place {
	t.Helper()
	place, err := f.places.CreatePlace(context.Background(), &model.CreatePlaceInput{
		Title:       "Empire State Building",
		Description: "One of the most famous sky scrapers in the world!",
		Address:     empireAddress,
		Creator:     creator,
		ImageURL:    "uploads/images/p.png",
	})
	require.NoError(t, err)
	return place
}

// assertReferentialIntegrity ユーザーのplacesと場所のcreatorが常に対応しているか
func assertReferentialIntegrity(t *testing.T, store *memstore.Store) {
	t.Helper()
	places := map[string]model.Place{}
	for _, p := range store.AllPlaces() {
		places[p.ID] = p
	}

	owned := map[string]bool{}
	for _, u := range store.AllUsers() {
		for _, pid := range u.Places {
			p, ok := places[pid]
			require.Truef(t, ok, "user %s references missing place %s", u.ID, pid)
			require.Equalf(t, u.ID, p.Creator, "place %s creator mismatch", pid)
			owned[pid] = true
		}
	}
	for id := range places {
		require.Truef(t, owned[id], "place %s is not listed by its creator", id)
	}
}

var errInjected = errors.New("injected failure")
