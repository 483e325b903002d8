package usecase

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Places-App/internal/apperror"
	"Places-App/internal/domain/model"
	"Places-App/internal/repository/memstore"
)

func TestCreatePlace(t *testing.T) {
	f := newFixture(t)
	user := f.signup(t, "test@test.com")

	place := f.createPlace(t, user.ID)

	assert.NotEmpty(t, place.ID)
	assert.Equal(t, user.ID, place.Creator)
	assert.Equal(t, model.LatLng{Lat: 40.7484405, Lng: -73.9878584}, place.Location)

	got, err := f.places.GetPlaceByID(context.Background(), place.ID)
	require.NoError(t, err)
	assert.Equal(t, place, got)

	owner, err := f.store.Users().GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{place.ID}, owner.Places)
	assertReferentialIntegrity(t, f.store)
}

func TestCreatePlace_UnknownCreator(t *testing.T) {
	f := newFixture(t)

	_, err := f.places.CreatePlace(context.Background(), &model.CreatePlaceInput{
		Title:       "Nowhere",
		Description: "A place without an owner",
		Address:     empireAddress,
		Creator:     "missing-user",
	})

	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
	assert.Empty(t, f.store.AllPlaces())

	commits, aborts := f.store.Stats()
	assert.Zero(t, commits+aborts, "トランザクションは開かれない")

	_, err = f.places.GetPlacesByUserID(context.Background(), "missing-user")
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestCreatePlace_GeocodingFailure(t *testing.T) {
	f := newFixture(t)
	user := f.signup(t, "test@test.com")

	_, err := f.places.CreatePlace(context.Background(), &model.CreatePlaceInput{
		Title:       "Atlantis",
		Description: "Lost somewhere in the ocean",
		Address:     "unresolvable address",
		Creator:     user.ID,
	})

	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
	assert.Equal(t, 422, apperror.StatusCode(err))
	assert.Empty(t, f.store.AllPlaces())

	owner, err := f.store.Users().GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Empty(t, owner.Places)

	commits, aborts := f.store.Stats()
	assert.Zero(t, commits+aborts)
}

func TestCreatePlace_GeocoderTransportFailure(t *testing.T) {
	f := newFixture(t)
	user := f.signup(t, "test@test.com")
	f.geocoder.err = fmt.Errorf("dial tcp: i/o timeout")

	_, err := f.places.CreatePlace(context.Background(), &model.CreatePlaceInput{
		Title: "t", Description: "description", Address: empireAddress, Creator: user.ID,
	})

	assert.True(t, apperror.IsKind(err, apperror.KindTransport))
	assert.NotContains(t, apperror.PublicMessage(err), "i/o timeout")
	assert.Empty(t, f.store.AllPlaces())
}

func TestCreatePlace_AbortsWhenUserSaveFails(t *testing.T) {
	f := newFixture(t)
	user := f.signup(t, "test@test.com")
	f.store.FailOn(memstore.OpSaveUserPlaces, errInjected)

	_, err := f.places.CreatePlace(context.Background(), &model.CreatePlaceInput{
		Title: "Half written", Description: "Should never be visible", Address: empireAddress, Creator: user.ID,
	})

	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindStore))
	assert.NotContains(t, apperror.PublicMessage(err), errInjected.Error())
	assert.Empty(t, f.store.AllPlaces())

	_, aborts := f.store.Stats()
	assert.Equal(t, 1, aborts)
	assertReferentialIntegrity(t, f.store)
}

func TestDeletePlace(t *testing.T) {
	f := newFixture(t)
	user := f.signup(t, "test@test.com")
	keep := f.createPlace(t, user.ID)
	drop := f.createPlace(t, user.ID)

	require.NoError(t, f.places.DeletePlace(context.Background(), drop.ID))

	owner, err := f.store.Users().GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{keep.ID}, owner.Places)
	assert.Equal(t, []string{"uploads/images/p.png"}, f.images.removed)
	assertReferentialIntegrity(t, f.store)

	// 削除済みのIDは何度取得してもNotFound
	for i := 0; i < 3; i++ {
		_, err := f.places.GetPlaceByID(context.Background(), drop.ID)
		assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
	}

	err = f.places.DeletePlace(context.Background(), drop.ID)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestDeletePlace_AbortsWhenUserSaveFails(t *testing.T) {
	f := newFixture(t)
	user := f.signup(t, "test@test.com")
	place := f.createPlace(t, user.ID)
	f.store.FailOn(memstore.OpSaveUserPlaces, errInjected)

	err := f.places.DeletePlace(context.Background(), place.ID)

	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindStore))

	got, err := f.places.GetPlaceByID(context.Background(), place.ID)
	require.NoError(t, err)
	assert.Equal(t, place.ID, got.ID)

	owner, err := f.store.Users().GetByID(context.Background(), user.ID)
	require.NoError(t, err)
	assert.Contains(t, owner.Places, place.ID)
	assert.Empty(t, f.images.removed, "失敗したときは画像を消さない")
	assertReferentialIntegrity(t, f.store)
}

func TestDeletePlace_ImageRemovalFailureIsNotEscalated(t *testing.T) {
	f := newFixture(t)
	user := f.signup(t, "test@test.com")
	place := f.createPlace(t, user.ID)
	f.images.err = errInjected

	assert.NoError(t, f.places.DeletePlace(context.Background(), place.ID))
}

func TestReferentialIntegrityAcrossOperations(t *testing.T) {
	f := newFixture(t)
	alice := f.signup(t, "alice@example.com")
	bob := f.signup(t, "bob@example.com")

	var created []*model.Place
	for i := 0; i < 4; i++ {
		created = append(created, f.createPlace(t, alice.ID))
		created = append(created, f.createPlace(t, bob.ID))
		assertReferentialIntegrity(t, f.store)
	}

	for i, p := range created {
		if i%3 == 0 {
			require.NoError(t, f.places.DeletePlace(context.Background(), p.ID))
			assertReferentialIntegrity(t, f.store)
		}
	}

	f.store.FailOn(memstore.OpDeletePlace, errInjected)
	assert.Error(t, f.places.DeletePlace(context.Background(), created[1].ID))
	assertReferentialIntegrity(t, f.store)

	f.store.FailOn(memstore.OpCreatePlace, errInjected)
	_, err := f.places.CreatePlace(context.Background(), &model.CreatePlaceInput{
		Title: "x", Description: "xxxxx", Address: empireAddress, Creator: alice.ID,
	})
	assert.Error(t, err)
	assertReferentialIntegrity(t, f.store)
}

func TestGetPlacesByUserID(t *testing.T) {
	f := newFixture(t)
	user := f.signup(t, "test@test.com")
	other := f.signup(t, "other@test.com")

	first := f.createPlace(t, user.ID)
	second := f.createPlace(t, user.ID)
	f.createPlace(t, other.ID)

	places, err := f.places.GetPlacesByUserID(context.Background(), user.ID)
	require.NoError(t, err)
	require.Len(t, places, 2)
	assert.Equal(t, first.ID, places[0].ID)
	assert.Equal(t, second.ID, places[1].ID)
}

func TestGetPlacesByUserID_EmptyIsNotFound(t *testing.T) {
	f := newFixture(t)
	user := f.signup(t, "test@test.com")

	_, err := f.places.GetPlacesByUserID(context.Background(), user.ID)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestUpdatePlace(t *testing.T) {
	f := newFixture(t)
	user := f.signup(t, "test@test.com")
	place := f.createPlace(t, user.ID)

	updated, err := f.places.UpdatePlace(context.Background(), place.ID, &model.UpdatePlaceInput{
		Title:       "Empire State",
		Description: "Updated description",
	})
	require.NoError(t, err)
	assert.Equal(t, "Empire State", updated.Title)
	assert.Equal(t, "Updated description", updated.Description)
	assert.Equal(t, place.Address, updated.Address)

	got, err := f.places.GetPlaceByID(context.Background(), place.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, got)
}

func TestUpdatePlace_Errors(t *testing.T) {
	f := newFixture(t)
	user := f.signup(t, "test@test.com")
	place := f.createPlace(t, user.ID)

	_, err := f.places.UpdatePlace(context.Background(), "missing", &model.UpdatePlaceInput{Title: "t", Description: "descr"})
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))

	f.store.FailOn(memstore.OpUpdatePlace, errInjected)
	_, err = f.places.UpdatePlace(context.Background(), place.ID, &model.UpdatePlaceInput{Title: "t", Description: "descr"})
	assert.True(t, apperror.IsKind(err, apperror.KindStore))
	assert.Equal(t, "Something went wrong, could not update place.", apperror.PublicMessage(err))
}
