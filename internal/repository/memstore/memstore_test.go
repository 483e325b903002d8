package memstore

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Places-App/internal/domain/model"
	"Places-App/internal/domain/repository"
)

func TestTransactionCommitAndAbort(t *testing.T) {
	ctx := context.Background()
	s := New()
	user := &model.User{Name: "u", Email: "u@test.com"}
	require.NoError(t, s.Users().Create(ctx, user))

	var placeID string
	err := s.RunInTransaction(ctx, func(ctx context.Context, tx repository.Transaction) error {
		u, err := tx.GetUser(user.ID)
		require.NoError(t, err)
		p := &model.Place{Title: "p", Creator: u.ID}
		require.NoError(t, tx.CreatePlace(p))
		placeID = p.ID
		u.AddPlace(p.ID)
		return tx.SaveUserPlaces(u)
	})
	require.NoError(t, err)
	assert.Len(t, s.AllPlaces(), 1)

	boom := errors.New("boom")
	err = s.RunInTransaction(ctx, func(ctx context.Context, tx repository.Transaction) error {
		require.NoError(t, tx.DeletePlace(placeID))
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Len(t, s.AllPlaces(), 1)

	commits, aborts := s.Stats()
	assert.Equal(t, 1, commits)
	assert.Equal(t, 1, aborts)
}

func TestFailOnIsConsumedOnce(t *testing.T) {
	ctx := context.Background()
	s := New()
	boom := errors.New("boom")
	s.FailOn(OpCreateUser, boom)

	assert.ErrorIs(t, s.Users().Create(ctx, &model.User{Email: "a@b.com"}), boom)
	assert.NoError(t, s.Users().Create(ctx, &model.User{Email: "a@b.com"}))
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	s := New()
	require.NoError(t, s.Users().Create(ctx, &model.User{Email: "a@b.com"}))

	err := s.Users().Create(ctx, &model.User{Email: "A@B.COM"})
	assert.ErrorIs(t, err, repository.ErrDuplicateEmail)

	_, err = s.Users().GetByEmail(ctx, "nobody@b.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestReturnedValuesAreCopies(t *testing.T) {
	ctx := context.Background()
	s := New()
	user := &model.User{Email: "a@b.com", Places: []string{"p1"}}
	require.NoError(t, s.Users().Create(ctx, user))

	got, err := s.Users().GetByID(ctx, user.ID)
	require.NoError(t, err)
	got.Places[0] = "changed"

	again, err := s.Users().GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"p1"}, again.Places)
}
