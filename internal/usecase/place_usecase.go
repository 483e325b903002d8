package usecase

import (
	"context"
	"errors"

	"Places-App/internal/apperror"
	"Places-App/internal/domain/model"
	"Places-App/internal/domain/repository"
	"Places-App/internal/logging"
)

type PlaceUseCase interface {
	// GetPlaceByID IDで場所を取得する
	GetPlaceByID(ctx context.Context, placeID string) (*model.Place, error)

	// GetPlacesByUserID ユーザーが作成した場所の一覧。0件はNotFound
	GetPlacesByUserID(ctx context.Context, userID string) ([]model.Place, error)

	// CreatePlace ジオコーディング後、場所の作成とユーザーのplacesへの追加を同一トランザクションで行う
	CreatePlace(ctx context.Context, input *model.CreatePlaceInput) (*model.Place, error)

	// UpdatePlace titleとdescriptionを更新する
	UpdatePlace(ctx context.Context, placeID string, input *model.UpdatePlaceInput) (*model.Place, error)

	// DeletePlace 場所の削除とユーザーのplacesからの除去を同一トランザクションで行う
	DeletePlace(ctx context.Context, placeID string) error
}

// placeUseCaseImpl はPlaceUseCaseの実装
type placeUseCaseImpl struct {
	placesRepo repository.PlacesRepository
	usersRepo  repository.UsersRepository
	transactor repository.Transactor
	geocoder   repository.Geocoder
	images     repository.ImageStore
}

// NewPlaceUseCase 新しいPlaceUseCaseインスタンスを作成
func NewPlaceUseCase(
	placesRepo repository.PlacesRepository,
	usersRepo repository.UsersRepository,
	transactor repository.Transactor,
	geocoder repository.Geocoder,
	images repository.ImageStore,
) PlaceUseCase {
	return &placeUseCaseImpl{
		placesRepo: placesRepo,
		usersRepo:  usersRepo,
		transactor: transactor,
		geocoder:   geocoder,
		images:     images,
	}
}

func (u *placeUseCaseImpl) GetPlaceByID(ctx context.Context, placeID string) (*model.Place, error) {
	place, err := u.placesRepo.GetByID(ctx, placeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.Wrap(apperror.KindNotFound, "Could not find a place for the provided id.", err)
		}
		return nil, apperror.NewStore("Something went wrong, could not find a place.", err)
	}
	return place, nil
}

func (u *placeUseCaseImpl) GetPlacesByUserID(ctx context.Context, userID string) ([]model.Place, error) {
	places, err := u.placesRepo.GetByCreator(ctx, userID)
	if err != nil {
		return nil, apperror.NewStore("Fetching places failed, please try again later.", err)
	}
	if len(places) == 0 {
		return nil, apperror.NewNotFound("Could not find places for the provided user id.")
	}
	return places, nil
}

func (u *placeUseCaseImpl) CreatePlace(ctx context.Context, input *model.CreatePlaceInput) (*model.Place, error) {
	log := logging.Ctx(ctx)

	// ジオコーディングに失敗した場合はトランザクションを開かない
	coordinates, err := u.geocoder.Resolve(ctx, input.Address)
	if err != nil {
		if _, ok := apperror.As(err); ok {
			return nil, err
		}
		return nil, apperror.NewTransport("Could not reach the geocoding service.", err)
	}

	if _, err := u.usersRepo.GetByID(ctx, input.Creator); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.Wrap(apperror.KindNotFound, "Could not find user for provided id.", err)
		}
		return nil, apperror.NewStore("Creating place failed, please try again.", err)
	}

	var created *model.Place
	err = u.transactor.RunInTransaction(ctx, func(ctx context.Context, tx repository.Transaction) error {
		// 再実行されても同じ結果になるよう、毎回新しい値を組み立てる
		creator, err := tx.GetUser(input.Creator)
		if err != nil {
			return err
		}

		place := &model.Place{
			Title:       input.Title,
			Description: input.Description,
			ImageURL:    input.ImageURL,
			Address:     input.Address,
			Location:    coordinates,
			Creator:     creator.ID,
		}
		if err := tx.CreatePlace(place); err != nil {
			return err
		}

		creator.AddPlace(place.ID)
		if err := tx.SaveUserPlaces(creator); err != nil {
			return err
		}

		created = place
		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("creator", input.Creator).Msg("❌ 場所の作成トランザクションに失敗")
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.Wrap(apperror.KindNotFound, "Could not find user for provided id.", err)
		}
		return nil, apperror.NewStore("Creating place failed, please try again.", err)
	}

	log.Info().Str("place_id", created.ID).Str("creator", created.Creator).Msg("✅ 場所を作成")
	return created, nil
}

func (u *placeUseCaseImpl) UpdatePlace(ctx context.Context, placeID string, input *model.UpdatePlaceInput) (*model.Place, error) {
	place, err := u.placesRepo.GetByID(ctx, placeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.Wrap(apperror.KindNotFound, "Could not find a place for the provided id.", err)
		}
		return nil, apperror.NewStore("Something went wrong, could not update place.", err)
	}

	place.Title = input.Title
	place.Description = input.Description

	if err := u.placesRepo.Update(ctx, place); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.Wrap(apperror.KindNotFound, "Could not find a place for the provided id.", err)
		}
		return nil, apperror.NewStore("Something went wrong, could not update place.", err)
	}

	logging.Ctx(ctx).Info().Str("place_id", place.ID).Msg("✅ 場所を更新")
	return place, nil
}

func (u *placeUseCaseImpl) DeletePlace(ctx context.Context, placeID string) error {
	log := logging.Ctx(ctx)

	place, err := u.placesRepo.GetByID(ctx, placeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperror.Wrap(apperror.KindNotFound, "Could not find place for this id.", err)
		}
		return apperror.NewStore("Something went wrong, could not delete place.", err)
	}

	// 作成者を明示的に取得する
	creator, err := u.usersRepo.GetByID(ctx, place.Creator)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperror.Wrap(apperror.KindNotFound, "Could not find user for this place.", err)
		}
		return apperror.NewStore("Something went wrong, could not delete place.", err)
	}

	err = u.transactor.RunInTransaction(ctx, func(ctx context.Context, tx repository.Transaction) error {
		current, err := tx.GetPlace(place.ID)
		if err != nil {
			return err
		}
		owner, err := tx.GetUser(creator.ID)
		if err != nil {
			return err
		}

		if err := tx.DeletePlace(current.ID); err != nil {
			return err
		}

		owner.RemovePlace(current.ID)
		return tx.SaveUserPlaces(owner)
	})
	if err != nil {
		log.Error().Err(err).Str("place_id", placeID).Msg("❌ 場所の削除トランザクションに失敗")
		if errors.Is(err, repository.ErrNotFound) {
			return apperror.Wrap(apperror.KindNotFound, "Could not find place for this id.", err)
		}
		return apperror.NewStore("Something went wrong, could not delete place.", err)
	}

	// コミット後の画像削除は失敗してもログのみ
	if u.images != nil && place.ImageURL != "" {
		if err := u.images.Remove(ctx, place.ImageURL); err != nil {
			log.Warn().Err(err).Str("image", place.ImageURL).Msg("⚠️ 画像の削除に失敗")
		}
	}

	log.Info().Str("place_id", placeID).Str("creator", creator.ID).Msg("🗑️ 場所を削除")
	return nil
}

