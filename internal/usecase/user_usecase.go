package usecase

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"Places-App/internal/apperror"
	"Places-App/internal/domain/model"
	"Places-App/internal/domain/repository"
	"Places-App/internal/logging"
)

const (
	// MinPasswordLength パスワードの最小文字数
	MinPasswordLength = 6
	// MaxPasswordBytes bcryptが受け付ける最大バイト数
	MaxPasswordBytes = 72
)

type UserUseCase interface {
	// GetUsers 全ユーザーを取得する
	GetUsers(ctx context.Context) ([]model.User, error)

	// Signup メールアドレスの重複を確認してユーザーを作成する
	Signup(ctx context.Context, input *model.SignupInput) (*model.User, error)

	// Login メールアドレスとパスワードで本人確認する（トークンは発行しない）
	Login(ctx context.Context, input *model.LoginInput) (*model.User, error)
}

// userUseCaseImpl はUserUseCaseの実装
type userUseCaseImpl struct {
	usersRepo  repository.UsersRepository
	bcryptCost int
}

// NewUserUseCase 新しいUserUseCaseインスタンスを作成
func NewUserUseCase(usersRepo repository.UsersRepository) UserUseCase {
	return &userUseCaseImpl{
		usersRepo:  usersRepo,
		bcryptCost: bcrypt.DefaultCost,
	}
}

func (u *userUseCaseImpl) GetUsers(ctx context.Context) ([]model.User, error) {
	users, err := u.usersRepo.GetAll(ctx)
	if err != nil {
		return nil, apperror.NewStore("Fetching users failed, please try again later.", err)
	}
	return users, nil
}

func (u *userUseCaseImpl) Signup(ctx context.Context, input *model.SignupInput) (*model.User, error) {
	email := model.NormalizeEmail(input.Email)
	if len(input.Password) < MinPasswordLength || len(input.Password) > MaxPasswordBytes {
		return nil, apperror.NewValidation("Invalid inputs passed, please check your data.")
	}

	existing, err := u.usersRepo.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, apperror.NewStore("Signing up failed, please try again later.", err)
	}
	if existing != nil {
		return nil, apperror.NewValidation("User exists already, please login instead.")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), u.bcryptCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, apperror.Wrap(apperror.KindValidation, "Invalid inputs passed, please check your data.", err)
		}
		return nil, apperror.NewStore("Signing up failed, please try again.", err)
	}

	user := &model.User{
		Name:     input.Name,
		Email:    email,
		ImageURL: input.ImageURL,
		Password: string(hashed),
		Places:   []string{},
	}
	if err := u.usersRepo.Create(ctx, user); err != nil {
		// 確認後に別リクエストが同じメールで登録した場合
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, apperror.Wrap(apperror.KindValidation, "User exists already, please login instead.", err)
		}
		return nil, apperror.NewStore("Signing up failed, please try again.", err)
	}

	logging.Ctx(ctx).Info().Str("user_id", user.ID).Msg("✅ ユーザーを作成")
	return user, nil
}

func (u *userUseCaseImpl) Login(ctx context.Context, input *model.LoginInput) (*model.User, error) {
	user, err := u.usersRepo.GetByEmail(ctx, model.NormalizeEmail(input.Email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NewAuth("Invalid credentials, could not log you in.")
		}
		return nil, apperror.NewStore("Logging in failed, please try again later.", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		return nil, apperror.NewAuth("Invalid credentials, could not log you in.")
	}

	logging.Ctx(ctx).Info().Str("user_id", user.ID).Msg("🔑 ログイン成功")
	return user, nil
}
