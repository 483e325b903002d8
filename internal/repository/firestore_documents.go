package repository

import (
	"google.golang.org/genproto/googleapis/type/latlng"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"Places-App/internal/domain/model"
)

const (
	placesCollection     = "places"
	usersCollection      = "users"
	userEmailsCollection = "userEmails"
)

// FirestorePlace placesコレクションのドキュメント
type FirestorePlace struct {
	Title       string         `firestore:"title"`
	Description string         `firestore:"description"`
	ImageURL    string         `firestore:"imageUrl"`
	Address     string         `firestore:"address"`
	Location    *latlng.LatLng `firestore:"location"`
	Creator     string         `firestore:"creator"`
}

// FirestoreUser usersコレクションのドキュメント
type FirestoreUser struct {
	Name     string   `firestore:"name"`
	Email    string   `firestore:"email"`
	ImageURL string   `firestore:"imageUrl"`
	Password string   `firestore:"password"`
	Places   []string `firestore:"places"`
}

// firestoreUserEmail メールアドレス一意制約用のインデックスドキュメント
type firestoreUserEmail struct {
	UserID string `firestore:"userId"`
}

func toFirestorePlace(p *model.Place) *FirestorePlace {
	return &FirestorePlace{
		Title:       p.Title,
		Description: p.Description,
		ImageURL:    p.ImageURL,
		Address:     p.Address,
		Location:    &latlng.LatLng{Latitude: p.Location.Lat, Longitude: p.Location.Lng},
		Creator:     p.Creator,
	}
}

// ToPlace ドキュメントIDを付けてドメインモデルに変換
func (fp *FirestorePlace) ToPlace(id string) *model.Place {
	place := &model.Place{
		ID:          id,
		Title:       fp.Title,
		Description: fp.Description,
		ImageURL:    fp.ImageURL,
		Address:     fp.Address,
		Creator:     fp.Creator,
	}
	if fp.Location != nil {
		place.Location = model.LatLng{Lat: fp.Location.GetLatitude(), Lng: fp.Location.GetLongitude()}
	}
	return place
}

func toFirestoreUser(u *model.User) *FirestoreUser {
	return &FirestoreUser{
		Name:     u.Name,
		Email:    u.Email,
		ImageURL: u.ImageURL,
		Password: u.Password,
		Places:   nonNilPlaces(u.Places),
	}
}

// ToUser ドキュメントIDを付けてドメインモデルに変換
func (fu *FirestoreUser) ToUser(id string) *model.User {
	return &model.User{
		ID:       id,
		Name:     fu.Name,
		Email:    fu.Email,
		ImageURL: fu.ImageURL,
		Password: fu.Password,
		Places:   nonNilPlaces(fu.Places),
	}
}

// Firestoreではnilスライスがnullとして保存されるため空配列にそろえる
func nonNilPlaces(places []string) []string {
	if places == nil {
		return []string{}
	}
	return places
}

func isNotFound(err error) bool {
	return status.Code(err) == codes.NotFound
}

func isAlreadyExists(err error) bool {
	return status.Code(err) == codes.AlreadyExists
}
