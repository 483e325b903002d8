package model

import "strings"

// User アプリケーションのユーザー
type User struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Email    string   `json:"email"`    // 小文字に正規化済み
	ImageURL string   `json:"imageUrl"` // アップロード画像のパス
	Password string   `json:"-"`        // bcryptハッシュ。レスポンスには含めない
	Places   []string `json:"places"`   // 所有するPlaceのID
}

// SignupInput サインアップの入力
type SignupInput struct {
	Name     string
	Email    string
	Password string
	ImageURL string
}

// LoginInput ログインの入力
type LoginInput struct {
	Email    string
	Password string
}

// NormalizeEmail 比較・保存用にメールアドレスを正規化する
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// HasPlace placeIDを所有しているか
func (u *User) HasPlace(placeID string) bool {
	for _, id := range u.Places {
		if id == placeID {
			return true
		}
	}
	return false
}

// AddPlace placesの末尾にplaceIDを追加
func (u *User) AddPlace(placeID string) {
	if u.HasPlace(placeID) {
		return
	}
	u.Places = append(u.Places, placeID)
}

// RemovePlace placesからplaceIDを取り除く（順序は保持）
func (u *User) RemovePlace(placeID string) {
	kept := make([]string, 0, len(u.Places))
	for _, id := range u.Places {
		if id != placeID {
			kept = append(kept, id)
		}
	}
	u.Places = kept
}
