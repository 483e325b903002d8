package apperror

import (
	"errors"
	"net/http"
)

// Kind エラーの分類
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindNotFound
	KindAuth
	KindStore
	KindTransport
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindAuth:
		return "auth"
	case KindStore:
		return "store"
	case KindTransport:
		return "transport"
	default:
		return "unknown"
	}
}

// StatusCode Kindに対応するHTTPステータスを返す
func (k Kind) StatusCode() int {
	switch k {
	case KindValidation:
		return http.StatusUnprocessableEntity
	case KindNotFound:
		return http.StatusNotFound
	case KindAuth:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Error クライアントに返してよいメッセージと内部原因を持つアプリケーションエラー
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// StatusCode エラーに載っているHTTPステータスを返す
func (e *Error) StatusCode() int {
	return e.Kind.StatusCode()
}

// NewValidation 入力不正 (422)
func NewValidation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// NewNotFound 対象が存在しない (404)
func NewNotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// NewAuth 認証失敗 (401)
func NewAuth(message string) *Error {
	return &Error{Kind: KindAuth, Message: message}
}

// NewStore ドキュメントストアの失敗 (500)
func NewStore(message string, err error) *Error {
	return &Error{Kind: KindStore, Message: message, Err: err}
}

// NewTransport 外部APIへの通信失敗 (500)
func NewTransport(message string, err error) *Error {
	return &Error{Kind: KindTransport, Message: message, Err: err}
}

// Wrap 既存のKindとメッセージを保ったまま原因を付け加える
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// As errのチェーンから*Errorを取り出す
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsKind errが指定のKindかどうか
func IsKind(err error, kind Kind) bool {
	appErr, ok := As(err)
	return ok && appErr.Kind == kind
}

// StatusCode errに対応するHTTPステータス。分類されていなければ500
func StatusCode(err error) int {
	if appErr, ok := As(err); ok {
		return appErr.StatusCode()
	}
	return http.StatusInternalServerError
}

// PublicMessage クライアントに返すメッセージ。内部エラーの文面は出さない
func PublicMessage(err error) string {
	if appErr, ok := As(err); ok && appErr.Message != "" {
		return appErr.Message
	}
	return "An unknown error occurred!"
}
