package remote

import (
	"context"
	"errors"
)

// Ошибки удаленного хранилища. Адаптеры оборачивают исходные ошибки
// в одну из них, чтобы движок синхронизации мог их классифицировать.
var (
	// ErrNotFound indicates that the requested record does not exist remotely
	ErrNotFound = errors.New("remote record not found")

	// ErrUnauthorized indicates a permission or policy rejection (401/403, row-level security)
	ErrUnauthorized = errors.New("remote rejected request: unauthorized")

	// ErrUnavailable indicates a network failure, 5xx or rate limiting
	ErrUnavailable = errors.New("remote unavailable")

	// ErrRejected indicates a request the remote will never accept as-is (400, 422)
	ErrRejected = errors.New("remote rejected request")
)

// Kind классифицирует ошибку удаленного вызова
type Kind string

const (
	KindNone          Kind = ""
	KindTransient     Kind = "transient"
	KindAuthorization Kind = "authorization"
	KindNotFound      Kind = "not_found"
	KindRejected      Kind = "rejected"
	KindTimeout       Kind = "timeout"
	KindCanceled      Kind = "canceled"
)

// KindOf возвращает класс ошибки. Любая неизвестная ошибка считается временной.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, context.DeadlineExceeded):
		return KindTimeout
	case errors.Is(err, context.Canceled):
		return KindCanceled
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrUnauthorized):
		return KindAuthorization
	case errors.Is(err, ErrRejected):
		return KindRejected
	default:
		return KindTransient
	}
}

// IsRetryable сообщает, имеет ли смысл повторять вызов.
// Ошибки авторизации повторяются так же, как временные: отказ политики доступа
// на удаленной стороне бывает кратковременным (истекающий токен, прогрев политики).
func IsRetryable(err error) bool {
	switch KindOf(err) {
	case KindTransient, KindAuthorization:
		return true
	default:
		return false
	}
}

// IsRetryableStrict - вариант IsRetryable, который не повторяет ошибки авторизации
func IsRetryableStrict(err error) bool {
	return KindOf(err) == KindTransient
}
