package sync

import "errors"

var (
	// ErrNotFound возвращается GetByID, если сущности нет ни локально, ни на удаленной стороне
	ErrNotFound = errors.New("entity not found")

	// ErrMissingID возвращается при записи сущности без строкового поля "id"
	ErrMissingID = errors.New("entity has no id")

	// ErrNoRemote означает, что движок работает без удаленного хранилища
	ErrNoRemote = errors.New("remote store is not configured")

	// ErrEngineClosed означает, что фоновая отправка не запущена, так как движок остановлен
	ErrEngineClosed = errors.New("sync engine is closed")
)
