package service

import "errors"

// Ошибки бизнес-логики. Возвращаются обёрнутыми через fmt.Errorf("%w: ..."),
// вызывающий код различает их через errors.Is.
var (
	// ErrValidation возвращается при некорректном формате входных данных.
	ErrValidation = errors.New("validation failed")
	// ErrDuplicateID возвращается, если сущность с таким идентификатором уже существует.
	ErrDuplicateID = errors.New("duplicate id")
	// ErrDuplicateEmail возвращается, если гость с таким email уже зарегистрирован.
	ErrDuplicateEmail = errors.New("duplicate email")
	// ErrNotFound возвращается, если связанный номер, гость или бронирование не найдены.
	ErrNotFound = errors.New("not found")
	// ErrCapacityExceeded возвращается, если группа больше вместимости номера.
	ErrCapacityExceeded = errors.New("capacity exceeded")
	// ErrConflict возвращается, если даты пересекаются с существующим бронированием.
	ErrConflict = errors.New("room not available for given date range")
	// ErrRoomInUse возвращается при удалении номера с незавершёнными бронированиями.
	ErrRoomInUse = errors.New("room has active reservations")
	// ErrPersistence возвращается при ошибках чтения или записи хранилища.
	ErrPersistence = errors.New("persistence failed")
)
