package models

import "errors"

// Таксономия доменных ошибок. Все они ожидаемые и восстановимые:
// слои выше оборачивают их через fmt.Errorf("...: %w") и сопоставляют errors.Is.
var (
	// ErrPermissionDenied — доступ к геолокации не выдан, запуск триггера заблокирован
	ErrPermissionDenied = errors.New("permission denied")

	// ErrLocationUnavailable — разрешение есть, но координата недоступна
	ErrLocationUnavailable = errors.New("location unavailable")

	// ErrValidation — некорректная заготовка инцидента, отклоняется до обращения к хранилищу
	ErrValidation = errors.New("validation error")

	// ErrStoreUnavailable — временная потеря связи с хранилищем; не ретраится автоматически
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrNotFound — запись с таким идентификатором не существует
	ErrNotFound = errors.New("not found")

	// ErrInvalidTransition — запрошенный переход статуса запрещён таблицей переходов
	ErrInvalidTransition = errors.New("invalid status transition")
)
