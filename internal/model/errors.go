package model

import "errors"

// Виды ошибок сервиса. Сервисы оборачивают их через %w, транспортный слой
// сопоставляет с HTTP-кодами через errors.Is.
var (
	// ErrNotFound : объект, grant, ссылка или пользователь отсутствует либо истёк
	ErrNotFound = errors.New("не найдено")

	// ErrForbidden : аутентифицированный пользователь не владелец и без grant
	ErrForbidden = errors.New("доступ запрещён")

	// ErrInvalidInput : некорректный идентификатор или пустой обязательный список
	ErrInvalidInput = errors.New("некорректные входные данные")

	// ErrStorageFailure : ошибка блоб-хранилища или БД
	ErrStorageFailure = errors.New("ошибка хранилища")
)
