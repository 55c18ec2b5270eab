package util

import (
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
)

// GuestStoragePath : путь для гостевой загрузки, привязан к анонимной сессии.
// Случайный идентификатор исключает коллизии имён внутри одной сессии.
func GuestStoragePath(sessionID string, filename string) string {
	return fmt.Sprintf("guests/%s/%s%s", sessionID, uuid.New().String(), filepath.Ext(filename))
}

// UserStoragePath : путь для файла авторизованного пользователя
func UserStoragePath(userUUID string, filename string) string {
	return fmt.Sprintf("users/%s/documents/%s%s", userUUID, uuid.New().String(), filepath.Ext(filename))
}
