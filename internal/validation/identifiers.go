package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// CollectionPattern определяет допустимый формат имени коллекции
// Только строчные латинские буквы, цифры и нижнее подчеркивание, первая буква обязательна.
// Имя коллекции используется как часть ключа локального хранилища, URL и имени объекта.
var CollectionPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

const (
	// MaxCollectionLen максимальная длина имени коллекции
	MaxCollectionLen = 63
	// MaxEntityIDLen максимальная длина идентификатора сущности
	MaxEntityIDLen = 128
	// MinPassphraseLen минимальная длина парольной фразы для шифрования локальных данных
	MinPassphraseLen = 12
)

// ValidateCollection проверяет, что имя коллекции соответствует требованиям
func ValidateCollection(name string) error {
	if name == "" {
		return fmt.Errorf("collection name cannot be empty")
	}

	if len(name) > MaxCollectionLen {
		return fmt.Errorf("collection name must not exceed %d characters", MaxCollectionLen)
	}

	if !CollectionPattern.MatchString(name) {
		return fmt.Errorf("collection name can only contain lowercase letters (a-z), numbers (0-9), and underscores (_), starting with a letter")
	}

	return nil
}

// ValidateEntityID проверяет идентификатор сущности.
// id попадает в путь URL и в имя объекта, поэтому "/" и управляющие символы запрещены.
func ValidateEntityID(id string) error {
	if id == "" {
		return fmt.Errorf("entity id cannot be empty")
	}

	if len(id) > MaxEntityIDLen {
		return fmt.Errorf("entity id must not exceed %d characters", MaxEntityIDLen)
	}

	if strings.Contains(id, "/") {
		return fmt.Errorf("entity id cannot contain '/'")
	}

	for _, r := range id {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return fmt.Errorf("entity id cannot contain whitespace or control characters")
		}
	}

	return nil
}

// ValidatePassphrase проверяет минимальные требования к парольной фразе
func ValidatePassphrase(passphrase string) error {
	if passphrase == "" {
		return fmt.Errorf("passphrase cannot be empty")
	}

	if len(passphrase) < MinPassphraseLen {
		return fmt.Errorf("passphrase must be at least %d characters long", MinPassphraseLen)
	}

	return nil
}
