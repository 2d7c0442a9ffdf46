// Package config loads the configuration of the octosync binaries from an
// optional .env file and OCTOSYNC_* environment variables.
//
// Nested keys map to environment variables by replacing dots with
// underscores: remote.s3.bucket is read from OCTOSYNC_REMOTE_S3_BUCKET.
// Defaults come from the `default` struct tags.
package config

import (
	"path/filepath"
	"reflect"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix - префикс всех переменных окружения
const EnvPrefix = "OCTOSYNC"

// LoadClient loads the client configuration. dir is the directory of the .env file.
func LoadClient(dir string) (*Client, error) {
	var cfg Client
	if err := load(dir, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadServer loads the server configuration
func LoadServer(dir string) (*Server, error) {
	var cfg Server
	if err := load(dir, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func load(dir string, out any) error {
	// Отсутствие .env не ошибка (например, в контейнере)
	_ = godotenv.Overload(filepath.Join(dir, ".env"))

	v := viper.New()

	// Регистрируем ключи и значения по умолчанию из тегов
	bindValues(v, out, "")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v.Unmarshal(out)
}

// bindValues обходит структуру рефлексией и задает значения по умолчанию
// в viper по тегам `mapstructure` и `default`.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		// time.Duration не структура, поэтому рекурсия только по вложенным конфигам
		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		// Значение задаем всегда, даже пустое: иначе AutomaticEnv не увидит ключ при Unmarshal
		v.SetDefault(key, field.Tag.Get("default"))
	}
}
