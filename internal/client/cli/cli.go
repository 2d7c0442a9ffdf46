// Package cli implements the commands of the octosync client binary.
package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/iudanet/octosync/internal/client/iocli"
	"github.com/iudanet/octosync/internal/client/storage"
	"github.com/iudanet/octosync/internal/client/sync"
	"github.com/iudanet/octosync/internal/models"
	"github.com/iudanet/octosync/internal/validation"
)

// Cli выполняет команды клиента поверх движка синхронизации
type Cli struct {
	engine *sync.Engine
	meta   storage.MetadataStorage
	io     iocli.IO
	logger *slog.Logger
	now    func() time.Time
	// remote описывает удаленное хранилище в выводе status
	remote      string
	concurrency int
}

// New creates the command runner. meta may be nil.
func New(engine *sync.Engine, meta storage.MetadataStorage, out iocli.IO, logger *slog.Logger) *Cli {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cli{
		engine: engine,
		meta:   meta,
		io:     out,
		logger: logger,
		now:    time.Now,
		remote: "none",
	}
}

// SetRemote задает описание удаленного хранилища для status
func (c *Cli) SetRemote(description string) {
	c.remote = description
}

// SetConcurrency ограничивает параллелизм команды sync
func (c *Cli) SetConcurrency(n int) {
	c.concurrency = n
}

// printJSON печатает значение с отступами; ключи map выводятся отсортированными
func (c *Cli) printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	c.io.Printf("%s\n", data)
	return nil
}

// parsePayload разбирает JSON объект сущности. Числа сохраняются как json.Number.
func parsePayload(raw []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var payload map[string]any
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("payload must be a JSON object: %w", err)
	}
	if payload == nil {
		return nil, fmt.Errorf("payload must be a JSON object")
	}
	if dec.More() {
		return nil, fmt.Errorf("payload must contain a single JSON object")
	}

	return payload, nil
}

func checkCollection(name string) error {
	if err := validation.ValidateCollection(name); err != nil {
		return fmt.Errorf("invalid collection %q: %w", name, err)
	}
	return nil
}

// collectionsOrAll возвращает переданные коллекции или весь каталог
func collectionsOrAll(args []string) ([]string, error) {
	if len(args) == 0 {
		return models.Collections(), nil
	}
	for _, name := range args {
		if err := checkCollection(name); err != nil {
			return nil, err
		}
	}
	return args, nil
}
