package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/iudanet/octosync/internal/client/sync"
	"github.com/iudanet/octosync/internal/models"
)

// runList печатает записи коллекции. localOnly читает только локальный снимок.
func (c *Cli) runList(ctx context.Context, collection string, localOnly bool) error {
	if err := checkCollection(collection); err != nil {
		return err
	}

	coll := c.engine.Collection(collection)

	var snapshot models.Snapshot
	if localOnly {
		snapshot = coll.Local(ctx)
	} else {
		snapshot = coll.GetAll(ctx)
	}

	if snapshot == nil {
		snapshot = models.Snapshot{}
	}
	return c.printJSON(snapshot)
}

func (c *Cli) runGet(ctx context.Context, collection, id string) error {
	if err := checkCollection(collection); err != nil {
		return err
	}

	entity, err := c.engine.Collection(collection).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sync.ErrNotFound) {
			return fmt.Errorf("record %s not found in %s: %w", id, collection, err)
		}
		return fmt.Errorf("failed to get record: %w", err)
	}

	return c.printJSON(entity)
}

func (c *Cli) runCreate(ctx context.Context, collection string, raw []byte) error {
	if err := checkCollection(collection); err != nil {
		return err
	}

	payload, err := parsePayload(raw)
	if err != nil {
		return err
	}

	entity, err := c.engine.Collection(collection).Create(ctx, payload)
	if err != nil {
		return fmt.Errorf("failed to create record: %w", err)
	}

	return c.printJSON(entity)
}

// runUpdate заменяет запись id содержимым raw
func (c *Cli) runUpdate(ctx context.Context, collection, id string, raw []byte) error {
	if err := checkCollection(collection); err != nil {
		return err
	}

	payload, err := parsePayload(raw)
	if err != nil {
		return err
	}
	if other, ok := payload[models.FieldID]; ok && other != id {
		return fmt.Errorf("payload id %v does not match %s", other, id)
	}
	payload[models.FieldID] = id

	entity, err := c.engine.Collection(collection).Update(ctx, models.Entity(payload))
	if err != nil {
		return fmt.Errorf("failed to update record: %w", err)
	}

	return c.printJSON(entity)
}

// runDelete удаляет запись, при confirm запрашивая подтверждение
func (c *Cli) runDelete(ctx context.Context, collection, id string, confirm bool) error {
	if err := checkCollection(collection); err != nil {
		return err
	}

	if confirm {
		answer, err := c.io.ReadInput(fmt.Sprintf("Delete %s/%s? (yes/no): ", collection, id))
		if err != nil {
			return fmt.Errorf("failed to read confirmation: %w", err)
		}
		answer = strings.ToLower(answer)
		if answer != "yes" && answer != "y" {
			c.io.Println("Deletion cancelled.")
			return nil
		}
	}

	if err := c.engine.Collection(collection).Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}

	c.io.Printf("Deleted %s/%s\n", collection, id)
	return nil
}
