// Package intake registers found items: photo processing, storage and the
// database insert, plus the matching cleanup on delete.
package intake

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/erazemk/lostfound/internal/imaging"
	"github.com/erazemk/lostfound/internal/model"
	"github.com/erazemk/lostfound/internal/objstore"
	"github.com/erazemk/lostfound/internal/store"
)

// MsgPhotoRequired is shown when the upload has no photo.
const MsgPhotoRequired = "場所、カテゴリ、写真、登録者名、拾得日は必須です"

// Register validates the form, stores the photo and inserts the item. The
// photo is removed again if the insert fails.
func Register(ctx context.Context, db *sql.DB, bucket *objstore.Bucket, in model.NewLostItem, photo io.Reader) (*model.LostItem, error) {
	in.Normalize()
	if photo == nil {
		return nil, &model.ValidationError{Field: "image", Message: MsgPhotoRequired}
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	processed, err := imaging.Process(photo)
	if err != nil {
		return nil, photoError(err)
	}

	name := objstore.NewObjectName(imaging.Ext)
	if err := bucket.Put(name, processed.Data); err != nil {
		return nil, fmt.Errorf("uploading photo: %w", err)
	}
	in.ImagePath = bucket.PublicURL(name)

	item, err := store.CreateItem(ctx, db, in)
	if err != nil {
		if derr := bucket.Delete(name); derr != nil {
			slog.Error("failed to remove orphaned photo", "object", name, "error", derr)
		}
		return nil, err
	}
	return item, nil
}

func photoError(err error) error {
	switch {
	case errors.Is(err, imaging.ErrEmpty):
		return &model.ValidationError{Field: "image", Message: MsgPhotoRequired}
	case errors.Is(err, imaging.ErrTooLarge):
		return &model.ValidationError{Field: "image", Message: "写真のサイズが大きすぎます（10MBまで）"}
	case errors.Is(err, imaging.ErrUnsupportedFormat):
		return &model.ValidationError{Field: "image", Message: "JPEGまたはPNGの写真を選択してください"}
	default:
		return &model.ValidationError{Field: "image", Message: "写真を読み込めませんでした"}
	}
}

// Remove deletes an item and, best effort, its photo.
func Remove(ctx context.Context, db *sql.DB, bucket *objstore.Bucket, id int64) error {
	item, err := store.GetItem(ctx, db, id)
	if err != nil {
		return err
	}
	if item == nil {
		return fmt.Errorf("deleting item %d: %w", id, store.ErrNotFound)
	}

	if err := store.DeleteItem(ctx, db, id); err != nil {
		return err
	}

	if name := bucket.ObjectName(item.ImagePath); name != "" {
		if err := bucket.Delete(name); err != nil {
			slog.Warn("failed to delete item photo", "item", id, "object", name, "error", err)
		}
	}
	return nil
}
