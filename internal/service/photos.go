package service

import (
	"context"
	"fmt"
	"slices"

	"github.com/vbonduro/sitelog/internal/attachment"
	"github.com/vbonduro/sitelog/internal/domain"
)

// PhotoCollections are the collections whose records carry photos.
var PhotoCollections = []string{"tasks", "diary", "variations", "deliveries", "inspections"}

type photoRecord interface {
	domain.Record
	domain.PhotoHolder
}

func findPhotoRecord[T any, P interface {
	*T
	photoRecord
}](items []T, collection, id string) (photoRecord, error) {
	p, ok := domain.Find[T, P](items, id)
	if !ok {
		return nil, fmt.Errorf("%s %q: %w", collection, id, domain.ErrNotFound)
	}
	return p, nil
}

// photoRecordIn returns a pointer into st for the record that owns photos.
func photoRecordIn(st *domain.State, collection, id string) (photoRecord, error) {
	switch collection {
	case "tasks":
		return findPhotoRecord[domain.Task, *domain.Task](st.Tasks, collection, id)
	case "diary":
		return findPhotoRecord[domain.DiaryEntry, *domain.DiaryEntry](st.Diary, collection, id)
	case "variations":
		return findPhotoRecord[domain.Variation, *domain.Variation](st.Variations, collection, id)
	case "deliveries":
		return findPhotoRecord[domain.Delivery, *domain.Delivery](st.Deliveries, collection, id)
	case "inspections":
		return findPhotoRecord[domain.Inspection, *domain.Inspection](st.Inspections, collection, id)
	}
	return nil, fmt.Errorf("%q: %w", collection, ErrUnknownCollection)
}

// AttachPhotos reads files and appends the resulting photos to a record.
// Files that cannot be read are dropped; the photos actually attached are
// returned.
func (s *SiteService) AttachPhotos(ctx context.Context, collection, id string, files []attachment.Source) ([]domain.Photo, error) {
	s.mu.RLock()
	_, err := photoRecordIn(&s.state, collection, id)
	s.mu.RUnlock()
	if err != nil {
		return nil, err
	}

	photos := s.photos.ReadAll(ctx, files)
	if len(photos) == 0 {
		return photos, nil
	}

	err = s.mutate(ctx, collection, "attach", func(st *domain.State) error {
		rec, err := photoRecordIn(st, collection, id)
		if err != nil {
			return err
		}
		list := rec.Attachments()
		*list = append(slices.Clone(*list), photos...)
		rec.RecordMeta().UpdatedAt = s.timestamp()
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("photos attached", "collection", collection, "id", id, "count", len(photos))
	return photos, nil
}

// DetachPhoto removes one photo from a record.
func (s *SiteService) DetachPhoto(ctx context.Context, collection, id, photoID string) error {
	if !slices.Contains(PhotoCollections, collection) {
		return fmt.Errorf("%q: %w", collection, ErrUnknownCollection)
	}
	return s.mutate(ctx, collection, "detach", func(st *domain.State) error {
		rec, err := photoRecordIn(st, collection, id)
		if err != nil {
			return err
		}
		list := rec.Attachments()
		i := slices.IndexFunc(*list, func(p domain.Photo) bool { return p.ID == photoID })
		if i < 0 {
			return fmt.Errorf("photo %q: %w", photoID, domain.ErrNotFound)
		}
		*list = slices.Delete(slices.Clone(*list), i, i+1)
		rec.RecordMeta().UpdatedAt = s.timestamp()
		return nil
	})
}
