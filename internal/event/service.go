package event

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

type Service struct {
	DB         *gorm.DB
	Categories *Categories
}

// Query narrows List. IDs and the From/To window combine with AND; an
// empty Query returns everything.
type Query struct {
	IDs []uint64

	// When both are set, List returns events that start inside the window,
	// overlap it, or recur (recurring events can land in any window).
	From *time.Time
	To   *time.Time
}

func (s *Service) categories() *Categories {
	if s.Categories == nil {
		return DefaultCategories()
	}
	return s.Categories
}

func (s *Service) Create(ctx context.Context, in Input) (*Event, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var e Event
	in.apply(&e, s.categories())
	if err := s.DB.WithContext(ctx).Create(&e).Error; err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return &e, nil
}

func (s *Service) Get(ctx context.Context, id uint64) (*Event, error) {
	var e Event
	if err := s.DB.WithContext(ctx).First(&e, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

// Update replaces every editable field of the event.
func (s *Service) Update(ctx context.Context, id uint64, in Input) (*Event, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var e Event
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&e, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		in.apply(&e, s.categories())
		return tx.Save(&e).Error
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("update event %d: %w", id, err)
	}
	return &e, nil
}

func (s *Service) Delete(ctx context.Context, id uint64) error {
	res := s.DB.WithContext(ctx).Delete(&Event{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete event %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns matching events ordered by start date.
func (s *Service) List(ctx context.Context, q Query) ([]Event, error) {
	tx := s.DB.WithContext(ctx).Model(&Event{})

	if len(q.IDs) > 0 {
		tx = tx.Where("id IN ?", q.IDs)
	}
	if q.From != nil && q.To != nil {
		from, to := q.From.UTC(), q.To.UTC()
		tx = tx.Where(
			"((start_date >= ? AND start_date <= ?) OR is_recurring = ? OR (start_date <= ? AND end_date >= ?))",
			from, to, true, to, from,
		)
	}

	var out []Event
	if err := tx.Order("start_date asc, id asc").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return out, nil
}
