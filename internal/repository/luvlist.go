package repository

import (
	"context"
	"errors"
	"time"

	"github.com/luvlist-lab/backend/internal/entity"
	"github.com/luvlist-lab/backend/pkg/xcontext"
)

type LuvListRepository interface {
	Create(ctx context.Context, list *entity.LuvList) error
	GetByID(ctx context.Context, id int64) (*entity.LuvList, error)
	GetByUserID(ctx context.Context, userID string) ([]entity.LuvList, error)
	Update(ctx context.Context, id int64, updates map[string]any) error
	Delete(ctx context.Context, id int64) error

	AddItem(ctx context.Context, item *entity.ContentInList) error
	GetItems(ctx context.Context, luvlistID int64) ([]entity.ContentInList, error)
	GetItemByID(ctx context.Context, luvlistID, itemID int64) (*entity.ContentInList, error)
	GetItemIDs(ctx context.Context, luvlistID int64) ([]int64, error)
	RemoveItem(ctx context.Context, luvlistID, itemID int64) error

	GetRandomizer(ctx context.Context, luvlistID int64, userID string) (*entity.Randomizer, error)
	CreateRandomizer(ctx context.Context, randomizer *entity.Randomizer) error
	UpdateRandomizer(ctx context.Context, randomizer *entity.Randomizer) error
}

type luvlistRepository struct{}

func NewLuvListRepository() *luvlistRepository {
	return &luvlistRepository{}
}

func (r *luvlistRepository) Create(ctx context.Context, list *entity.LuvList) error {
	return xcontext.DB(ctx).Create(list).Error
}

func (r *luvlistRepository) GetByID(ctx context.Context, id int64) (*entity.LuvList, error) {
	var record entity.LuvList
	if err := xcontext.DB(ctx).Take(&record, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *luvlistRepository) GetByUserID(ctx context.Context, userID string) ([]entity.LuvList, error) {
	var records []entity.LuvList
	err := xcontext.DB(ctx).
		Where("user_id=?", userID).
		Order("created_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}

func (r *luvlistRepository) Update(ctx context.Context, id int64, updates map[string]any) error {
	return xcontext.DB(ctx).Model(&entity.LuvList{}).Where("id=?", id).Updates(updates).Error
}

// Delete removes the list with its items and randomizer states.
func (r *luvlistRepository) Delete(ctx context.Context, id int64) error {
	err := xcontext.DB(ctx).Where("luv_list_id=?", id).Delete(&entity.ContentInList{}).Error
	if err != nil {
		return err
	}

	err = xcontext.DB(ctx).Where("luv_list_id=?", id).Delete(&entity.Randomizer{}).Error
	if err != nil {
		return err
	}

	return xcontext.DB(ctx).Delete(&entity.LuvList{}, "id=?", id).Error
}

func (r *luvlistRepository) AddItem(ctx context.Context, item *entity.ContentInList) error {
	return xcontext.DB(ctx).Create(item).Error
}

func (r *luvlistRepository) GetItems(ctx context.Context, luvlistID int64) ([]entity.ContentInList, error) {
	var records []entity.ContentInList
	err := xcontext.DB(ctx).
		Where("luv_list_id=?", luvlistID).
		Order("`order` ASC, id ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	return records, nil
}

func (r *luvlistRepository) GetItemByID(ctx context.Context, luvlistID, itemID int64) (*entity.ContentInList, error) {
	var record entity.ContentInList
	err := xcontext.DB(ctx).
		Take(&record, "id=? AND luv_list_id=?", itemID, luvlistID).Error
	if err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *luvlistRepository) GetItemIDs(ctx context.Context, luvlistID int64) ([]int64, error) {
	var ids []int64
	err := xcontext.DB(ctx).Model(&entity.ContentInList{}).
		Where("luv_list_id=?", luvlistID).
		Order("`order` ASC, id ASC").
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}

	return ids, nil
}

func (r *luvlistRepository) RemoveItem(ctx context.Context, luvlistID, itemID int64) error {
	return xcontext.DB(ctx).
		Where("id=? AND luv_list_id=?", itemID, luvlistID).
		Delete(&entity.ContentInList{}).Error
}

// GetRandomizer looks up the per-user daily state. An empty userID addresses
// the shared anonymous state of the list.
func (r *luvlistRepository) GetRandomizer(
	ctx context.Context, luvlistID int64, userID string,
) (*entity.Randomizer, error) {
	tx := xcontext.DB(ctx).Where("luv_list_id=?", luvlistID)
	if userID == "" {
		tx = tx.Where("user_id IS NULL")
	} else {
		tx = tx.Where("user_id=?", userID)
	}

	var record entity.Randomizer
	if err := tx.Take(&record).Error; err != nil {
		return nil, err
	}

	return &record, nil
}

func (r *luvlistRepository) CreateRandomizer(ctx context.Context, randomizer *entity.Randomizer) error {
	return xcontext.DB(ctx).Create(randomizer).Error
}

func (r *luvlistRepository) UpdateRandomizer(ctx context.Context, randomizer *entity.Randomizer) error {
	if randomizer.ID == 0 {
		return errors.New("randomizer has not been persisted")
	}

	updates := map[string]any{
		"randomized_order":  randomizer.Order,
		"last_item_id":      randomizer.LastItemID,
		"last_generated_at": randomizer.LastGeneratedAt,
		"updated_at":        time.Now(),
	}

	return xcontext.DB(ctx).Model(&entity.Randomizer{}).
		Where("id=?", randomizer.ID).
		Updates(updates).Error
}
