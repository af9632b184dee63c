package domain

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/luvlist-lab/backend/internal/entity"
	"github.com/luvlist-lab/backend/internal/model"
	"github.com/luvlist-lab/backend/internal/repository"
	"github.com/luvlist-lab/backend/pkg/crypto"
	"github.com/luvlist-lab/backend/pkg/dateutil"
	"github.com/luvlist-lab/backend/pkg/errorx"
	"github.com/luvlist-lab/backend/pkg/xcontext"
	"github.com/puzpuzpuz/xsync"
	"gorm.io/gorm"
)

type LuvListDomain interface {
	Create(context.Context, *model.CreateLuvListRequest) (*model.CreateLuvListResponse, error)
	Get(context.Context, *model.GetLuvListRequest) (*model.GetLuvListResponse, error)
	GetMine(context.Context, *model.GetMyLuvListsRequest) (*model.GetMyLuvListsResponse, error)
	Update(context.Context, *model.UpdateLuvListRequest) (*model.UpdateLuvListResponse, error)
	Delete(context.Context, *model.DeleteLuvListRequest) (*model.DeleteLuvListResponse, error)
	AddItem(context.Context, *model.AddLuvListItemRequest) (*model.AddLuvListItemResponse, error)
	RemoveItem(context.Context, *model.RemoveLuvListItemRequest) (*model.RemoveLuvListItemResponse, error)
	GetRandomItem(context.Context, *model.GetRandomItemRequest) (*model.GetRandomItemResponse, error)
}

type luvlistDomain struct {
	luvlistRepo repository.LuvListRepository
	userRepo    repository.UserRepository

	// randomizerLocks serializes daily-pick generation per (list, user)
	// pair. Without it two concurrent requests on the same day could both
	// advance the permutation.
	randomizerLocks *xsync.MapOf[string, *sync.Mutex]
}

func NewLuvListDomain(
	luvlistRepo repository.LuvListRepository,
	userRepo repository.UserRepository,
) *luvlistDomain {
	return &luvlistDomain{
		luvlistRepo:     luvlistRepo,
		userRepo:        userRepo,
		randomizerLocks: xsync.NewMapOf[*sync.Mutex](),
	}
}

func (d *luvlistDomain) Create(
	ctx context.Context, req *model.CreateLuvListRequest,
) (*model.CreateLuvListResponse, error) {
	requestUserID := xcontext.RequestUserID(ctx)
	if requestUserID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "You must sign in first")
	}

	if req.Title == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty title")
	}

	list := &entity.LuvList{
		UserID: requestUserID,
		Title:  req.Title,
		Notes:  req.Notes,
		Source: req.Source,
	}
	if err := d.luvlistRepo.Create(ctx, list); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot create luvlist: %v", err)
		return nil, errorx.Unknown
	}

	return &model.CreateLuvListResponse{ID: list.ID}, nil
}

func (d *luvlistDomain) getList(ctx context.Context, id int64) (*entity.LuvList, error) {
	list, err := d.luvlistRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found list")
		}

		xcontext.Logger(ctx).Errorf("Cannot get luvlist: %v", err)
		return nil, errorx.Unknown
	}

	return list, nil
}

func (d *luvlistDomain) Get(
	ctx context.Context, req *model.GetLuvListRequest,
) (*model.GetLuvListResponse, error) {
	list, err := d.getList(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	items, err := d.luvlistRepo.GetItems(ctx, list.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get list items: %v", err)
		return nil, errorx.Unknown
	}

	clientItems := []model.ListItem{}
	for i := range items {
		clientItems = append(clientItems, model.ConvertListItem(&items[i]))
	}

	return &model.GetLuvListResponse{
		LuvList: model.ConvertLuvList(list),
		Items:   clientItems,
	}, nil
}

func (d *luvlistDomain) GetMine(
	ctx context.Context, req *model.GetMyLuvListsRequest,
) (*model.GetMyLuvListsResponse, error) {
	requestUserID := xcontext.RequestUserID(ctx)
	if requestUserID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "You must sign in first")
	}

	lists, err := d.luvlistRepo.GetByUserID(ctx, requestUserID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get luvlists: %v", err)
		return nil, errorx.Unknown
	}

	clientLists := []model.LuvList{}
	for i := range lists {
		clientLists = append(clientLists, model.ConvertLuvList(&lists[i]))
	}

	return &model.GetMyLuvListsResponse{LuvLists: clientLists}, nil
}

func (d *luvlistDomain) Update(
	ctx context.Context, req *model.UpdateLuvListRequest,
) (*model.UpdateLuvListResponse, error) {
	list, err := d.authorizeOwner(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{
		"title":  req.Title,
		"notes":  req.Notes,
		"source": req.Source,
	}
	if err := d.luvlistRepo.Update(ctx, list.ID, updates); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update luvlist: %v", err)
		return nil, errorx.Unknown
	}

	return &model.UpdateLuvListResponse{}, nil
}

func (d *luvlistDomain) Delete(
	ctx context.Context, req *model.DeleteLuvListRequest,
) (*model.DeleteLuvListResponse, error) {
	list, err := d.authorizeOwner(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.luvlistRepo.Delete(ctx, list.ID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot delete luvlist: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)
	return &model.DeleteLuvListResponse{}, nil
}

func (d *luvlistDomain) AddItem(
	ctx context.Context, req *model.AddLuvListItemRequest,
) (*model.AddLuvListItemResponse, error) {
	list, err := d.authorizeOwner(ctx, req.LuvListID)
	if err != nil {
		return nil, err
	}

	ref, err := parseRef(req.Kind, req.ObjectID)
	if err != nil {
		return nil, err
	}

	item := &entity.ContentInList{
		LuvListID: list.ID,
		Order:     req.Order,
		Item:      ref,
		Comment:   req.Comment,
	}
	if err := d.luvlistRepo.AddItem(ctx, item); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot add list item: %v", err)
		return nil, errorx.Unknown
	}

	return &model.AddLuvListItemResponse{ID: item.ID}, nil
}

func (d *luvlistDomain) RemoveItem(
	ctx context.Context, req *model.RemoveLuvListItemRequest,
) (*model.RemoveLuvListItemResponse, error) {
	list, err := d.authorizeOwner(ctx, req.LuvListID)
	if err != nil {
		return nil, err
	}

	if err := d.luvlistRepo.RemoveItem(ctx, list.ID, req.ItemID); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot remove list item: %v", err)
		return nil, errorx.Unknown
	}

	return &model.RemoveLuvListItemResponse{}, nil
}

func (d *luvlistDomain) authorizeOwner(ctx context.Context, listID int64) (*entity.LuvList, error) {
	requestUserID := xcontext.RequestUserID(ctx)
	if requestUserID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "You must sign in first")
	}

	list, err := d.getList(ctx, listID)
	if err != nil {
		return nil, err
	}

	if list.UserID != requestUserID {
		return nil, errorx.New(errorx.PermissionDenied, "Only the owner can change this list")
	}

	return list, nil
}

// GetRandomItem returns the daily pick of the list for the requesting user
// (or the shared anonymous pick). Within one local day the pick is stable;
// each new day consumes the next entry of a persisted random permutation
// that is reshuffled once exhausted.
func (d *luvlistDomain) GetRandomItem(
	ctx context.Context, req *model.GetRandomItemRequest,
) (*model.GetRandomItemResponse, error) {
	list, err := d.getList(ctx, req.LuvListID)
	if err != nil {
		return nil, err
	}

	requestUserID := xcontext.RequestUserID(ctx)

	lockKey := fmt.Sprintf("%d/%s", list.ID, requestUserID)
	mutex, _ := d.randomizerLocks.LoadOrStore(lockKey, &sync.Mutex{})
	mutex.Lock()
	defer mutex.Unlock()

	loc := time.UTC
	if requestUserID != "" {
		user, err := d.userRepo.GetByID(ctx, requestUserID)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get user: %v", err)
			return nil, errorx.Unknown
		}

		if userLoc, err := time.LoadLocation(user.Timezone); err == nil {
			loc = userLoc
		}
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	item, err := d.nextItem(ctx, list, requestUserID, loc)
	if err != nil {
		return nil, err
	}

	xcontext.WithCommitDBTransaction(ctx)
	return &model.GetRandomItemResponse{Item: model.ConvertListItem(item)}, nil
}

func (d *luvlistDomain) nextItem(
	ctx context.Context, list *entity.LuvList, userID string, loc *time.Location,
) (*entity.ContentInList, error) {
	randomizer, err := d.luvlistRepo.GetRandomizer(ctx, list.ID, userID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Errorf("Cannot get randomizer: %v", err)
			return nil, errorx.Unknown
		}

		randomizer = &entity.Randomizer{LuvListID: list.ID}
		if userID != "" {
			randomizer.UserID = nullString(userID)
		}

		if err := d.luvlistRepo.CreateRandomizer(ctx, randomizer); err != nil {
			xcontext.Logger(ctx).Errorf("Cannot create randomizer: %v", err)
			return nil, errorx.Unknown
		}
	}

	now := time.Now()

	// Same local day, same pick.
	if randomizer.LastGeneratedAt.Valid && randomizer.LastItemID.Valid &&
		dateutil.SameLocalDay(now, randomizer.LastGeneratedAt.Time, loc) {
		item, err := d.luvlistRepo.GetItemByID(ctx, list.ID, randomizer.LastItemID.Int64)
		if err == nil {
			return item, nil
		}

		if !errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Errorf("Cannot get last item: %v", err)
			return nil, errorx.Unknown
		}
	}

	currentIDs, err := d.luvlistRepo.GetItemIDs(ctx, list.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get list item ids: %v", err)
		return nil, errorx.Unknown
	}

	if len(currentIDs) == 0 {
		return nil, errorx.New(errorx.NotFound, "This list has no items")
	}

	currentSet := map[int64]struct{}{}
	for _, id := range currentIDs {
		currentSet[id] = struct{}{}
	}

	// Keep the persisted permutation, dropping removed items and appending
	// newly added ones in random order.
	order := []int64{}
	known := map[int64]struct{}{}
	for _, id := range randomizer.Order {
		if _, ok := currentSet[id]; ok {
			order = append(order, id)
			known[id] = struct{}{}
		}
	}

	newIDs := []int64{}
	for _, id := range currentIDs {
		if _, ok := known[id]; !ok {
			newIDs = append(newIDs, id)
		}
	}
	order = append(order, shuffled(newIDs)...)

	if len(order) == 0 {
		order = shuffled(currentIDs)
	}

	nextID := order[0]
	order = order[1:]

	item, err := d.luvlistRepo.GetItemByID(ctx, list.ID, nextID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get next item: %v", err)
		return nil, errorx.Unknown
	}

	randomizer.Order = entity.Array[int64](order)
	randomizer.LastItemID = nullInt64(nextID)
	randomizer.LastGeneratedAt = nullTime(now)
	if err := d.luvlistRepo.UpdateRandomizer(ctx, randomizer); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot update randomizer: %v", err)
		return nil, errorx.Unknown
	}

	return item, nil
}

func shuffled(ids []int64) []int64 {
	result := make([]int64, len(ids))
	copy(result, ids)
	for i := len(result) - 1; i > 0; i-- {
		j := crypto.RandIntn(i + 1)
		result[i], result[j] = result[j], result[i]
	}

	return result
}
