package testutil

import (
	"context"
	"reflect"

	"github.com/google/uuid"
	"github.com/luvlist-lab/backend/internal/entity"
	"github.com/luvlist-lab/backend/internal/repository"
)

// SampleUser creates a user with randomized fields. Non-zero fields of init
// overwrite the sample before it is persisted.
func SampleUser(ctx context.Context, init *entity.User) (entity.User, error) {
	userRepo := repository.NewUserRepository()

	sample := &entity.User{
		Base:     entity.Base{ID: uuid.NewString()},
		Handle:   "u" + uuid.NewString()[:8],
		IsPublic: true,
		Timezone: "UTC",
	}

	if init != nil {
		overwriteFields(sample, *init)
	}

	if err := userRepo.Create(ctx, sample); err != nil {
		return *sample, err
	}

	return *sample, nil
}

// SamplePost creates a post owned by userID. Non-zero fields of init
// overwrite the sample.
func SamplePost(ctx context.Context, userID string, init *entity.Post) (entity.Post, error) {
	postRepo := repository.NewPostRepository()

	sample := &entity.Post{
		UserID:          userID,
		Title:           uuid.NewString(),
		Content:         uuid.NewString(),
		CommentsEnabled: true,
	}

	if init != nil {
		overwriteFields(sample, *init)
	}

	if err := postRepo.Create(ctx, sample); err != nil {
		return *sample, err
	}

	return *sample, nil
}

func overwriteFields[T any](origin *T, overwrite T) {
	originValue := reflect.ValueOf(origin).Elem()
	overwriteValue := reflect.ValueOf(overwrite)

	for i := 0; i < overwriteValue.NumField(); i++ {
		overwriteField := overwriteValue.Field(i)
		if overwriteField.Interface() != reflect.Zero(overwriteField.Type()).Interface() {
			originValue.Field(i).Set(overwriteField)
		}
	}
}
