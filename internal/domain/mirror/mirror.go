package mirror

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/luvlist-lab/backend/internal/entity"
	"github.com/luvlist-lab/backend/internal/repository"
	"github.com/luvlist-lab/backend/pkg/bluesky"
	"github.com/luvlist-lab/backend/pkg/crypto"
	"github.com/luvlist-lab/backend/pkg/mastodon"
	"github.com/luvlist-lab/backend/pkg/xcontext"
	"github.com/pkg/math"
	"gorm.io/gorm"
)

const (
	blueskyCharBudget  = 300
	mastodonCharBudget = 490
)

// Manager mirrors newly created content to the author's linked external
// accounts. Mirroring is strictly best effort: a provider failure is logged
// and never surfaces to the caller, and one provider failing does not stop
// the other.
type Manager struct {
	accountRepo    repository.MirrorAccountRepository
	blueskyClient  *bluesky.Client
	mastodonClient *mastodon.Client
}

func NewManager(
	accountRepo repository.MirrorAccountRepository,
	blueskyClient *bluesky.Client,
	mastodonClient *mastodon.Client,
) *Manager {
	return &Manager{
		accountRepo:    accountRepo,
		blueskyClient:  blueskyClient,
		mastodonClient: mastodonClient,
	}
}

// Mirror posts text with a canonical link to ref appended, on every provider
// the user has linked. Users without linked accounts are a no-op.
func (m *Manager) Mirror(ctx context.Context, userID, text string, ref entity.ContentRef) {
	link := xcontext.Configs(ctx).App.RootURL + ref.AbsolutePath()

	if err := m.mirrorBluesky(ctx, userID, text, link); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot mirror %s to bluesky: %v", ref.Kind, err)
	}

	if err := m.mirrorMastodon(ctx, userID, text, link); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot mirror %s to mastodon: %v", ref.Kind, err)
	}
}

func (m *Manager) mirrorBluesky(ctx context.Context, userID, text, link string) error {
	account, err := m.accountRepo.GetBlueskyByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}

		return err
	}

	appPassword, err := m.decrypt(ctx, account.EncryptedPassword)
	if err != nil {
		return err
	}

	session, err := m.blueskyClient.CreateSession(ctx, account.PdsURL, account.Handle, appPassword)
	if err != nil {
		return err
	}

	status := composeStatus(text, link, blueskyCharBudget-len(link)-3)
	if _, err := m.blueskyClient.Post(ctx, session, status); err != nil {
		return err
	}

	return nil
}

func (m *Manager) mirrorMastodon(ctx context.Context, userID, text, link string) error {
	account, err := m.accountRepo.GetMastodonByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}

		return err
	}

	accessToken, err := m.decrypt(ctx, account.EncryptedAccessToken)
	if err != nil {
		return err
	}

	status := composeStatus(text, link, mastodonCharBudget-len(link)-4)
	if _, err := m.mastodonClient.PostStatus(ctx, account.Handle, accessToken, status); err != nil {
		return err
	}

	return nil
}

func (m *Manager) decrypt(ctx context.Context, encrypted string) (string, error) {
	key, err := hex.DecodeString(xcontext.Configs(ctx).Mirror.SecretKey)
	if err != nil {
		return "", err
	}

	return crypto.Decrypt(key, encrypted)
}

// composeStatus appends the canonical link after the text, truncating the
// text to maxText runes with an ellipsis when it would overflow the
// provider's character budget.
func composeStatus(text, link string, maxText int) string {
	runes := []rune(text)
	if len(runes) > maxText {
		text = string(runes[:math.MaxInt(maxText, 0)]) + "…"
	}

	return fmt.Sprintf("%s\n\n%s", text, link)
}
