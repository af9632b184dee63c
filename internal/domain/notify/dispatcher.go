package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/luvlist-lab/backend/internal/common"
	"github.com/luvlist-lab/backend/internal/entity"
	"github.com/luvlist-lab/backend/internal/repository"
	"github.com/luvlist-lab/backend/pkg/textparse"
	"github.com/luvlist-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

// Manager creates notifications for comment, repost, and mention events and
// for deletion cascades. Messages are rendered HTML; the link embedded in
// comment, repost, and mention messages carries a mark_read marker with the
// notification's own id, so those messages are written twice (once to obtain
// the id, once with the final link).
type Manager struct {
	notificationRepo repository.NotificationRepository
	userRepo         repository.UserRepository
	resolver         *common.ContentResolver
}

func NewManager(
	notificationRepo repository.NotificationRepository,
	userRepo repository.UserRepository,
	resolver *common.ContentResolver,
) *Manager {
	return &Manager{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		resolver:         resolver,
	}
}

func userPath(handle string) string {
	return fmt.Sprintf("/@%s", handle)
}

// CommentCreated notifies the owner of the commented content. Nothing is
// created when the commenter owns the content or the owner muted the
// subject.
func (m *Manager) CommentCreated(
	ctx context.Context, commenter *entity.User, subject *common.ContentInfo,
) error {
	if commenter.ID == subject.OwnerID {
		return nil
	}

	muted, err := m.notificationRepo.IsMuted(ctx, subject.OwnerID, subject.Ref)
	if err != nil {
		return err
	}

	if muted {
		return nil
	}

	render := func(contentURL string) string {
		return fmt.Sprintf(
			`<a href="%s">@%s</a> commented on your <a href="%s">%s</a>.`,
			userPath(commenter.Handle), commenter.Name(), contentURL, subject.Ref.Kind.Label(),
		)
	}

	notification := &entity.Notification{
		RecipientID: subject.OwnerID,
		SenderID:    commenter.ID,
		Subject:     subject.Ref,
		Type:        entity.NotificationComment,
		Message:     render(subject.Path()),
	}
	if err := m.notificationRepo.Create(ctx, notification); err != nil {
		return err
	}

	markedURL := fmt.Sprintf("%s?mark_read=%d", subject.Path(), notification.ID)
	return m.notificationRepo.UpdateMessage(ctx, notification.ID, render(markedURL))
}

// RepostCreated notifies the owner of the reposted content. The mark_read
// link points at the repost, not at the original.
func (m *Manager) RepostCreated(
	ctx context.Context, reposter *entity.User, repost *entity.Repost, original *common.ContentInfo,
) error {
	if reposter.ID == original.OwnerID {
		return nil
	}

	muted, err := m.notificationRepo.IsMuted(ctx, original.OwnerID, original.Ref)
	if err != nil {
		return err
	}

	if muted {
		return nil
	}

	render := func(repostURL string) string {
		return fmt.Sprintf(
			`<a href="%s">@%s</a> reposted your <a href="%s">%s</a>. See the <a href="%s">Repost</a>.`,
			userPath(reposter.Handle), reposter.Handle, original.Path(),
			original.Ref.Kind.Label(), repostURL,
		)
	}

	notification := &entity.Notification{
		RecipientID: original.OwnerID,
		SenderID:    reposter.ID,
		Subject:     original.Ref,
		Type:        entity.NotificationRepost,
		Message:     render(repost.Ref().AbsolutePath()),
	}
	if err := m.notificationRepo.Create(ctx, notification); err != nil {
		return err
	}

	markedURL := fmt.Sprintf("%s?mark_read=%d", repost.Ref().AbsolutePath(), notification.ID)
	return m.notificationRepo.UpdateMessage(ctx, notification.ID, render(markedURL))
}

// MentionsIn notifies every existing user whose handle is @-mentioned in
// text. Unknown handles, self-mentions, and users who muted the subject
// are skipped silently.
func (m *Manager) MentionsIn(
	ctx context.Context, author *entity.User, text string, subject *common.ContentInfo,
) error {
	for _, handle := range textparse.Mentions(text) {
		mentioned, err := m.userRepo.GetByHandle(ctx, handle)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}

			return err
		}

		if mentioned.ID == author.ID {
			continue
		}

		muted, err := m.notificationRepo.IsMuted(ctx, mentioned.ID, subject.Ref)
		if err != nil {
			return err
		}

		if muted {
			continue
		}

		render := func(contentURL string) string {
			return fmt.Sprintf(
				`<a href="%s">@%s</a> mentioned you in a <a href="%s">%s</a>.`,
				userPath(author.Handle), author.Name(), contentURL, subject.Ref.Kind.Label(),
			)
		}

		notification := &entity.Notification{
			RecipientID: mentioned.ID,
			SenderID:    author.ID,
			Subject:     subject.Ref,
			Type:        entity.NotificationMention,
			Message:     render(subject.Path()),
		}
		if err := m.notificationRepo.Create(ctx, notification); err != nil {
			return err
		}

		markedURL := fmt.Sprintf("%s?mark_read=%d", subject.Path(), notification.ID)
		if err := m.notificationRepo.UpdateMessage(ctx, notification.ID, render(markedURL)); err != nil {
			return err
		}
	}

	return nil
}

// ContentDeleted notifies every commenter of a content item that is being
// removed, taking their comments with it. The subject ref is left empty
// since it no longer resolves by the time the recipient reads the message.
func (m *Manager) ContentDeleted(
	ctx context.Context, ownerID string, kind entity.ContentKind, comments []entity.Comment,
) error {
	for _, comment := range comments {
		if comment.UserID == ownerID {
			continue
		}

		message := fmt.Sprintf(
			"A %s your commented was deleted, thus your comment was also deleted: <br><blockquote>%s</blockquote>",
			kind.Label(), comment.Content,
		)

		notification := &entity.Notification{
			RecipientID: comment.UserID,
			SenderID:    ownerID,
			Type:        entity.NotificationCommentOnDeleted,
			Message:     message,
		}
		if err := m.notificationRepo.Create(ctx, notification); err != nil {
			return err
		}
	}

	return nil
}

// CommentDeletedByOwner notifies the commenter that the content owner
// removed their comment. The notification is deferred until the deleting
// transaction commits; a rollback discards it.
func (m *Manager) CommentDeletedByOwner(
	ctx context.Context, comment *entity.Comment, subject *common.ContentInfo,
) {
	if comment.UserID == subject.OwnerID {
		return
	}

	message := fmt.Sprintf(
		"Your comment on a <a href=%s>%s</a> was deleted by the user: <br><blockquote>%s</blockquote>",
		subject.Path(), subject.Ref.Kind.Label(), comment.Content,
	)

	recipientID := comment.UserID
	senderID := subject.OwnerID
	xcontext.AfterCommit(ctx, func(hookCtx context.Context) {
		notification := &entity.Notification{
			RecipientID: recipientID,
			SenderID:    senderID,
			Type:        entity.NotificationCommentDeletedByUser,
			Message:     message,
		}
		if err := m.notificationRepo.Create(hookCtx, notification); err != nil {
			xcontext.Logger(hookCtx).Errorf("Cannot create comment deletion notification: %v", err)
		}
	})
}
