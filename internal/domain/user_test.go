package domain

import (
	"testing"
	"time"

	"github.com/luvlist-lab/backend/internal/entity"
	"github.com/luvlist-lab/backend/internal/model"
	"github.com/luvlist-lab/backend/internal/repository"
	"github.com/luvlist-lab/backend/pkg/authenticator"
	"github.com/luvlist-lab/backend/pkg/crypto"
	"github.com/luvlist-lab/backend/pkg/testutil"
	"github.com/luvlist-lab/backend/pkg/xcontext"
	"github.com/stretchr/testify/require"
)

func newUserDomainForTest() *userDomain {
	return NewUserDomain(
		repository.NewUserRepository(),
		repository.NewInvitationCodeRepository(),
		repository.NewFollowRepository(),
		repository.NewActivityRepository(),
		repository.NewMirrorAccountRepository(),
		authenticator.NewTokenEngine[model.AccessToken]("secret", time.Minute),
	)
}

func Test_userDomain_Register(t *testing.T) {
	ctx := testutil.MockContext()
	userDomain := newUserDomainForTest()

	inviter, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)

	ctx = xcontext.WithRequestUserID(ctx, inviter.ID)
	code, err := userDomain.GenerateInvitationCode(ctx, &model.GenerateInvitationCodeRequest{})
	require.NoError(t, err)
	require.NotEmpty(t, code.Code)

	resp, err := userDomain.Register(ctx, &model.RegisterRequest{
		InvitationCode: code.Code,
		Handle:         "newcomer",
		DisplayName:    "New Comer",
		Timezone:       "Asia/Tokyo",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.AccessToken)
	require.Equal(t, "newcomer", resp.User.Handle)

	// Invitation registration creates a mutual follow between inviter and
	// the new user, each with a follow activity.
	var followCount, activityCount int64
	require.NoError(t, xcontext.DB(ctx).Model(&entity.Follow{}).Count(&followCount).Error)
	require.NoError(t, xcontext.DB(ctx).Model(&entity.Activity{}).Count(&activityCount).Error)
	require.EqualValues(t, 2, followCount)
	require.EqualValues(t, 2, activityCount)

	// The code is single use.
	_, err = userDomain.Register(ctx, &model.RegisterRequest{
		InvitationCode: code.Code,
		Handle:         "another",
	})
	require.Error(t, err)
}

func Test_userDomain_Register_validation(t *testing.T) {
	ctx := testutil.MockContext()
	userDomain := newUserDomainForTest()

	invitationRepo := repository.NewInvitationCodeRepository()
	code := &entity.InvitationCode{Code: "validcode123"}
	require.NoError(t, invitationRepo.Create(ctx, code))

	_, err := userDomain.Register(ctx, &model.RegisterRequest{
		InvitationCode: code.Code, Handle: "bad handle!",
	})
	require.Error(t, err)

	_, err = userDomain.Register(ctx, &model.RegisterRequest{
		InvitationCode: "missing", Handle: "fine",
	})
	require.Error(t, err)

	_, err = userDomain.Register(ctx, &model.RegisterRequest{
		InvitationCode: code.Code, Handle: "fine", Timezone: "Not/AZone",
	})
	require.Error(t, err)

	_, err = userDomain.Register(ctx, &model.RegisterRequest{
		InvitationCode: code.Code, Handle: "fine",
	})
	require.NoError(t, err)

	// Codes with no issuer create no follows.
	var followCount int64
	require.NoError(t, xcontext.DB(ctx).Model(&entity.Follow{}).Count(&followCount).Error)
	require.EqualValues(t, 0, followCount)

	_, err = userDomain.Register(ctx, &model.RegisterRequest{
		InvitationCode: "othercode456", Handle: "fine",
	})
	require.Error(t, err)
}

func Test_userDomain_Get_deactivated(t *testing.T) {
	ctx := testutil.MockContext()
	userDomain := newUserDomainForTest()

	user, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)

	got, err := userDomain.Get(ctx, &model.GetUserRequest{Handle: user.Handle})
	require.NoError(t, err)
	require.Equal(t, user.ID, got.ID)

	ctx = xcontext.WithRequestUserID(ctx, user.ID)
	_, err = userDomain.Deactivate(ctx, &model.DeactivateUserRequest{})
	require.NoError(t, err)

	// Deactivated profiles read as not found.
	_, err = userDomain.Get(ctx, &model.GetUserRequest{Handle: user.Handle})
	require.Error(t, err)
}

func Test_userDomain_LinkBluesky(t *testing.T) {
	ctx := testutil.MockContext()
	userDomain := newUserDomainForTest()

	user, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)
	ctx = xcontext.WithRequestUserID(ctx, user.ID)

	_, err = userDomain.LinkBluesky(ctx, &model.LinkBlueskyAccountRequest{
		Handle:      "alice.example.com",
		PdsURL:      "https://pds.example.com",
		AppPassword: "app-password",
	})
	require.NoError(t, err)

	// The app password is stored encrypted, never in the clear.
	accountRepo := repository.NewMirrorAccountRepository()
	account, err := accountRepo.GetBlueskyByUserID(ctx, user.ID)
	require.NoError(t, err)
	require.NotEqual(t, "app-password", account.EncryptedPassword)

	key := []byte{
		0x00, 0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07,
		0x08, 0x09, 0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f,
		0x10, 0x11, 0x12, 0x13, 0x14, 0x15, 0x16, 0x17,
		0x18, 0x19, 0x1a, 0x1b, 0x1c, 0x1d, 0x1e, 0x1f,
	}
	plain, err := crypto.Decrypt(key, account.EncryptedPassword)
	require.NoError(t, err)
	require.Equal(t, "app-password", plain)

	_, err = userDomain.UnlinkBluesky(ctx, &model.UnlinkBlueskyAccountRequest{})
	require.NoError(t, err)

	_, err = accountRepo.GetBlueskyByUserID(ctx, user.ID)
	require.Error(t, err)
}

func Test_userDomain_LinkMastodon_validatesHandle(t *testing.T) {
	ctx := testutil.MockContext()
	userDomain := newUserDomainForTest()

	user, err := testutil.SampleUser(ctx, nil)
	require.NoError(t, err)
	ctx = xcontext.WithRequestUserID(ctx, user.ID)

	_, err = userDomain.LinkMastodon(ctx, &model.LinkMastodonAccountRequest{
		Handle: "no-instance", AccessToken: "token",
	})
	require.Error(t, err)

	_, err = userDomain.LinkMastodon(ctx, &model.LinkMastodonAccountRequest{
		Handle: "alice@mastodon.example", AccessToken: "token",
	})
	require.NoError(t, err)
}
