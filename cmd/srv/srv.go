package main

import (
	"context"

	"github.com/luvlist-lab/backend/config"
	"github.com/luvlist-lab/backend/internal/common"
	"github.com/luvlist-lab/backend/internal/domain"
	"github.com/luvlist-lab/backend/internal/domain/mirror"
	"github.com/luvlist-lab/backend/internal/domain/notify"
	"github.com/luvlist-lab/backend/internal/middleware"
	"github.com/luvlist-lab/backend/internal/model"
	"github.com/luvlist-lab/backend/internal/repository"
	"github.com/luvlist-lab/backend/pkg/authenticator"
	"github.com/luvlist-lab/backend/pkg/bluesky"
	"github.com/luvlist-lab/backend/pkg/logger"
	"github.com/luvlist-lab/backend/pkg/mastodon"
	"github.com/luvlist-lab/backend/pkg/router"
	"github.com/luvlist-lab/backend/pkg/xcontext"
	"github.com/luvlist-lab/backend/pkg/xredis"

	"github.com/urfave/cli/v2"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

type srv struct {
	app *cli.App
	ctx context.Context

	configs config.Configs
	logger  logger.Logger
	db      *gorm.DB

	redisClient xredis.Client
	tokenEngine authenticator.TokenEngine[model.AccessToken]

	userRepo         repository.UserRepository
	invitationRepo   repository.InvitationCodeRepository
	followRepo       repository.FollowRepository
	blockRepo        repository.BlockRepository
	activityRepo     repository.ActivityRepository
	postRepo         repository.PostRepository
	sayRepo          repository.SayRepository
	pinRepo          repository.PinRepository
	repostRepo       repository.RepostRepository
	checkinRepo      repository.CheckinRepository
	commentRepo      repository.CommentRepository
	tagRepo          repository.TagRepository
	voteRepo         repository.VoteRepository
	notificationRepo repository.NotificationRepository
	luvlistRepo      repository.LuvListRepository
	accountRepo      repository.MirrorAccountRepository

	resolver      *common.ContentResolver
	notifyManager *notify.Manager
	mirrorManager *mirror.Manager

	userDomain         domain.UserDomain
	relationshipDomain domain.RelationshipDomain
	contentDomain      domain.ContentDomain
	feedDomain         domain.FeedDomain
	notificationDomain domain.NotificationDomain
	voteDomain         domain.VoteDomain
	luvlistDomain      domain.LuvListDomain

	router *router.Router
}

func (s *srv) loadConfig(ct *cli.Context) {
	var err error
	s.configs, err = config.Load(ct.String("config"))
	if err != nil {
		panic(err)
	}

	s.ctx = xcontext.WithConfigs(context.Background(), s.configs)
}

func (s *srv) loadLogger() {
	s.logger = logger.NewLogger(logger.ParseLevel(s.configs.LogLevel))
	s.ctx = xcontext.WithLogger(s.ctx, s.logger)
}

func (s *srv) loadDatabase() {
	var err error
	s.db, err = gorm.Open(mysql.Open(s.configs.Database.ConnectionString()), &gorm.Config{})
	if err != nil {
		panic(err)
	}

	s.ctx = xcontext.WithDB(s.ctx, s.db)
}

func (s *srv) loadRedis() {
	redisClient, err := xredis.NewClient(s.ctx)
	if err != nil {
		// The unread counter cache degrades to database counts.
		s.logger.Warnf("Cannot connect to redis: %v", err)
		return
	}

	s.redisClient = redisClient
}

func (s *srv) loadRepositories() {
	s.userRepo = repository.NewUserRepository()
	s.invitationRepo = repository.NewInvitationCodeRepository()
	s.followRepo = repository.NewFollowRepository()
	s.blockRepo = repository.NewBlockRepository()
	s.activityRepo = repository.NewActivityRepository()
	s.postRepo = repository.NewPostRepository()
	s.sayRepo = repository.NewSayRepository()
	s.pinRepo = repository.NewPinRepository()
	s.repostRepo = repository.NewRepostRepository()
	s.checkinRepo = repository.NewCheckinRepository()
	s.commentRepo = repository.NewCommentRepository()
	s.tagRepo = repository.NewTagRepository()
	s.voteRepo = repository.NewVoteRepository()
	s.notificationRepo = repository.NewNotificationRepository(s.redisClient)
	s.luvlistRepo = repository.NewLuvListRepository()
	s.accountRepo = repository.NewMirrorAccountRepository()
}

func (s *srv) loadDomains() {
	s.tokenEngine = authenticator.NewTokenEngine[model.AccessToken](
		s.configs.Auth.TokenSecret, s.configs.Auth.TokenExpiration)

	s.resolver = common.NewContentResolver(
		s.postRepo, s.sayRepo, s.pinRepo, s.repostRepo, s.checkinRepo)
	s.notifyManager = notify.NewManager(s.notificationRepo, s.userRepo, s.resolver)
	s.mirrorManager = mirror.NewManager(
		s.accountRepo,
		bluesky.NewClient(s.configs.Mirror.RequestTimeout),
		mastodon.NewClient(s.configs.Mirror.RequestTimeout),
	)

	s.userDomain = domain.NewUserDomain(
		s.userRepo, s.invitationRepo, s.followRepo, s.activityRepo,
		s.accountRepo, s.tokenEngine)
	s.relationshipDomain = domain.NewRelationshipDomain(
		s.userRepo, s.followRepo, s.blockRepo, s.activityRepo)
	s.contentDomain = domain.NewContentDomain(
		s.postRepo, s.sayRepo, s.pinRepo, s.repostRepo, s.checkinRepo,
		s.commentRepo, s.tagRepo, s.voteRepo, s.activityRepo, s.userRepo,
		s.blockRepo, s.notificationRepo, s.resolver, s.notifyManager,
		s.mirrorManager)
	s.feedDomain = domain.NewFeedDomain(
		s.activityRepo, s.followRepo, s.userRepo, s.postRepo, s.sayRepo,
		s.pinRepo, s.repostRepo, s.checkinRepo, s.commentRepo, s.tagRepo,
		s.voteRepo, s.notificationRepo, s.resolver, s.notifyManager)
	s.notificationDomain = domain.NewNotificationDomain(s.notificationRepo, s.userRepo)
	s.voteDomain = domain.NewVoteDomain(s.voteRepo, s.resolver)
	s.luvlistDomain = domain.NewLuvListDomain(s.luvlistRepo, s.userRepo)
}

func (s *srv) loadRouter() {
	s.router = router.New(s.ctx)
	s.router.Use(middleware.AuthVerifier(s.tokenEngine))

	// User API
	router.POST(s.router, "/register", s.userDomain.Register)
	router.GET(s.router, "/getUser", s.userDomain.Get)
	router.GET(s.router, "/getMe", s.userDomain.GetMe)
	router.POST(s.router, "/deactivate", s.userDomain.Deactivate)
	router.POST(s.router, "/generateInvitationCode", s.userDomain.GenerateInvitationCode)
	router.POST(s.router, "/linkBluesky", s.userDomain.LinkBluesky)
	router.POST(s.router, "/unlinkBluesky", s.userDomain.UnlinkBluesky)
	router.POST(s.router, "/linkMastodon", s.userDomain.LinkMastodon)
	router.POST(s.router, "/unlinkMastodon", s.userDomain.UnlinkMastodon)

	// Relationship API
	router.POST(s.router, "/follow", s.relationshipDomain.Follow)
	router.POST(s.router, "/unfollow", s.relationshipDomain.Unfollow)
	router.POST(s.router, "/block", s.relationshipDomain.Block)
	router.POST(s.router, "/unblock", s.relationshipDomain.Unblock)
	router.GET(s.router, "/getFollowing", s.relationshipDomain.GetFollowing)
	router.GET(s.router, "/getFollowers", s.relationshipDomain.GetFollowers)

	// Content API
	router.POST(s.router, "/createPost", s.contentDomain.CreatePost)
	router.POST(s.router, "/updatePost", s.contentDomain.UpdatePost)
	router.POST(s.router, "/createSay", s.contentDomain.CreateSay)
	router.POST(s.router, "/updateSay", s.contentDomain.UpdateSay)
	router.POST(s.router, "/createPin", s.contentDomain.CreatePin)
	router.POST(s.router, "/updatePin", s.contentDomain.UpdatePin)
	router.POST(s.router, "/createRepost", s.contentDomain.CreateRepost)
	router.POST(s.router, "/createCheckin", s.contentDomain.CreateCheckin)
	router.POST(s.router, "/updateCheckin", s.contentDomain.UpdateCheckin)
	router.GET(s.router, "/getContent", s.contentDomain.Get)
	router.POST(s.router, "/deleteContent", s.contentDomain.Delete)

	// Comment API
	router.POST(s.router, "/createComment", s.contentDomain.CreateComment)
	router.GET(s.router, "/getComments", s.contentDomain.GetComments)
	router.POST(s.router, "/deleteComment", s.contentDomain.DeleteComment)

	// Feed API
	router.GET(s.router, "/getFeed", s.feedDomain.Get)
	router.POST(s.router, "/deleteActivity", s.feedDomain.DeleteActivity)

	// Notification API
	router.GET(s.router, "/getNotifications", s.notificationDomain.GetList)
	router.POST(s.router, "/markNotificationRead", s.notificationDomain.MarkRead)
	router.POST(s.router, "/markAllNotificationsRead", s.notificationDomain.MarkAllRead)
	router.POST(s.router, "/deleteNotification", s.notificationDomain.Delete)
	router.POST(s.router, "/deleteAllNotifications", s.notificationDomain.DeleteAll)
	router.POST(s.router, "/toggleMuteNotifications", s.notificationDomain.ToggleMute)

	// Vote API
	router.POST(s.router, "/vote", s.voteDomain.Vote)
	router.POST(s.router, "/unvote", s.voteDomain.Unvote)
	router.GET(s.router, "/getScore", s.voteDomain.GetScore)
	router.GET(s.router, "/getTopRated", s.voteDomain.GetTopRated)

	// LuvList API
	router.POST(s.router, "/createLuvList", s.luvlistDomain.Create)
	router.GET(s.router, "/getLuvList", s.luvlistDomain.Get)
	router.GET(s.router, "/getMyLuvLists", s.luvlistDomain.GetMine)
	router.POST(s.router, "/updateLuvList", s.luvlistDomain.Update)
	router.POST(s.router, "/deleteLuvList", s.luvlistDomain.Delete)
	router.POST(s.router, "/addLuvListItem", s.luvlistDomain.AddItem)
	router.POST(s.router, "/removeLuvListItem", s.luvlistDomain.RemoveItem)
	router.GET(s.router, "/getRandomItem", s.luvlistDomain.GetRandomItem)
}
