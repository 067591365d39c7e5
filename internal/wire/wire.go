package wire

import (
	"Quad/internal/api"
	"Quad/internal/api/config"
	"Quad/internal/api/handler"
	"Quad/internal/job"
	"Quad/internal/pkg/clock"
	"Quad/internal/pkg/cron"
	"Quad/internal/pkg/event"
	"Quad/internal/pkg/kafka"
	pkgmongo "Quad/internal/pkg/mongo"
	"Quad/internal/repository"
	"Quad/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router       *gin.Engine
	DB           *gorm.DB
	KafkaManager *kafka.ConsumerManager
	CronMgr      *cron.Manager
}

func BuildApplication(db *gorm.DB, mongoDB *mongo.Database, cfg *config.Config) (*ApplicationContainer, error) {
	postRepo := repository.NewPostRepo(db)
	interactionRepo := repository.NewInteractionRepo(db)
	dailyRepo := repository.NewDailyEngagementRepo(db)
	streakRepo := repository.NewStreakRepo(db)
	achievementRepo := repository.NewAchievementRepo(db)
	statsRepo := repository.NewEngagementStatsRepo(db)
	hideRepo := repository.NewUserHideRepo(db)
	affinityRepo := repository.NewAffinityRepo(db)
	weeklyRepo := repository.NewWeeklyEngagementRepo(db)
	notificationRepo := pkgmongo.NewRewardNotificationRepo(mongoDB)

	clk := clock.New(cfg.Engagement.Timezone)
	bus := event.NewBus()
	feedCache := service.NewFeedCache()
	engagementCache := service.NewEngagementCache()

	feedService := service.NewFeedService(&cfg.Feed, postRepo, interactionRepo, hideRepo, affinityRepo, feedCache, clk)
	engagementService := service.NewEngagementService(&cfg.Engagement, dailyRepo, streakRepo, achievementRepo, statsRepo, engagementCache, bus, clk)
	notificationService := service.NewNotificationService(notificationRepo)
	hideService := service.NewHideService(hideRepo, postRepo)

	// 发奖事件进通知收件箱，WS 推送在 Handler 构造时自行订阅
	bus.Subscribe(notificationService.HandleRewardEvent)

	handlers := &api.HandlersGroup{
		FeedHandler:         handler.NewFeedHandler(feedService),
		EngagementHandler:   handler.NewEngagementHandler(engagementService),
		NotificationHandler: handler.NewNotificationHandler(notificationService),
		HideHandler:         handler.NewHideHandler(hideService),
		WsHandler:           handler.NewWsHandler(bus),
	}

	router := api.SetupRouter(handlers)

	kafkaMgr, err := kafka.NewConsumerManager(cfg, interactionRepo, postRepo)
	if err != nil {
		return nil, err
	}

	cronMgr := cron.NewCronManager(
		job.NewAffinitySnapshotJob(affinityRepo),
		job.NewWeeklyRollupJob(dailyRepo, weeklyRepo),
	)

	return &ApplicationContainer{
		Router:       router,
		DB:           db,
		KafkaManager: kafkaMgr,
		CronMgr:      cronMgr,
	}, nil
}
