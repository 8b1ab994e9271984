package wire

import (
	"Palisade/internal/api"
	"Palisade/internal/api/config"
	"Palisade/internal/api/handler"
	"Palisade/internal/job"
	"Palisade/internal/pkg/cron"
	"Palisade/internal/pkg/kafka"
	"Palisade/internal/pkg/mongo"
	"Palisade/internal/repository"
	"Palisade/internal/service"
	log "log/slog"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	mongodriver "go.mongodb.org/mongo-driver/mongo"
)

// ApplicationContainer 封装了应用运行所需的所有顶级组件
type ApplicationContainer struct {
	Router       *gin.Engine
	DB           *gorm.DB
	KafkaManager *kafka.ConsumerManager
	CronMgr      *cron.Manager
	Producer     kafka.EventProducer
}

func BuildApplication(db *gorm.DB, mongoConn *mongodriver.Database, cfg *config.Config) (*ApplicationContainer, error) {
	postRepo := repository.NewPostRepository(db)
	revisionRepo := repository.NewRevisionRepository(db)
	interactionRepo := repository.NewInteractionRepository(db)
	sysBoxRepo := mongo.NewSysBoxRepo(mongoConn)

	producer, err := kafka.NewEventProducer(cfg)
	if err != nil {
		// 通知链路不可用不阻塞主流程
		log.Error("failed to create event producer, notifications disabled", "err", err)
		producer = nil
	}

	postService := service.NewPostService(postRepo)
	revisionService := service.NewRevisionService(revisionRepo, postRepo)
	actionService := service.NewPostActionService(interactionRepo, postRepo, producer)
	notifyService := service.NewNotificationService(sysBoxRepo)

	handlers := &api.HandlersGroup{
		PostHandler:         handler.NewPostHandler(postService),
		RevisionHandler:     handler.NewRevisionHandler(revisionService),
		PostActionHandler:   handler.NewPostActionHandler(actionService),
		NotificationHandler: handler.NewNotificationHandler(notifyService),
	}

	router := api.SetupRouter(handlers)

	kafkaMgr, err := kafka.NewConsumerManager(cfg, postRepo, sysBoxRepo)
	if err != nil {
		return nil, err
	}

	auditJob := job.NewCounterAuditJob(postService, interactionRepo)
	cronMgr := cron.NewCronManager(auditJob)

	return &ApplicationContainer{
		Router:       router,
		DB:           db,
		KafkaManager: kafkaMgr,
		CronMgr:      cronMgr,
		Producer:     producer,
	}, nil
}
