package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/IBM/sarama"
	"github.com/go-chi/chi/v5"
	"github.com/go-telegram/bot"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	tgclient "github.com/ClaudyGod-MusicMinistries/ClaudyGodWebApp-sub000/internal/client/http/telegram"
	valclient "github.com/ClaudyGod-MusicMinistries/ClaudyGodWebApp-sub000/internal/client/http/validation"
	"github.com/ClaudyGod-MusicMinistries/ClaudyGodWebApp-sub000/internal/config"
	"github.com/ClaudyGod-MusicMinistries/ClaudyGodWebApp-sub000/internal/converter"
	"github.com/ClaudyGod-MusicMinistries/ClaudyGodWebApp-sub000/internal/model"
	donrepository "github.com/ClaudyGod-MusicMinistries/ClaudyGodWebApp-sub000/internal/repository/donation"
	subrepository "github.com/ClaudyGod-MusicMinistries/ClaudyGodWebApp-sub000/internal/repository/subscriber"
	ntfconsumer "github.com/ClaudyGod-MusicMinistries/ClaudyGodWebApp-sub000/internal/service/consumer/notifier"
	donsvc "github.com/ClaudyGod-MusicMinistries/ClaudyGodWebApp-sub000/internal/service/donation"
	ntfservice "github.com/ClaudyGod-MusicMinistries/ClaudyGodWebApp-sub000/internal/service/notifier"
	pendsvc "github.com/ClaudyGod-MusicMinistries/ClaudyGodWebApp-sub000/internal/service/pending"
	donproducer "github.com/ClaudyGod-MusicMinistries/ClaudyGodWebApp-sub000/internal/service/producer/donation"
	"github.com/ClaudyGod-MusicMinistries/ClaudyGodWebApp-sub000/internal/service/session"
	subsvc "github.com/ClaudyGod-MusicMinistries/ClaudyGodWebApp-sub000/internal/service/subscriber"
	valsvc "github.com/ClaudyGod-MusicMinistries/ClaudyGodWebApp-sub000/internal/service/validation"
	dhttp "github.com/ClaudyGod-MusicMinistries/ClaudyGodWebApp-sub000/internal/transport/http/donation/v1"
	fhttp "github.com/ClaudyGod-MusicMinistries/ClaudyGodWebApp-sub000/internal/transport/http/flow/v1"
	"github.com/ClaudyGod-MusicMinistries/ClaudyGodWebApp-sub000/platform/closer"
	"github.com/ClaudyGod-MusicMinistries/ClaudyGodWebApp-sub000/platform/db/migrator"
	"github.com/ClaudyGod-MusicMinistries/ClaudyGodWebApp-sub000/platform/kafka"
	"github.com/ClaudyGod-MusicMinistries/ClaudyGodWebApp-sub000/platform/kafka/consumer"
	"github.com/ClaudyGod-MusicMinistries/ClaudyGodWebApp-sub000/platform/kafka/middleware"
	"github.com/ClaudyGod-MusicMinistries/ClaudyGodWebApp-sub000/platform/kafka/producer"
	"github.com/ClaudyGod-MusicMinistries/ClaudyGodWebApp-sub000/platform/logger"
)

// popupProbeTTL is how long a payment window counts as alive without a
// client heartbeat.
const popupProbeTTL = 5 * time.Second

const validationClientTimeout = 30 * time.Second

type KafkaConverter interface {
	ValidatedDonationToPayload(m model.ValidatedDonation) ([]byte, error)
	ValidatedDonationToModel(data []byte) (model.ValidatedDonation, error)
}

type NotifierConsumer interface {
	RunDonationValidatedConsume(ctx context.Context) error
}

type ValidationService interface {
	dhttp.ValidationService
	UpdateStatus(ctx context.Context, donationID uuid.UUID, status model.DonationStatus) error
}

type FlowService interface {
	fhttp.FlowService
	Complete(intentID uuid.UUID)
}

type PendingWatcher interface {
	valsvc.ConfirmationWatcher
	dhttp.ConfirmationWatcher
}

type Handler interface {
	Register(r chi.Router)
}

type di struct {
	dbPool       *pgxpool.Pool
	migrator     *migrator.Migrator
	donationRepo valsvc.DonationRepository

	mongoClient     *mongo.Client
	subscribersColl *mongo.Collection
	subscriberRepo  subsvc.SubscriberRepository

	syncProducer              sarama.SyncProducer
	donationValidatedProducer kafka.Producer
	donationProducer          valsvc.ValidatedDonationSender

	consumerGroup             sarama.ConsumerGroup
	donationValidatedConsumer kafka.Consumer
	notifierConsumer          NotifierConsumer

	tgBot           *bot.Bot
	notifierService ntfconsumer.DonationNotifier

	conv KafkaConverter

	pendingWatcher    PendingWatcher
	validationService ValidationService
	subscriberService dhttp.SubscriberService
	validator         session.Validator

	flowService    FlowService
	windowOpener   session.WindowOpener
	sessionManager *session.Manager

	donationHandler Handler
	flowHandler     Handler

	router *chi.Mux
}

func NewDI() *di { return &di{} }

func (d *di) DBPool(ctx context.Context) *pgxpool.Pool {
	if d.dbPool == nil {
		pool, err := pgxpool.New(ctx, config.C().Postgres.DSN())
		if err != nil {
			panic(fmt.Sprintf("failed to create pg pool: %v\n", err))
		}

		closer.AddNamed("PGX Pool",
			func(ctx context.Context) error {
				pool.Close()
				return nil
			})

		if err := pool.Ping(ctx); err != nil {
			panic(fmt.Sprintf("failed to ping db: %v\n", err))
		}

		d.dbPool = pool
	}

	return d.dbPool
}

func (d *di) Migrator(ctx context.Context) *migrator.Migrator {
	if d.migrator == nil {
		d.migrator = migrator.NewMigrator(
			stdlib.OpenDBFromPool(d.DBPool(ctx)),
			config.C().Postgres.MigrationDirectory(),
		)

		closer.AddNamed("Migrator",
			func(ctx context.Context) error {
				return d.migrator.Close()
			})
	}

	return d.migrator
}

func (d *di) DonationRepository(ctx context.Context) valsvc.DonationRepository {
	if d.donationRepo == nil {
		d.donationRepo = donrepository.NewDonationRepository(d.DBPool(ctx))
	}

	return d.donationRepo
}

func (d *di) MongoDB(ctx context.Context) *mongo.Client {
	if d.mongoClient == nil {
		cfg := config.C()

		mongoClient, err := mongo.Connect(
			options.Client().ApplyURI(cfg.Mongo.URI()),
		)
		if err != nil {
			panic(fmt.Sprintf("failed to create mongodb client: %v\n", err))
		}

		closer.AddNamed("Mongo Client",
			func(ctx context.Context) error {
				return mongoClient.Disconnect(ctx)
			})

		if err := mongoClient.Ping(ctx, readpref.Primary()); err != nil {
			panic(fmt.Sprintf("failed to ping mongodb: %v\n", err))
		}

		d.mongoClient = mongoClient
	}

	return d.mongoClient
}

func (d *di) SubscribersCollection(ctx context.Context) *mongo.Collection {
	if d.subscribersColl == nil {
		coll := d.MongoDB(ctx).
			Database(config.C().Mongo.Database()).
			Collection(config.C().Mongo.SubscribersCollection())

		if err := subrepository.EnsureIndexes(ctx, coll); err != nil {
			panic(fmt.Sprintf("failed to ensure subscriber indexes: %v\n", err))
		}

		d.subscribersColl = coll
	}

	return d.subscribersColl
}

func (d *di) SubscriberRepository(ctx context.Context) subsvc.SubscriberRepository {
	if d.subscriberRepo == nil {
		d.subscriberRepo = subrepository.NewSubscriberRepository(d.SubscribersCollection(ctx))
	}

	return d.subscriberRepo
}

func (d *di) SubscriberService(ctx context.Context) dhttp.SubscriberService {
	if d.subscriberService == nil {
		d.subscriberService = subsvc.NewSubscriberService(
			d.SubscriberRepository(ctx),
			config.C().Server.DBWriteTimeout(),
		)
	}

	return d.subscriberService
}

func (d *di) KafkaConverter(_ context.Context) KafkaConverter {
	if d.conv == nil {
		d.conv = converter.NewKafkaConverter()
	}

	return d.conv
}

func (d *di) SyncProducer(ctx context.Context) sarama.SyncProducer {
	if d.syncProducer == nil {
		cfg := config.C()

		p, err := sarama.NewSyncProducer(
			cfg.Kafka.Brokers(),
			cfg.Kafka.DonationValidatedProducerConfig(),
		)
		if err != nil {
			panic(fmt.Sprintf("failed to create sync producer: %s\n", err.Error()))
		}
		closer.AddNamed("Kafka sync producer", func(ctx context.Context) error {
			return p.Close()
		})

		d.syncProducer = p
	}

	return d.syncProducer
}

func (d *di) DonationValidatedProducer(ctx context.Context) kafka.Producer {
	if d.donationValidatedProducer == nil {
		d.donationValidatedProducer = producer.NewProducer(
			d.SyncProducer(ctx),
			config.C().Kafka.DonationValidatedTopic(),
			logger.L(),
		)
	}

	return d.donationValidatedProducer
}

func (d *di) DonationProducer(ctx context.Context) valsvc.ValidatedDonationSender {
	if d.donationProducer == nil {
		d.donationProducer = donproducer.NewDonationProducer(
			d.DonationValidatedProducer(ctx),
			d.KafkaConverter(ctx),
		)
	}

	return d.donationProducer
}

func (d *di) ConsumerGroup(ctx context.Context) sarama.ConsumerGroup {
	if d.consumerGroup == nil {
		cfg := config.C()

		consumerGroup, err := sarama.NewConsumerGroup(
			cfg.Kafka.Brokers(),
			cfg.Kafka.ConsumerGroupID(),
			cfg.Kafka.DonationValidatedConsumerConfig(),
		)
		if err != nil {
			panic(fmt.Sprintf("failed to create consumer group: %s\n", err.Error()))
		}
		closer.AddNamed("Kafka consumer group", func(ctx context.Context) error {
			return d.consumerGroup.Close()
		})

		d.consumerGroup = consumerGroup
	}

	return d.consumerGroup
}

func (d *di) DonationValidatedConsumer(ctx context.Context) kafka.Consumer {
	if d.donationValidatedConsumer == nil {
		d.donationValidatedConsumer = consumer.NewConsumer(
			d.ConsumerGroup(ctx),
			[]string{
				config.C().Kafka.DonationValidatedTopic(),
			},
			logger.L(),
			middleware.Recovery(logger.L()),
			middleware.Logging(logger.L()),
		)
	}

	return d.donationValidatedConsumer
}

func (d *di) TelegramBot(_ context.Context) *bot.Bot {
	if d.tgBot == nil {
		b, err := bot.New(config.C().Telegram.Token())
		if err != nil {
			panic(fmt.Sprintf("failed to create telegram bot: %v\n", err))
		}

		d.tgBot = b
	}

	return d.tgBot
}

func (d *di) NotifierService(ctx context.Context) ntfconsumer.DonationNotifier {
	if d.notifierService == nil {
		d.notifierService = ntfservice.NewNotifierService(
			tgclient.NewClient(d.TelegramBot(ctx)),
			config.C().Telegram.AdminChatIDs(),
		)
	}

	return d.notifierService
}

func (d *di) NotifierConsumer(ctx context.Context) NotifierConsumer {
	if d.notifierConsumer == nil {
		d.notifierConsumer = ntfconsumer.NewNotifierConsumer(
			d.DonationValidatedConsumer(ctx),
			d.KafkaConverter(ctx),
			d.NotifierService(ctx),
		)
	}

	return d.notifierConsumer
}

func (d *di) PendingWatcher(ctx context.Context) PendingWatcher {
	if d.pendingWatcher == nil {
		d.pendingWatcher = pendsvc.NewWatcher(d.DonationRepository(ctx))
	}

	return d.pendingWatcher
}

func (d *di) ValidationService(ctx context.Context) ValidationService {
	if d.validationService == nil {
		d.validationService = valsvc.NewValidationService(
			d.DonationRepository(ctx),
			d.DonationProducer(ctx),
			d.PendingWatcher(ctx),
			config.C().Server.DBReadTimeout(),
			config.C().Server.DBWriteTimeout(),
		)
	}

	return d.validationService
}

// Validator picks the submission path: a remote validation backend
// when one is configured, the in-process service otherwise.
func (d *di) Validator(ctx context.Context) session.Validator {
	if d.validator == nil {
		if baseURL := config.C().Upstream.ValidationBaseURL(); baseURL != "" {
			d.validator = valclient.NewClient(
				&http.Client{Timeout: validationClientTimeout},
				baseURL,
			)
		} else {
			d.validator = d.ValidationService(ctx)
		}
	}

	return d.validator
}

func (d *di) FlowService(_ context.Context) FlowService {
	if d.flowService == nil {
		d.flowService = donsvc.NewDonationService()
	}

	return d.flowService
}

func (d *di) WindowOpener(_ context.Context) session.WindowOpener {
	if d.windowOpener == nil {
		d.windowOpener = session.NewHeartbeatOpener(popupProbeTTL)
	}

	return d.windowOpener
}

func (d *di) SessionManager(ctx context.Context) *session.Manager {
	if d.sessionManager == nil {
		d.sessionManager = session.NewManager(
			d.Validator(ctx),
			d.WindowOpener(ctx),
			config.C().PayPal,
			func(intentID uuid.UUID) {
				d.FlowService(ctx).Complete(intentID)
				d.sessionManager.Destroy(intentID)
			},
		)
	}

	return d.sessionManager
}

func (d *di) DonationHandler(ctx context.Context) Handler {
	if d.donationHandler == nil {
		d.donationHandler = dhttp.NewDonationHandler(
			d.ValidationService(ctx),
			d.SubscriberService(ctx),
			d.PendingWatcher(ctx),
		)
	}

	return d.donationHandler
}

func (d *di) FlowHandler(ctx context.Context) Handler {
	if d.flowHandler == nil {
		d.flowHandler = fhttp.NewFlowHandler(
			d.FlowService(ctx),
			d.SessionManager(ctx),
		)
	}

	return d.flowHandler
}

func (d *di) Router(_ context.Context) *chi.Mux {
	if d.router == nil {
		d.router = chi.NewRouter()
	}

	return d.router
}
