//go:build integration

package e2e

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	tc "github.com/testcontainers/testcontainers-go"
	kafkaTc "github.com/testcontainers/testcontainers-go/modules/kafka"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/ClaudyGod-MusicMinistries/ClaudyGodWebApp-sub000/internal/converter"
	"github.com/ClaudyGod-MusicMinistries/ClaudyGodWebApp-sub000/internal/model"
	repository "github.com/ClaudyGod-MusicMinistries/ClaudyGodWebApp-sub000/internal/repository/donation"
	donproducer "github.com/ClaudyGod-MusicMinistries/ClaudyGodWebApp-sub000/internal/service/producer/donation"
	valsvc "github.com/ClaudyGod-MusicMinistries/ClaudyGodWebApp-sub000/internal/service/validation"
	"github.com/ClaudyGod-MusicMinistries/ClaudyGodWebApp-sub000/platform/db/migrator"
	"github.com/ClaudyGod-MusicMinistries/ClaudyGodWebApp-sub000/platform/kafka"
	"github.com/ClaudyGod-MusicMinistries/ClaudyGodWebApp-sub000/platform/kafka/consumer"
	"github.com/ClaudyGod-MusicMinistries/ClaudyGodWebApp-sub000/platform/kafka/producer"
	"github.com/ClaudyGod-MusicMinistries/ClaudyGodWebApp-sub000/platform/logger"
)

const (
	pgImage = "postgres:17.0-alpine3.20"

	pgUser       = "donation-service-user"
	pgPass       = "12CXZ43_U_w"
	pgDB         = "donation-db"
	migrationDir = "../../migrations"

	kafkaImage = "confluentinc/cp-kafka:7.6.1"

	topicValidated  = "donation.validated"
	consumerGroupID = "donation-group-donation-validated-it"
)

var (
	ctx context.Context

	pgC   *postgres.PostgresContainer
	pool  *pgxpool.Pool
	dbURL string

	kafkaC       tc.Container
	kafkaBrokers []string

	repo   valsvc.DonationRepository
	valSvc interface {
		ValidateZelle(ctx context.Context, sub model.ZelleSubmission) (*model.ValidationResult, error)
		ValidateBankTransfer(ctx context.Context, sub model.BankTransferSubmission) (*model.ValidationResult, error)
		DonationByID(ctx context.Context, donationID uuid.UUID) (*model.Donation, error)
	}
)

func TestIntegration(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Donation Service Integration Suite")
}

var _ = BeforeSuite(func() {
	ctx = context.Background()

	By("starting postgres container")
	var err error
	logger.SetNopLogger()
	pgC, err = postgres.Run(ctx,
		pgImage,
		postgres.WithDatabase(pgDB),
		postgres.WithUsername(pgUser),
		postgres.WithPassword(pgPass),
		tc.WithWaitStrategy(
			wait.ForListeningPort("5432/tcp").WithStartupTimeout(60*time.Second),
		),
	)
	Expect(err).NotTo(HaveOccurred())

	By("building postgres connection string")
	dbURL, err = pgC.ConnectionString(ctx, "sslmode=disable")
	Expect(err).NotTo(HaveOccurred())

	By("creating pgx pool")
	pool, err = pgxpool.New(ctx, dbURL)
	Expect(err).NotTo(HaveOccurred())

	Eventually(func(g Gomega) {
		err := pool.Ping(ctx)
		g.Expect(err).NotTo(HaveOccurred())
	}).WithTimeout(10 * time.Second).WithPolling(200 * time.Millisecond).Should(Succeed())

	migrator := migrator.NewMigrator(
		stdlib.OpenDBFromPool(pool),
		migrationDir,
	)

	By("running migrations")
	err = migrator.Up()
	Expect(err).NotTo(HaveOccurred())
	defer migrator.Close()

	By("starting kafka container (cp-kafka)")
	kafkaC, kafkaBrokers, err = runKafka(ctx)
	Expect(err).NotTo(HaveOccurred())

	By("creating kafka topics")
	Expect(createTopics(ctx, kafkaBrokers, topicValidated)).To(Succeed())

	By("creating repository")
	repo = repository.NewDonationRepository(pool)

	donationValidatedProducerConfig := sarama.NewConfig()
	donationValidatedProducerConfig.Version = sarama.V4_0_0_0
	donationValidatedProducerConfig.Producer.Return.Successes = true

	p, err := sarama.NewSyncProducer(kafkaBrokers, donationValidatedProducerConfig)
	Expect(err).NotTo(HaveOccurred())

	dvProducer := producer.NewProducer(p, topicValidated, logger.L())
	conv := converter.NewKafkaConverter()

	sender := donproducer.NewDonationProducer(dvProducer, conv)

	valSvc = valsvc.NewValidationService(repo, sender, nil, 2*time.Second, 2*time.Second)
})

var _ = AfterSuite(func() {
	if pool != nil {
		pool.Close()
	}
	if pgC != nil {
		_ = pgC.Terminate(ctx)
	}
	mustTerminate(ctx, kafkaC)
})

var _ = BeforeEach(func() {
	By("cleaning donations table")
	_, err := pool.Exec(ctx, "TRUNCATE TABLE donations RESTART IDENTITY CASCADE")
	Expect(err).NotTo(HaveOccurred())
})

var _ = Describe("Donation repository", func() {
	Context("Create + DonationByID", func() {
		It("creates donation row in DB and can be fetched", func() {
			don := &model.Donation{
				Amount:      5000,
				Currency:    model.CurrencyUSD,
				Method:      model.PaymentMethodZelle,
				Reference:   "ZL1234567",
				SenderEmail: "donor@example.com",
				Status:      model.StatusValidated,
			}

			By("creating donation via repository")
			id, err := repo.Create(ctx, don)
			Expect(err).NotTo(HaveOccurred())
			Expect(id).NotTo(Equal(uuid.Nil))

			By("checking row exists in DB via direct SQL")
			var (
				gotID        uuid.UUID
				gotAmount    int64
				gotCurrency  model.Currency
				gotMethod    model.PaymentMethod
				gotReference string
				gotStatus    model.DonationStatus
			)

			err = pool.QueryRow(ctx,
				`SELECT id, amount, currency, method, reference, status
				 FROM donations WHERE id = $1`,
				id,
			).Scan(&gotID, &gotAmount, &gotCurrency, &gotMethod, &gotReference, &gotStatus)
			Expect(err).NotTo(HaveOccurred())

			Expect(gotID).To(Equal(id))
			Expect(gotAmount).To(Equal(int64(5000)))
			Expect(gotCurrency).To(Equal(model.CurrencyUSD))
			Expect(gotMethod).To(Equal(model.PaymentMethodZelle))
			Expect(gotReference).To(Equal("ZL1234567"))
			Expect(gotStatus).To(Equal(model.StatusValidated))

			By("fetching donation via repository DonationByID")
			gotDon, err := repo.DonationByID(ctx, id)
			Expect(err).NotTo(HaveOccurred())
			Expect(gotDon.ID).To(Equal(id))
			Expect(gotDon.Amount).To(Equal(int64(5000)))
			Expect(gotDon.Reference).To(Equal("ZL1234567"))
			Expect(gotDon.SenderEmail).To(Equal("donor@example.com"))
		})

		It("DonationByID returns ErrDonationNotFound when missing", func() {
			_, err := repo.DonationByID(ctx, uuid.New())
			Expect(err).To(MatchError(model.ErrDonationNotFound))
		})

		It("rejects a second donation with the same method and reference", func() {
			first := &model.Donation{
				Amount:    5000,
				Currency:  model.CurrencyUSD,
				Method:    model.PaymentMethodZelle,
				Reference: "DUP123456",
				Status:    model.StatusValidated,
			}
			_, err := repo.Create(ctx, first)
			Expect(err).NotTo(HaveOccurred())

			second := &model.Donation{
				Amount:    9900,
				Currency:  model.CurrencyUSD,
				Method:    model.PaymentMethodZelle,
				Reference: "DUP123456",
				Status:    model.StatusValidated,
			}
			_, err = repo.Create(ctx, second)
			Expect(err).To(MatchError(model.ErrDuplicateReference))

			By("the same reference under another method is fine")
			other := &model.Donation{
				Amount:     9900,
				Currency:   model.CurrencyNGN,
				Method:     model.PaymentMethodNigerianBankTransfer,
				Reference:  "DUP123456",
				SenderName: "Chinwe Okafor",
				Status:     model.StatusValidated,
			}
			_, err = repo.Create(ctx, other)
			Expect(err).NotTo(HaveOccurred())
		})
	})

	Context("UpdateStatus", func() {
		It("moves a donation from VALIDATED to CONFIRMED", func() {
			id, err := repo.Create(ctx, &model.Donation{
				Amount:    2550,
				Currency:  model.CurrencyUSD,
				Method:    model.PaymentMethodZelle,
				Reference: "UPD123456",
				Status:    model.StatusValidated,
			})
			Expect(err).NotTo(HaveOccurred())

			Expect(repo.UpdateStatus(ctx, id, model.StatusConfirmed)).To(Succeed())

			var gotStatus model.DonationStatus
			err = pool.QueryRow(ctx,
				`SELECT status FROM donations WHERE id=$1`, id,
			).Scan(&gotStatus)
			Expect(err).NotTo(HaveOccurred())
			Expect(gotStatus).To(Equal(model.StatusConfirmed))
		})

		It("returns ErrDonationNotFound when updating missing donation", func() {
			err := repo.UpdateStatus(ctx, uuid.New(), model.StatusConfirmed)
			Expect(err).To(MatchError(model.ErrDonationNotFound))
		})
	})
})

var _ = Describe("Validation service", func() {
	It("persists a zelle donation and publishes the validated event", func() {
		sub := model.ZelleSubmission{
			SenderEmail:   "donor@example.com",
			TransactionID: "ZL9876543",
			Amount:        5000,
			Currency:      model.CurrencyUSD,
		}

		By("listening on the validated topic before submitting")
		eventCh := make(chan model.ValidatedDonation, 1)
		consumeCtx, stopConsume := context.WithCancel(ctx)
		defer stopConsume()

		go func() {
			_ = consumeValidatedOnce(consumeCtx, kafkaBrokers, eventCh)
		}()

		By("validating the submission")
		res, err := valSvc.ValidateZelle(ctx, sub)
		Expect(err).NotTo(HaveOccurred())
		Expect(res.Status).To(Equal(model.StatusValidated))
		Expect(res.DonationID).NotTo(Equal(uuid.Nil))

		By("checking the row landed in postgres")
		don, err := valSvc.DonationByID(ctx, res.DonationID)
		Expect(err).NotTo(HaveOccurred())
		Expect(don.Method).To(Equal(model.PaymentMethodZelle))
		Expect(don.Reference).To(Equal("ZL9876543"))

		By("waiting for the validated event on kafka")
		var event model.ValidatedDonation
		Eventually(eventCh).WithTimeout(15 * time.Second).Should(Receive(&event))
		Expect(event.DonationID).To(Equal(res.DonationID))
		Expect(event.Method).To(Equal(model.PaymentMethodZelle))
		Expect(event.Amount).To(Equal(int64(5000)))
		Expect(event.Currency).To(Equal(model.CurrencyUSD))
		Expect(event.Reference).To(Equal("ZL9876543"))
	})

	It("rejects a duplicate zelle confirmation code", func() {
		sub := model.ZelleSubmission{
			SenderPhone:   "+15551234567",
			TransactionID: "ZL5556667",
			Amount:        2550,
			Currency:      model.CurrencyUSD,
		}

		_, err := valSvc.ValidateZelle(ctx, sub)
		Expect(err).NotTo(HaveOccurred())

		_, err = valSvc.ValidateZelle(ctx, sub)
		Expect(err).To(MatchError(model.ErrDuplicateReference))
	})
})

func runKafka(ctx context.Context) (tc.Container, []string, error) {
	c, err := kafkaTc.Run(ctx,
		kafkaImage,
		kafkaTc.WithClusterID("Mk3OEYBSD34fcwNTJENDM2Qk"),
	)
	if err != nil {
		return nil, []string{}, err
	}

	bootstrap, err := c.Brokers(ctx)
	if err != nil {
		_ = c.Terminate(ctx)
		return nil, []string{}, err
	}

	return c, bootstrap, nil
}

func mustTerminate(ctx context.Context, c tc.Container) {
	if c != nil {
		_ = c.Terminate(ctx)
	}
}

func createTopics(_ context.Context, brokers []string, topics ...string) error {
	cfg := sarama.NewConfig()
	cfg.Version = sarama.V4_0_0_0
	cfg.Producer.Return.Successes = true
	cfg.Admin.Timeout = 10 * time.Second

	admin, err := sarama.NewClusterAdmin(brokers, cfg)
	if err != nil {
		return err
	}
	defer admin.Close()

	for _, t := range topics {
		err := admin.CreateTopic(t, &sarama.TopicDetail{
			NumPartitions:     1,
			ReplicationFactor: 1,
		}, false)
		if err != nil && !errors.Is(err, sarama.ErrTopicAlreadyExists) {
			return err
		}
	}
	return nil
}

func consumeValidatedOnce(
	ctx context.Context,
	brokers []string,
	out chan<- model.ValidatedDonation,
) error {
	cfg := sarama.NewConfig()
	cfg.Version = sarama.V4_0_0_0
	cfg.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRoundRobin()}
	cfg.Consumer.Offsets.Initial = sarama.OffsetOldest
	cfg.Consumer.Return.Errors = true

	consumerGr, err := sarama.NewConsumerGroup(
		brokers,
		consumerGroupID,
		cfg,
	)
	if err != nil {
		return err
	}
	defer consumerGr.Close()

	c := consumer.NewConsumer(
		consumerGr,
		[]string{
			topicValidated,
		},
		logger.L(),
	)

	conv := converter.NewKafkaConverter()

	return c.Consume(ctx, func(ctx context.Context, msg kafka.Message) error {
		if msg.Value == nil {
			return errors.New("msg is nil")
		}

		event, err := conv.ValidatedDonationToModel(msg.Value)
		if err != nil {
			return err
		}

		select {
		case out <- event:
		default:
		}
		return nil
	})
}
