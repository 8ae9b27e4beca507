package config

import (
	"time"

	"github.com/IBM/sarama"
)

type Server interface {
	Host() string
	Port() int
	Address() string
	ReadTimeout() time.Duration
	ShutdownTimeout() time.Duration
	DBReadTimeout() time.Duration
	DBWriteTimeout() time.Duration
}

type Logger interface {
	Level() string
	AsJSON() bool
}

type Database interface {
	MigrationDirectory() string
	DSN() string
}

type Mongo interface {
	URI() string
	Database() string
	SubscribersCollection() string
}

type Kafka interface {
	Brokers() []string
	DonationValidatedTopic() string
	ConsumerGroupID() string
	DonationValidatedProducerConfig() *sarama.Config
	DonationValidatedConsumerConfig() *sarama.Config
}

type PayPal interface {
	BusinessEmail() string
	ItemName() string
	ReturnURL() string
}

type Telegram interface {
	Token() string
	AdminChatIDs() []int64
}

type Upstream interface {
	// ValidationBaseURL is empty when submissions validate in-process.
	ValidationBaseURL() string
}
