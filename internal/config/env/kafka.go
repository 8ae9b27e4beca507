package envconfig

import (
	"github.com/IBM/sarama"
	"github.com/caarlos0/env/v11"
)

type kafkaEnv struct {
	Brokers                    []string `env:"KAFKA_BROKERS,required"`
	DonationValidatedTopicName string   `env:"DONATION_VALIDATED_TOPIC_NAME,required"`
	ConsumerGroupID            string   `env:"DONATION_VALIDATED_CONSUMER_GROUP_ID,required"`
}

type kafka struct {
	raw kafkaEnv
}

func NewKafkaConfig() (*kafka, error) {
	var raw kafkaEnv
	if err := env.Parse(&raw); err != nil {
		return nil, err
	}
	return &kafka{raw: raw}, nil
}

func (cfg *kafka) Brokers() []string              { return cfg.raw.Brokers }
func (cfg *kafka) DonationValidatedTopic() string { return cfg.raw.DonationValidatedTopicName }
func (cfg *kafka) ConsumerGroupID() string        { return cfg.raw.ConsumerGroupID }

func (cfg *kafka) DonationValidatedProducerConfig() *sarama.Config {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	config.Producer.Return.Successes = true
	config.Producer.Idempotent = true
	config.Net.MaxOpenRequests = 1

	return config
}

func (cfg *kafka) DonationValidatedConsumerConfig() *sarama.Config {
	config := sarama.NewConfig()
	config.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{
		sarama.NewBalanceStrategyRoundRobin(),
	}
	config.Consumer.Offsets.Initial = sarama.OffsetOldest

	return config
}
