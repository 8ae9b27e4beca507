package envconfig

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

type mongoEnv struct {
	Host                  string `env:"MONGO_HOST,required"`
	Port                  int    `env:"MONGO_PORT,required"`
	User                  string `env:"MONGO_USER,required"`
	Password              string `env:"MONGO_PASSWORD,required"`
	AuthDB                string `env:"MONGO_AUTH_DB,required"`
	Database              string `env:"MONGO_DATABASE,required"`
	SubscribersCollection string `env:"MONGO_SUBSCRIBERS_COLLECTION" envDefault:"subscribers"`
}

type mongo struct {
	raw mongoEnv
}

func NewMongoConfig() (*mongo, error) {
	var raw mongoEnv
	if err := env.Parse(&raw); err != nil {
		return nil, err
	}
	return &mongo{raw: raw}, nil
}

func (cfg *mongo) URI() string {
	return fmt.Sprintf(
		"mongodb://%s:%s@%s:%d/?authSource=%s",
		cfg.raw.User,
		cfg.raw.Password,
		cfg.raw.Host,
		cfg.raw.Port,
		cfg.raw.AuthDB,
	)
}

func (cfg *mongo) Database() string              { return cfg.raw.Database }
func (cfg *mongo) SubscribersCollection() string { return cfg.raw.SubscribersCollection }
