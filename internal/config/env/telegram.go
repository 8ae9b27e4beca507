package envconfig

import (
	"github.com/caarlos0/env/v11"
)

type telegramEnv struct {
	Token        string  `env:"TELEGRAM_BOT_TOKEN,required"`
	AdminChatIDs []int64 `env:"TELEGRAM_ADMIN_CHAT_IDS" envSeparator:","`
}

type telegram struct {
	raw telegramEnv
}

func NewTelegramConfig() (*telegram, error) {
	var raw telegramEnv
	if err := env.Parse(&raw); err != nil {
		return nil, err
	}
	return &telegram{raw: raw}, nil
}

func (cfg *telegram) Token() string          { return cfg.raw.Token }
func (cfg *telegram) AdminChatIDs() []int64  { return cfg.raw.AdminChatIDs }
