package envconfig

import (
	"github.com/caarlos0/env/v11"
)

// BusinessEmail is deliberately not required: a missing value must
// surface as a configuration error when a PayPal session begins, not
// crash the whole service at startup.
type paypalEnv struct {
	BusinessEmail string `env:"PAYPAL_BUSINESS_EMAIL"`
	ItemName      string `env:"PAYPAL_ITEM_NAME" envDefault:"ClaudyGod Music Ministries Donation"`
	ReturnURL     string `env:"PAYPAL_RETURN_URL,required"`
}

type paypal struct {
	raw paypalEnv
}

func NewPayPalConfig() (*paypal, error) {
	var raw paypalEnv
	if err := env.Parse(&raw); err != nil {
		return nil, err
	}
	return &paypal{raw: raw}, nil
}

func (cfg *paypal) BusinessEmail() string { return cfg.raw.BusinessEmail }
func (cfg *paypal) ItemName() string      { return cfg.raw.ItemName }
func (cfg *paypal) ReturnURL() string     { return cfg.raw.ReturnURL }
