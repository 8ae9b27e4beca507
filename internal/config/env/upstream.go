package envconfig

import (
	"github.com/caarlos0/env/v11"
)

// The original flow resolved its validation base URL from a
// build-mode/hostname heuristic. Here it is explicit: empty means
// submissions validate in-process, anything else is the remote
// backend's base URL.
type upstreamEnv struct {
	ValidationBaseURL string `env:"UPSTREAM_VALIDATION_URL"`
}

type upstream struct {
	raw upstreamEnv
}

func NewUpstreamConfig() (*upstream, error) {
	var raw upstreamEnv
	if err := env.Parse(&raw); err != nil {
		return nil, err
	}
	return &upstream{raw: raw}, nil
}

func (cfg *upstream) ValidationBaseURL() string { return cfg.raw.ValidationBaseURL }
