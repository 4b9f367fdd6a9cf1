package client

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/kingfer30/image-describe/common/config"
	"github.com/kingfer30/image-describe/common/logger"
)

// HTTPClient performs the provider calls. It has no timeout unless RELAY_TIMEOUT is set.
var HTTPClient = &http.Client{}

func Init(cfg *config.Config) {
	var transport http.RoundTripper
	if cfg.RelayProxy != "" {
		logger.SysLog(fmt.Sprintf("using %s as api relay proxy", cfg.RelayProxy))
		proxyURL, err := url.Parse(cfg.RelayProxy)
		if err != nil {
			logger.FatalLog(fmt.Sprintf("RELAY_PROXY set but invalid: %s", cfg.RelayProxy))
		}
		transport = &http.Transport{
			Proxy: http.ProxyURL(proxyURL),
		}
	}

	HTTPClient = &http.Client{
		Timeout:   cfg.RelayTimeout,
		Transport: transport,
	}
}
