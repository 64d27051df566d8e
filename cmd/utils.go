package cmd

import (
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/viper"
	"golang.org/x/time/rate"

	"github.com/blocklift/blocklift/internals/instances"
	"github.com/blocklift/blocklift/internals/ownhttp"
)

func newInstance() *instances.Instance {
	instance := instances.New(viper.GetString("globalDir"))
	if ttl, err := time.ParseDuration(viper.GetString("manifestCacheTTL")); err == nil {
		instance.Mojang.CacheTTL = ttl
	}

	// optional request rate cap, mostly for people behind strict firewalls
	if rps := viper.GetFloat64("maxRequestsPerSecond"); rps > 0 {
		limiter := rate.NewLimiter(rate.Limit(rps), int(rps))
		instance.HTTP.Transport = ownhttp.NewThrottleTransport(instance.HTTP.Transport, limiter)
	}
	return instance
}

// interactive reports whether spinners & friends make sense
func interactive() bool {
	if viper.GetBool("nonInteractive") {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd())
}
