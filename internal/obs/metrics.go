package obs

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	LoginsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "teamtrack_logins_total",
			Help: "Login attempts by outcome.",
		},
		[]string{"outcome"}, // success, bad_credentials, inactive
	)

	TokenRejectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "teamtrack_token_rejections_total",
			Help: "Bearer tokens rejected by the access gate, by reason.",
		},
		[]string{"reason"}, // revoked, invalid, forbidden
	)

	OtpIssuedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "teamtrack_otp_issued_total",
			Help: "OTP codes issued, by flow.",
		},
		[]string{"flow"}, // register, forgot_password, change_password
	)
)

var initOnce sync.Once

// Init registers the collectors. Safe to call more than once.
func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(LoginsTotal, TokenRejectionsTotal, OtpIssuedTotal)
	})
}

func Handler() http.Handler {
	return promhttp.Handler()
}
