package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// wakeRequestsTotal counts wake requests, successful or not.
	wakeRequestsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wolrelay_wake_requests_total",
		Help: "Number of Wake-on-LAN requests handled",
	})

	// sleepRequestsTotal counts sleep requests, successful or not.
	sleepRequestsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wolrelay_sleep_requests_total",
		Help: "Number of remote sleep requests handled",
	})

	// statusRequestsTotal counts status queries.
	statusRequestsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wolrelay_status_requests_total",
		Help: "Number of host status queries handled",
	})

	// requestErrorsTotal counts failed requests by route.
	requestErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wolrelay_request_errors_total",
		Help: "Number of requests that produced an error response",
	}, []string{"route"})
)
