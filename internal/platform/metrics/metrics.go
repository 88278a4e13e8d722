package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus counters for the registration pipeline.
type Metrics struct {
	RegistrationsCreated prometheus.Counter
	ActivationsCompleted prometheus.Counter
	EnrollmentsAccepted  prometheus.Counter
	EnrollmentsRefused   prometheus.Counter
	ActivationMailsSent  prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		RegistrationsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "evreg_registrations_created_total",
			Help: "Total number of registration profiles created",
		}),
		ActivationsCompleted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "evreg_activations_completed_total",
			Help: "Total number of profiles activated into user accounts",
		}),
		EnrollmentsAccepted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "evreg_enrollments_accepted_total",
			Help: "Total number of enrollments admitted",
		}),
		EnrollmentsRefused: promauto.NewCounter(prometheus.CounterOpts{
			Name: "evreg_enrollments_refused_total",
			Help: "Total number of enrollments refused for lack of seats",
		}),
		ActivationMailsSent: promauto.NewCounter(prometheus.CounterOpts{
			Name: "evreg_activation_mails_sent_total",
			Help: "Total number of activation mails delivered",
		}),
	}
}
