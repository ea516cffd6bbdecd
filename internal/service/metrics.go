package service

import "github.com/prometheus/client_golang/prometheus"

var agreementTransitions = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "vobon",
		Name:      "agreement_transitions_total",
		Help:      "Agreement lifecycle transitions by target status",
	},
	[]string{"to"},
)

func init() { prometheus.MustRegister(agreementTransitions) }
