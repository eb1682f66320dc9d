package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	updatesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_updates_total",
			Help: "Inbound updates by kind (command/callback/text/other).",
		},
		[]string{"kind"},
	)

	gateChecksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_gate_checks_total",
			Help: "Channel membership checks by outcome (subscribed/blocked).",
		},
		[]string{"outcome"},
	)

	deliveriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_deliveries_total",
			Help: "Content delivery attempts by result (sent/failed/not_found).",
		},
		[]string{"result"},
	)

	handlerErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bot_handler_errors_total",
			Help: "Updates that hit the router's top-level error trap.",
		},
	)
)

func init() {
	register(updatesTotal, gateChecksTotal, deliveriesTotal, handlerErrorsTotal)
}

func IncUpdate(kind string)       { updatesTotal.WithLabelValues(kind).Inc() }
func IncGateCheck(outcome string) { gateChecksTotal.WithLabelValues(outcome).Inc() }
func IncDelivery(result string)   { deliveriesTotal.WithLabelValues(result).Inc() }
func IncHandlerError()            { handlerErrorsTotal.Inc() }
