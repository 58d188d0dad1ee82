package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	apiRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_client_api_requests_total",
			Help: "Total number of REST calls issued to the chat backend.",
		},
		[]string{"op", "result"},
	)
	wsActiveConnections = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "chat_client_ws_active_connections",
			Help: "Number of open websocket connections.",
		},
		[]string{"kind"},
	)
	wsEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_client_ws_events_total",
			Help: "Total number of websocket lifecycle events.",
		},
		[]string{"kind", "event"},
	)
	wsFramesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_client_ws_frames_total",
			Help: "Total number of inbound frames dispatched, by frame type.",
		},
		[]string{"kind", "type"},
	)
	uploadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chat_client_uploads_total",
			Help: "Total number of attachment uploads by outcome.",
		},
		[]string{"result"},
	)
	amqpPublishErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "chat_client_amqp_publish_errors_total",
			Help: "Total number of AMQP telemetry publish errors.",
		},
	)
)

func init() {
	prometheus.MustRegister(
		apiRequestsTotal,
		wsActiveConnections,
		wsEventsTotal,
		wsFramesTotal,
		uploadsTotal,
		amqpPublishErrorsTotal,
	)
}

func IncAPIRequest(op, result string) {
	apiRequestsTotal.WithLabelValues(op, result).Inc()
}

// APIRequests returns the counter cell for one op/result pair.
func APIRequests(op, result string) prometheus.Counter {
	return apiRequestsTotal.WithLabelValues(op, result)
}

func IncWSActive(kind string) {
	wsActiveConnections.WithLabelValues(kind).Inc()
}

func DecWSActive(kind string) {
	wsActiveConnections.WithLabelValues(kind).Dec()
}

func IncWSEvent(kind, event string) {
	wsEventsTotal.WithLabelValues(kind, event).Inc()
}

func IncWSFrame(kind, frameType string) {
	wsFramesTotal.WithLabelValues(kind, frameType).Inc()
}

func IncUpload(result string) {
	uploadsTotal.WithLabelValues(result).Inc()
}

func IncAMQPPublishError() {
	amqpPublishErrorsTotal.Inc()
}
