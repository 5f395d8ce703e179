package observability

// Metric name prefixes
const (
	MetricPrefix = "lottery_platform"
)

// Metric names
const (
	// Lottery metrics
	TicketsPurchasedTotal = MetricPrefix + ".tickets.purchased_total"
	DrawsCompletedTotal   = MetricPrefix + ".draws.completed_total"
	ClaimsPaidTotal       = MetricPrefix + ".claims.paid_total"
	PrizesPaidAmount      = MetricPrefix + ".claims.paid_amount"

	// NATS metrics
	NATSMessagesReceivedTotal  = MetricPrefix + ".nats.messages_received_total"
	NATSMessagesPublishedTotal = MetricPrefix + ".nats.messages_published_total"

	// Database metrics
	DatabaseQueriesTotal  = MetricPrefix + ".database.queries_total"
	DatabaseQueryDuration = MetricPrefix + ".database.query_duration"
)

// Label keys
const (
	// Common labels
	LabelEventType = "event_type"

	// Lottery labels
	LabelMatchCount = "match_count"

	// Database labels
	LabelRepository = "repository"
	LabelMethod     = "method"
)
