package kafka

// Topic definitions for Kafka event streaming
const (
	// Analysis events
	TopicAnalysisCompleted = "analysis.completed"
	TopicScreenCompleted   = "analysis.screen_completed"

	// Pipeline events
	TopicDailySummary      = "pipeline.daily_summary"
	TopicDocumentsIngested = "pipeline.documents_ingested"

	// Alerts consumed by the notification consumer
	TopicPortfolioAlerts = "portfolio.alerts"
)

// AllTopics lists every topic the service writes to.
var AllTopics = []string{
	TopicAnalysisCompleted,
	TopicScreenCompleted,
	TopicDailySummary,
	TopicDocumentsIngested,
	TopicPortfolioAlerts,
}
