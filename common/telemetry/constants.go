package telemetry

const (
	MetricPrefix                  = "cr_"
	PredictionSuccessCount        = "cr_predictions_success_count"
	PredictionMissingFieldCount   = "cr_predictions_missing_field_count"
	PredictionMalformedInputCount = "cr_predictions_malformed_number_count"
	PredictionFailedCount         = "cr_predictions_failed_count"
	PredictionUnclassifiedCount   = "cr_predictions_unclassified_count"
	PredictionLatencyMicros       = "cr_prediction_latency_us"
	LatencySampleSize             = 1028
)
