package rules

// Alert severities.
const (
	severityCritical = "critical"
	severityWarning  = "warning"
)

// AlertRules returns the hwaccess operational alerts.
func AlertRules() PrometheusRule {
	return newPrometheusRule("hwaccess-alerts",
		alert("HwaccessDown",
			`absent(up{job="hwaccess"})`, "2m", severityCritical,
			"hwaccess is down",
			"The hwaccess job has been absent for more than 2 minutes."),
		alert("HwaccessReadinessDown",
			`hwaccess_readyz_up == 0`, "5m", severityCritical,
			"hwaccess has no valid token",
			"The readiness probe has reported no cached token for more than 5 minutes."),
		alert("HwaccessHighErrorRate",
			`hwaccess:http_errors:rate5m / hwaccess:http_requests:rate5m > 0.05`, "5m", severityWarning,
			"High HTTP error rate on hwaccess",
			"More than 5% of HTTP requests are returning 5xx errors over the last 5 minutes."),
		alert("HwaccessPollFailures",
			`hwaccess:poll_failures:rate5m > 0`, "10m", severityWarning,
			"Inventory polls are failing",
			"Inventory polls have returned non-success outcomes for more than 10 minutes."),
		alert("HwaccessFailureBudgetNearlyExhausted",
			`hwaccess_consecutive_failures >= 2`, "0m", severityCritical,
			"Monitoring session is one failure from stopping",
			"Two consecutive failures recorded. A third ends the session."),
		alert("HwaccessTokenStale",
			`time() - hwaccess_token_acquired_timestamp_seconds > 600`, "5m", severityWarning,
			"Token has not been refreshed",
			"No token has been acquired in the last 10 minutes."),
		alert("HwaccessLogWriteFailures",
			`increase(hwaccess_log_write_failures_total[5m]) > 0`, "1m", severityWarning,
			"Observation log writes are failing",
			"Observations could not be appended to the CSV or PostgreSQL log."),
		alert("HwaccessNotificationFailures",
			`increase(hwaccess_notification_failures_total[5m]) > 0`, "1m", severityWarning,
			"Notification delivery failures detected",
			"One or more stock notifications (Discord webhooks) have failed to send."),
	)
}
