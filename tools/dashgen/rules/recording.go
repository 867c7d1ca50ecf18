package rules

// RecordingRules returns the pre-computed rates used by the dashboard and
// alert rules.
func RecordingRules() PrometheusRule {
	return newPrometheusRule("hwaccess-recording",
		record("hwaccess:http_requests:rate5m",
			`sum(rate(hwaccess_http_requests_total[5m]))`),
		record("hwaccess:http_errors:rate5m",
			`sum(rate(hwaccess_http_requests_total{status=~"5.."}[5m]))`),
		record("hwaccess:polls:rate5m",
			`sum by (outcome) (rate(hwaccess_polls_total[5m]))`),
		record("hwaccess:poll_failures:rate5m",
			`sum(rate(hwaccess_polls_total{outcome!="success"}[5m]))`),
		record("hwaccess:token_acquisition_failures:rate5m",
			`sum(rate(hwaccess_token_acquisitions_total{result="failure"}[5m]))`),
	)
}
