// Package rules generates the hwaccess recording and alert rules as
// Prometheus Operator PrometheusRule resources.
package rules

// ruleSelector is the label the cluster's Prometheus selects rule
// resources by.
var ruleSelector = map[string]string{"prometheus": "system-rules-prometheus"}

// PrometheusRule is a monitoring.coreos.com/v1 PrometheusRule resource.
type PrometheusRule struct {
	APIVersion string                 `yaml:"apiVersion"`
	Kind       string                 `yaml:"kind"`
	Metadata   PrometheusRuleMetadata `yaml:"metadata"`
	Spec       PrometheusRuleSpec     `yaml:"spec"`
}

// PrometheusRuleMetadata is the subset of object metadata the generator sets.
type PrometheusRuleMetadata struct {
	Name   string            `yaml:"name"`
	Labels map[string]string `yaml:"labels,omitempty"`
}

// PrometheusRuleSpec holds the rule groups.
type PrometheusRuleSpec struct {
	Groups []RuleGroup `yaml:"groups"`
}

// RuleGroup is a named set of rules evaluated together.
type RuleGroup struct {
	Name  string `yaml:"name"`
	Rules []Rule `yaml:"rules"`
}

// Rule is a recording rule when Record is set and an alert when Alert is.
type Rule struct {
	Record      string            `yaml:"record,omitempty"`
	Alert       string            `yaml:"alert,omitempty"`
	Expr        string            `yaml:"expr"`
	For         string            `yaml:"for,omitempty"`
	Labels      map[string]string `yaml:"labels,omitempty"`
	Annotations map[string]string `yaml:"annotations,omitempty"`
}

// Name returns the recorded series or alert name.
func (r Rule) Name() string {
	if r.Record != "" {
		return r.Record
	}
	return r.Alert
}

// newPrometheusRule wraps a single group named name in a resource of the
// same name.
func newPrometheusRule(name string, rules ...Rule) PrometheusRule {
	labels := make(map[string]string, len(ruleSelector))
	for k, v := range ruleSelector {
		labels[k] = v
	}
	return PrometheusRule{
		APIVersion: "monitoring.coreos.com/v1",
		Kind:       "PrometheusRule",
		Metadata:   PrometheusRuleMetadata{Name: name, Labels: labels},
		Spec:       PrometheusRuleSpec{Groups: []RuleGroup{{Name: name, Rules: rules}}},
	}
}

// record builds a recording rule.
func record(name, expr string) Rule {
	return Rule{Record: name, Expr: expr}
}

// alert builds an alert with the standard severity label and annotations.
func alert(name, expr, forDur, severity, summary, description string) Rule {
	return Rule{
		Alert:       name,
		Expr:        expr,
		For:         forDur,
		Labels:      map[string]string{"severity": severity},
		Annotations: map[string]string{"summary": summary, "description": description},
	}
}
