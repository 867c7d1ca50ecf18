// Package validate checks PromQL in generated dashboards and rule files
// against the metrics hwaccess exports.
package validate

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/grafana/grafana-foundation-sdk/go/dashboard"
	"github.com/prometheus/prometheus/promql/parser"

	"github.com/shady333/gettingHWaccess/tools/dashgen/rules"
)

// Result collects problems found while validating. Errors fail generation;
// warnings flag metric names the generator does not know about.
type Result struct {
	Errors   []string
	Warnings []string
}

// Ok reports whether no errors were found.
func (r Result) Ok() bool {
	return len(r.Errors) == 0
}

func (r *Result) merge(o Result) {
	r.Errors = append(r.Errors, o.Errors...)
	r.Warnings = append(r.Warnings, o.Warnings...)
}

// histogram and summary series share the base metric name.
var seriesSuffixes = []string{"_bucket", "_sum", "_count"}

// Expr parses a single PromQL expression and checks every selected metric
// against known.
func Expr(where, expr string, known map[string]bool) Result {
	var r Result

	parsed, err := parser.ParseExpr(expr)
	if err != nil {
		r.Errors = append(r.Errors, fmt.Sprintf("%s: invalid PromQL %q: %v", where, expr, err))
		return r
	}

	for _, name := range metricNames(parsed) {
		if !isKnown(name, known) {
			r.Warnings = append(r.Warnings, fmt.Sprintf("%s: unknown metric %q", where, name))
		}
	}
	return r
}

// Rules validates every expression in a PrometheusRule CR.
func Rules(cr rules.PrometheusRule, known map[string]bool) Result {
	var r Result
	for _, g := range cr.Spec.Groups {
		for _, rule := range g.Rules {
			name := rule.Name()
			if name == "" {
				r.Errors = append(r.Errors, fmt.Sprintf("%s/%s: rule has neither record nor alert", cr.Metadata.Name, g.Name))
				continue
			}
			r.merge(Expr(cr.Metadata.Name+"/"+name, rule.Expr, known))
		}
	}
	return r
}

// Dashboard validates every query expression in a built dashboard.
func Dashboard(d dashboard.Dashboard, known map[string]bool) Result {
	var r Result

	data, err := json.Marshal(d)
	if err != nil {
		r.Errors = append(r.Errors, fmt.Sprintf("marshal dashboard: %v", err))
		return r
	}
	var tree any
	if err := json.Unmarshal(data, &tree); err != nil {
		r.Errors = append(r.Errors, fmt.Sprintf("unmarshal dashboard: %v", err))
		return r
	}

	where := "dashboard"
	if d.Uid != nil {
		where = *d.Uid
	}

	exprs := collectExprs(tree, nil)
	if len(exprs) == 0 {
		r.Errors = append(r.Errors, where+": no query expressions found")
	}
	for _, e := range exprs {
		r.merge(Expr(where, e, known))
	}
	return r
}

func collectExprs(node any, out []string) []string {
	switch v := node.(type) {
	case map[string]any:
		for k, child := range v {
			if s, ok := child.(string); ok && k == "expr" {
				out = append(out, s)
				continue
			}
			out = collectExprs(child, out)
		}
	case []any:
		for _, child := range v {
			out = collectExprs(child, out)
		}
	}
	return out
}

func metricNames(expr parser.Expr) []string {
	seen := map[string]bool{}
	parser.Inspect(expr, func(node parser.Node, _ []parser.Node) error {
		if vs, ok := node.(*parser.VectorSelector); ok && vs.Name != "" {
			seen[vs.Name] = true
		}
		return nil
	})

	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

func isKnown(name string, known map[string]bool) bool {
	if known[name] {
		return true
	}
	for _, suffix := range seriesSuffixes {
		if base, ok := strings.CutSuffix(name, suffix); ok && known[base] {
			return true
		}
	}
	return false
}
