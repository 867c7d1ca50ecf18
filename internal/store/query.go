package store

import (
	"fmt"
	"strings"
)

const (
	defaultLimit = 100
	maxLimit     = 5000
)

const baseObservationsSelect = `SELECT id, session_id, observed_at, product_id, product_name,
	quantity, max_quantity, delta, variant_sku
FROM observations`

// ToSQL builds the data query and its positional parameters.
func (q *ObservationQuery) ToSQL() (string, []any) {
	var (
		conditions []string
		args       []any
	)

	add := func(expr string, v any) {
		args = append(args, v)
		conditions = append(conditions, fmt.Sprintf(expr, len(args)))
	}

	if q.ProductID != nil {
		add("product_id = $%d", *q.ProductID)
	}
	if q.SessionID != nil {
		add("session_id = $%d", *q.SessionID)
	}
	if q.Since != nil {
		add("observed_at >= $%d", *q.Since)
	}
	if q.Until != nil {
		add("observed_at < $%d", *q.Until)
	}

	var where string
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	order := "observed_at DESC, id DESC"
	if q.Oldest {
		order = "observed_at ASC, id ASC"
	}

	limit := q.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	limit = min(limit, maxLimit)

	return fmt.Sprintf("%s%s ORDER BY %s LIMIT %d", baseObservationsSelect, where, order, limit), args
}
