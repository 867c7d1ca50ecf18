package store

const (
	queryInsertObservation = `
		INSERT INTO observations (
			session_id, observed_at, product_id, product_name,
			quantity, max_quantity, delta, variant_sku
		) VALUES (
			@session_id, @observed_at, @product_id, @product_name,
			@quantity, @max_quantity, @delta, @variant_sku
		)`

	queryListProductIDs = `
		SELECT DISTINCT product_id
		FROM observations
		ORDER BY product_id`
)
