package storage

import (
	"context"
	"database/sql"

	"github.com/eventscope/eventscope/internal/utils"
	"github.com/eventscope/eventscope/pkg/price"
)

// BackfillPrices re-derives price_type and price_value for every submission
// that still carries the free-text price fragment it was stored with. It
// runs the exact same normalizer as the live pipeline, so a backfilled row
// and a freshly scraped row always agree for identical input text. Free
// submissions keep null prices regardless of the fragment.
func (d *DB) BackfillPrices(ctx context.Context, dryRun bool) (int, error) {
	rows, err := d.sql.QueryContext(ctx,
		`SELECT id, price_text, price_type, price_value, is_free FROM submissions WHERE price_text IS NOT NULL`)
	if err != nil {
		return 0, err
	}

	type update struct {
		id        int64
		priceType sql.NullString
		value     sql.NullFloat64
	}
	var updates []update

	for rows.Next() {
		var (
			id       int64
			text     string
			oldType  sql.NullString
			oldValue sql.NullFloat64
			isFree   int
		)
		if err := rows.Scan(&id, &text, &oldType, &oldValue, &isFree); err != nil {
			rows.Close()
			return 0, err
		}

		var newType sql.NullString
		var newValue sql.NullFloat64
		if isFree == 0 {
			p := price.Parse(text)
			newType = sql.NullString{String: string(p.Type), Valid: true}
			if p.Value != nil {
				newValue = sql.NullFloat64{Float64: *p.Value, Valid: true}
			}
		}

		if newType != oldType || newValue != oldValue {
			updates = append(updates, update{id: id, priceType: newType, value: newValue})
		}
	}
	if err := rows.Close(); err != nil {
		return 0, err
	}
	if err := rows.Err(); err != nil {
		return 0, err
	}

	if dryRun {
		return len(updates), nil
	}

	for _, u := range updates {
		if _, err := d.sql.ExecContext(ctx,
			`UPDATE submissions SET price_type = ?, price_value = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
			u.priceType, u.value, u.id); err != nil {
			return 0, err
		}
		utils.Log.Debug("backfilled submission ", u.id)
	}
	return len(updates), nil
}
