package storage

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/matst80/slask-grid/pkg/types"
)

// LoadRows runs a query and converts each result row into a grid row. Byte
// columns come back as strings and rows missing the id field get a generated
// one so the dataset stays addressable.
func LoadRows(ctx context.Context, db *sqlx.DB, query string, idField string) ([]types.Row, error) {
	if idField == "" {
		idField = "id"
	}
	res, err := db.QueryxContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer res.Close()

	rows := make([]types.Row, 0)
	for res.Next() {
		scanned := map[string]any{}
		if err := res.MapScan(scanned); err != nil {
			return nil, err
		}
		row := make(types.Row, len(scanned))
		for key, value := range scanned {
			if b, ok := value.([]byte); ok {
				row[key] = string(b)
			} else {
				row[key] = value
			}
		}
		if _, ok := row[idField]; !ok {
			row[idField] = uuid.NewString()
		}
		rows = append(rows, row)
	}
	return rows, res.Err()
}
