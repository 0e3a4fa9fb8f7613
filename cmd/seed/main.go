package main

import (
	"context"
	"encoding/csv"
	"flag"
	"log"
	"os"
	"strconv"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/matst80/slask-grid/pkg/dataview"
	"github.com/matst80/slask-grid/pkg/storage"
	"github.com/matst80/slask-grid/pkg/types"
)

// seed builds a grid snapshot from a csv file or a sqlite query so a server
// node has something to load on first start.

var csvFile = flag.String("csv", "", "csv input file (';' separated, headered)")
var sqliteFile = flag.String("sqlite", "", "sqlite database file")
var query = flag.String("query", "", "query to run against the sqlite database")
var gridName = flag.String("name", "import", "grid name for the snapshot")
var idField = flag.String("id", "id", "row identifier field")
var parentField = flag.String("parent", "", "parent field; enables tree mode when set")
var dataDir = flag.String("data", "data", "snapshot output folder")
var nodeName = flag.String("node", "grid", "node folder inside the data dir")

func main() {
	flag.Parse()

	var rows []types.Row
	var err error
	switch {
	case *csvFile != "":
		rows = csvRows(*csvFile)
	case *sqliteFile != "":
		rows, err = sqliteRows(*sqliteFile, *query)
		if err != nil {
			log.Fatalf("Failed to query sqlite: %v", err)
		}
	default:
		log.Fatal("Either -csv or -sqlite is required")
	}
	if len(rows) == 0 {
		log.Fatal("No rows to seed")
	}

	snapshot := &storage.Snapshot{
		Name: *gridName,
		Options: dataview.Options{
			IdField:         *idField,
			ParentField:     *parentField,
			TreeMode:        *parentField != "",
			EnableSorting:   true,
			EnableFiltering: true,
		},
		Columns: columnsFromRows(rows),
		Rows:    rows,
	}
	disk := storage.NewDiskStorage(*nodeName, *dataDir)
	if err := disk.SaveSnapshot(snapshot); err != nil {
		log.Fatalf("Failed to save snapshot: %v", err)
	}
	log.Printf("Saved %s with %d rows and %d columns", *gridName, len(rows), len(snapshot.Columns))
}

func csvRows(filePath string) []types.Row {
	f, err := os.Open(filePath)
	if err != nil {
		log.Fatalf("Unable to read input file %s: %v", filePath, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.Comma = ';'
	records, err := reader.ReadAll()
	if err != nil {
		log.Fatalf("Unable to parse file as CSV for %s: %v", filePath, err)
	}
	if len(records) < 2 {
		return nil
	}
	header := records[0]
	rows := make([]types.Row, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(types.Row, len(header))
		for i, key := range header {
			if i >= len(record) {
				break
			}
			row[key] = parseCell(record[i])
		}
		rows = append(rows, row)
	}
	return rows
}

func parseCell(cell string) any {
	if cell == "" {
		return nil
	}
	if n, err := strconv.ParseInt(cell, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(cell, 64); err == nil {
		return f
	}
	return cell
}

func sqliteRows(file, query string) ([]types.Row, error) {
	if query == "" {
		log.Fatal("-query is required with -sqlite")
	}
	db, err := sqlx.Connect("sqlite3", file)
	if err != nil {
		return nil, err
	}
	defer db.Close()
	return storage.LoadRows(context.Background(), db, query, *idField)
}

// columnsFromRows derives a column per field, typed by the first non-nil
// value seen. Good enough for seeding; the admin api can refine them later.
func columnsFromRows(rows []types.Row) []*types.Column {
	seen := map[string]types.FieldType{}
	order := []string{}
	for _, row := range rows {
		for key, value := range row {
			if existing, ok := seen[key]; ok && existing != types.FieldUnknown {
				continue
			}
			if _, ok := seen[key]; !ok {
				order = append(order, key)
			}
			seen[key] = fieldTypeOf(value)
		}
	}
	columns := make([]*types.Column, 0, len(order))
	for _, key := range order {
		fieldType := seen[key]
		if fieldType == types.FieldUnknown {
			fieldType = types.FieldText
		}
		columns = append(columns, &types.Column{
			Id:         key,
			Field:      key,
			Name:       key,
			Type:       fieldType,
			Sortable:   true,
			Filterable: true,
		})
	}
	return columns
}

func fieldTypeOf(value any) types.FieldType {
	switch value.(type) {
	case nil:
		return types.FieldUnknown
	case bool:
		return types.FieldBoolean
	case int, int64:
		return types.FieldInteger
	case float32, float64:
		return types.FieldFloat
	default:
		return types.FieldText
	}
}
