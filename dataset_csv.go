package main

import (
	"encoding/csv"
	"log"
	"os"
	"strconv"

	"github.com/matst80/slask-grid/pkg/types"
)

func readCsvFile(filePath string) [][]string {
	f, err := os.Open(filePath)
	if err != nil {
		log.Fatal("Unable to read input file "+filePath, err)
	}
	defer f.Close()

	csvReader := csv.NewReader(f)
	csvReader.Comma = ';'
	records, err := csvReader.ReadAll()
	if err != nil {
		log.Fatal("Unable to parse file as CSV for "+filePath, err)
	}

	return records
}

// rowsFromCsv turns a headered CSV into grid rows. Numeric cells become
// numbers so the filter and sort engines see typed values instead of
// strings.
func rowsFromCsv(records [][]string) []types.Row {
	if len(records) == 0 {
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
			row[key] = csvValue(record[i])
		}
		rows = append(rows, row)
	}
	return rows
}

func csvValue(cell string) any {
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
