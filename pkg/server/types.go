package server

import (
	"net/url"
	"strings"

	"github.com/gorilla/schema"

	"github.com/matst80/slask-grid/pkg/tree"
	"github.com/matst80/slask-grid/pkg/types"
)

// GridRequest is the query surface of one grid read. Sort entries use
// "columnId" or "columnId:desc"; filter entries use
// "columnId:operator:term" with "||" between multiple terms.
type GridRequest struct {
	Page     int      `json:"page" schema:"page"`
	PageSize int      `json:"size" schema:"size,default:50"`
	Sort     []string `json:"sort" schema:"sort"`
	Filter   []string `json:"filter" schema:"filter"`
}

func gridRequestFromQuery(query url.Values, result *GridRequest) error {
	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)
	return decoder.Decode(result, query)
}

func (r *GridRequest) SortDirectives() []types.SortDirective {
	directives := make([]types.SortDirective, 0, len(r.Sort))
	for _, v := range r.Sort {
		if v == "" {
			continue
		}
		columnId, rest, _ := strings.Cut(v, ":")
		directives = append(directives, types.SortDirective{
			ColumnId: columnId,
			Desc:     strings.EqualFold(rest, "desc"),
		})
	}
	return directives
}

func (r *GridRequest) FilterDirectives() []types.FilterDirective {
	directives := make([]types.FilterDirective, 0, len(r.Filter))
	for _, v := range r.Filter {
		columnId, rest, ok := strings.Cut(v, ":")
		if !ok || columnId == "" {
			continue
		}
		op, terms, ok := strings.Cut(rest, ":")
		if !ok {
			// two-part form, operator omitted
			terms = op
			op = ""
		}
		directives = append(directives, types.FilterDirective{
			ColumnId: columnId,
			Operator: types.ParseOperator(op),
			Terms:    strings.Split(terms, "||"),
		})
	}
	return directives
}

func (r *GridRequest) normalize() {
	if r.PageSize <= 0 {
		r.PageSize = 50
	}
	if r.Page < 0 {
		r.Page = 0
	}
}

// GridResponse is one page of visible rows plus enough state for a client to
// render headers and paging.
type GridResponse struct {
	Rows      []types.Row               `json:"rows"`
	Meta      map[string]*tree.NodeMeta `json:"meta,omitempty"`
	Sort      []types.SortDirective     `json:"sort,omitempty"`
	Filter    []types.FilterDirective   `json:"filter,omitempty"`
	Anomalies *tree.Anomalies           `json:"anomalies,omitempty"`
	Page      int                       `json:"page"`
	PageSize  int                       `json:"pageSize"`
	TotalHits int                       `json:"totalHits"`
}

// GridInfo is the listing entry for one registered grid.
type GridInfo struct {
	Name       string `json:"name"`
	Rows       int    `json:"rows"`
	Tree       bool   `json:"tree"`
	Sortable   bool   `json:"sortable"`
	Filterable bool   `json:"filterable"`
}

// ColumnsRequest replaces a grid's column set.
type ColumnsRequest struct {
	Columns []*types.Column `json:"columns"`
}

// RowsRequest upserts a batch of rows.
type RowsRequest struct {
	Rows []types.Row `json:"rows"`
}
