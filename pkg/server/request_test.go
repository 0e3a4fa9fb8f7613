package server

import (
	"net/url"
	"testing"

	"github.com/matst80/slask-grid/pkg/types"
)

func TestGridRequestFromQuery(t *testing.T) {
	query := url.Values{
		"page":   []string{"2"},
		"size":   []string{"25"},
		"sort":   []string{"price:desc", "name"},
		"filter": []string{"brand:in:apple||samsung", "price:gt:100"},
	}
	request := &GridRequest{}
	if err := gridRequestFromQuery(query, request); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if request.Page != 2 {
		t.Errorf("Expected page to be 2, got %v", request.Page)
	}
	if request.PageSize != 25 {
		t.Errorf("Expected size to be 25, got %v", request.PageSize)
	}

	sort := request.SortDirectives()
	if len(sort) != 2 {
		t.Fatalf("Expected 2 sort directives, got %v", sort)
	}
	if sort[0].ColumnId != "price" || !sort[0].Desc {
		t.Errorf("Expected price desc, got %v", sort[0])
	}
	if sort[1].ColumnId != "name" || sort[1].Desc {
		t.Errorf("Expected name asc, got %v", sort[1])
	}

	filter := request.FilterDirectives()
	if len(filter) != 2 {
		t.Fatalf("Expected 2 filter directives, got %v", filter)
	}
	if filter[0].ColumnId != "brand" || filter[0].Operator != types.OpIn {
		t.Errorf("Expected brand in filter, got %v", filter[0])
	}
	if len(filter[0].Terms) != 2 || filter[0].Terms[1] != "samsung" {
		t.Errorf("Expected split terms, got %v", filter[0].Terms)
	}
	if filter[1].Operator != types.OpGreaterThan || filter[1].Terms[0] != "100" {
		t.Errorf("Expected price gt 100, got %v", filter[1])
	}
}

func TestGridRequestDefaults(t *testing.T) {
	request := &GridRequest{}
	if err := gridRequestFromQuery(url.Values{}, request); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	request.normalize()
	if request.PageSize != 50 {
		t.Errorf("Expected default size 50, got %v", request.PageSize)
	}
	if request.Page != 0 {
		t.Errorf("Expected default page 0, got %v", request.Page)
	}
}

func TestFilterDirectiveWithoutOperator(t *testing.T) {
	request := &GridRequest{Filter: []string{"name:mouse"}}
	filter := request.FilterDirectives()
	if len(filter) != 1 {
		t.Fatalf("Expected 1 filter directive, got %v", filter)
	}
	if filter[0].Operator != types.OpNone {
		t.Errorf("Expected default operator, got %v", filter[0].Operator)
	}
	if filter[0].Terms[0] != "mouse" {
		t.Errorf("Expected term mouse, got %v", filter[0].Terms)
	}
}

func TestMalformedEntriesSkipped(t *testing.T) {
	request := &GridRequest{Sort: []string{""}, Filter: []string{"justacolumn", ":gt:1"}}
	if got := request.SortDirectives(); len(got) != 0 {
		t.Errorf("Expected empty sort, got %v", got)
	}
	if got := request.FilterDirectives(); len(got) != 0 {
		t.Errorf("Expected empty filter, got %v", got)
	}
}
