package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/matst80/slask-grid/pkg/common"
	"github.com/matst80/slask-grid/pkg/dataview"
	"github.com/matst80/slask-grid/pkg/storage"
	"github.com/matst80/slask-grid/pkg/tree"
	"github.com/matst80/slask-grid/pkg/types"
)

var (
	gridRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "slaskgrid_requests_total",
		Help: "Grid read requests",
	}, []string{"grid"})
	adminRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "slaskgrid_admin_requests_total",
		Help: "Grid admin mutations",
	})
)

type WebServer struct {
	Registry  *dataview.Registry
	Auth      AuthHandler
	Disk      *storage.DiskStorage
	ViewStore *storage.ViewStateStore
}

func (ws *WebServer) view(r *http.Request) (*dataview.View, error) {
	return ws.Registry.Get(r.PathValue("id"))
}

// rowId parses the path segment; numeric segments address rows with numeric
// ids, anything else is kept as a string id.
func rowId(r *http.Request) any {
	raw := r.PathValue("rowId")
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n
	}
	return raw
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, types.ErrUnknownGrid), errors.Is(err, types.ErrUnknownColumn):
		return http.StatusNotFound
	case errors.Is(err, types.ErrSortingDisabled),
		errors.Is(err, types.ErrFilteringDisabled),
		errors.Is(err, types.ErrColumnNotSortable),
		errors.Is(err, types.ErrColumnNotFilterable):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) error {
	return common.WriteJson(w, statusForError(err), map[string]string{"error": err.Error()})
}

func (ws *WebServer) ListGrids(w http.ResponseWriter, r *http.Request, _ int) error {
	views := ws.Registry.Views()
	result := make([]GridInfo, 0, len(views))
	for _, view := range views {
		opts := view.Options()
		result = append(result, GridInfo{
			Name:       view.Name(),
			Rows:       view.SourceLen(),
			Tree:       opts.TreeMode,
			Sortable:   opts.EnableSorting,
			Filterable: opts.EnableFiltering,
		})
	}
	return common.WriteJson(w, http.StatusOK, result)
}

func (ws *WebServer) GetGrid(w http.ResponseWriter, r *http.Request, _ int) error {
	view, err := ws.view(r)
	if err != nil {
		return writeError(w, err)
	}
	request := &GridRequest{}
	if err := gridRequestFromQuery(r.URL.Query(), request); err != nil {
		return writeError(w, err)
	}
	return ws.respond(w, view, request)
}

func (ws *WebServer) QueryGrid(w http.ResponseWriter, r *http.Request, _ int) error {
	view, err := ws.view(r)
	if err != nil {
		return writeError(w, err)
	}
	request := &GridRequest{}
	if err := common.ReadJson(r, request); err != nil {
		return writeError(w, err)
	}
	return ws.respond(w, view, request)
}

// respond applies any directives carried by the request and writes the
// requested page of the visible sequence.
func (ws *WebServer) respond(w http.ResponseWriter, view *dataview.View, request *GridRequest) error {
	request.normalize()
	gridRequests.WithLabelValues(view.Name()).Inc()

	if len(request.Sort) > 0 {
		if err := view.ApplySort(request.SortDirectives()...); err != nil {
			return writeError(w, err)
		}
	}
	if len(request.Filter) > 0 {
		if err := view.ApplyFilter(request.FilterDirectives()...); err != nil {
			return writeError(w, err)
		}
	}
	return ws.writePage(w, view, request)
}

func (ws *WebServer) writePage(w http.ResponseWriter, view *dataview.View, request *GridRequest) error {
	rows := view.Rows()
	total := len(rows)
	start := request.Page * request.PageSize
	if start > total {
		start = total
	}
	end := start + request.PageSize
	if end > total {
		end = total
	}
	page := rows[start:end]

	response := &GridResponse{
		Rows:      page,
		Sort:      view.SortDirectives(),
		Filter:    view.FilterDirectives(),
		Page:      request.Page,
		PageSize:  request.PageSize,
		TotalHits: total,
	}
	opts := view.Options()
	if opts.TreeMode {
		response.Meta = pageMeta(page, view.TreeMeta(), opts.IdField)
		if anomalies := view.Anomalies(); !anomalies.IsClean() {
			response.Anomalies = &anomalies
		}
	}
	return common.WriteJson(w, http.StatusOK, response)
}

// pageMeta narrows the bookkeeping side table to the returned rows, keyed by
// the string form of the row id so it survives JSON.
func pageMeta(rows []types.Row, meta tree.Metadata, idField string) map[string]*tree.NodeMeta {
	if idField == "" {
		idField = "id"
	}
	result := make(map[string]*tree.NodeMeta, len(rows))
	for _, row := range rows {
		id, ok := row.Id(idField)
		if !ok {
			continue
		}
		if m, found := meta[id]; found {
			result[types.ValueString(id)] = m
		}
	}
	return result
}

func (ws *WebServer) ApplySort(w http.ResponseWriter, r *http.Request, _ int) error {
	view, err := ws.view(r)
	if err != nil {
		return writeError(w, err)
	}
	var directives []types.SortDirective
	if err := common.ReadJson(r, &directives); err != nil {
		return writeError(w, err)
	}
	if err := view.ApplySort(directives...); err != nil {
		return writeError(w, err)
	}
	ws.saveViewState(view)
	return common.WriteJson(w, http.StatusOK, view.SortDirectives())
}

func (ws *WebServer) ClearSort(w http.ResponseWriter, r *http.Request, _ int) error {
	view, err := ws.view(r)
	if err != nil {
		return writeError(w, err)
	}
	if err := view.ClearSort(); err != nil {
		return writeError(w, err)
	}
	ws.saveViewState(view)
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (ws *WebServer) ApplyFilter(w http.ResponseWriter, r *http.Request, _ int) error {
	view, err := ws.view(r)
	if err != nil {
		return writeError(w, err)
	}
	var directives []types.FilterDirective
	if err := common.ReadJson(r, &directives); err != nil {
		return writeError(w, err)
	}
	if err := view.ApplyFilter(directives...); err != nil {
		return writeError(w, err)
	}
	ws.saveViewState(view)
	return common.WriteJson(w, http.StatusOK, view.FilterDirectives())
}

func (ws *WebServer) ClearFilter(w http.ResponseWriter, r *http.Request, _ int) error {
	view, err := ws.view(r)
	if err != nil {
		return writeError(w, err)
	}
	if err := view.ClearFilter(); err != nil {
		return writeError(w, err)
	}
	ws.saveViewState(view)
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (ws *WebServer) GetRow(w http.ResponseWriter, r *http.Request, _ int) error {
	view, err := ws.view(r)
	if err != nil {
		return writeError(w, err)
	}
	row, found := view.GetById(rowId(r))
	if !found {
		w.WriteHeader(http.StatusNotFound)
		return nil
	}
	return common.WriteJson(w, http.StatusOK, row)
}

// saveViewState mirrors the directive state to redis so other nodes and
// restarts pick it up. Best effort.
func (ws *WebServer) saveViewState(view *dataview.View) {
	if ws.ViewStore == nil {
		return
	}
	err := ws.ViewStore.SaveState(context.Background(), storage.ViewState{
		Grid:   view.Name(),
		Sort:   view.SortDirectives(),
		Filter: view.FilterDirectives(),
	})
	if err != nil {
		log.Printf("failed to save view state for %s: %v", view.Name(), err)
	}
}

func (ws *WebServer) UpsertRows(w http.ResponseWriter, r *http.Request, _ int) error {
	view, err := ws.view(r)
	if err != nil {
		return writeError(w, err)
	}
	adminRequests.Inc()
	request := &RowsRequest{}
	if err := common.ReadJson(r, request); err != nil {
		return writeError(w, err)
	}
	for _, row := range request.Rows {
		view.UpsertRow(row)
	}
	return common.WriteJson(w, http.StatusOK, map[string]int{"rows": view.SourceLen()})
}

func (ws *WebServer) DeleteRow(w http.ResponseWriter, r *http.Request, _ int) error {
	view, err := ws.view(r)
	if err != nil {
		return writeError(w, err)
	}
	adminRequests.Inc()
	if !view.DeleteRow(rowId(r)) {
		w.WriteHeader(http.StatusNotFound)
		return nil
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (ws *WebServer) ReplaceColumns(w http.ResponseWriter, r *http.Request, _ int) error {
	view, err := ws.view(r)
	if err != nil {
		return writeError(w, err)
	}
	adminRequests.Inc()
	request := &ColumnsRequest{}
	if err := common.ReadJson(r, request); err != nil {
		return writeError(w, err)
	}
	view.SetColumns(request.Columns)
	return common.WriteJson(w, http.StatusOK, view.Columns())
}

// CreateGridRequest defines a new grid with its columns and initial rows.
type CreateGridRequest struct {
	Name    string           `json:"name"`
	Options dataview.Options `json:"options"`
	Columns []*types.Column  `json:"columns"`
	Rows    []types.Row      `json:"rows,omitempty"`
}

func (ws *WebServer) CreateGrid(w http.ResponseWriter, r *http.Request, _ int) error {
	adminRequests.Inc()
	request := &CreateGridRequest{}
	if err := common.ReadJson(r, request); err != nil {
		return writeError(w, err)
	}
	view := dataview.NewView(request.Name, request.Columns, request.Options)
	if len(request.Rows) > 0 {
		view.SetRows(request.Rows)
	}
	name := ws.Registry.Register(view)
	return common.WriteJson(w, http.StatusCreated, map[string]string{"name": name})
}

func (ws *WebServer) DeleteGrid(w http.ResponseWriter, r *http.Request, _ int) error {
	adminRequests.Inc()
	if !ws.Registry.Remove(r.PathValue("id")) {
		w.WriteHeader(http.StatusNotFound)
		return nil
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

// GridState exposes the directive state of one grid for operators.
func (ws *WebServer) GridState(w http.ResponseWriter, r *http.Request, _ int) error {
	view, err := ws.view(r)
	if err != nil {
		return writeError(w, err)
	}
	return common.WriteJson(w, http.StatusOK, storage.ViewState{
		Grid:   view.Name(),
		Sort:   view.SortDirectives(),
		Filter: view.FilterDirectives(),
	})
}

func (ws *WebServer) SaveAll(w http.ResponseWriter, r *http.Request, _ int) error {
	adminRequests.Inc()
	if ws.Disk == nil {
		return writeError(w, fmt.Errorf("no disk storage configured"))
	}
	if err := ws.Disk.SaveViews(ws.Registry); err != nil {
		return writeError(w, err)
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

// ClientHandler is the read and directive surface.
func (ws *WebServer) ClientHandler() *http.ServeMux {
	srv := http.NewServeMux()
	srv.HandleFunc("GET /grids", common.JsonHandler(ws.ListGrids))
	srv.HandleFunc("GET /grid/{id}", common.JsonHandler(ws.GetGrid))
	srv.HandleFunc("POST /grid/{id}", common.JsonHandler(ws.QueryGrid))
	srv.HandleFunc("GET /grid/{id}/row/{rowId}", common.JsonHandler(ws.GetRow))
	srv.HandleFunc("POST /grid/{id}/sort", common.JsonHandler(ws.ApplySort))
	srv.HandleFunc("DELETE /grid/{id}/sort", common.JsonHandler(ws.ClearSort))
	srv.HandleFunc("POST /grid/{id}/filter", common.JsonHandler(ws.ApplyFilter))
	srv.HandleFunc("DELETE /grid/{id}/filter", common.JsonHandler(ws.ClearFilter))
	return srv
}

// AdminHandler carries the mutating surface behind the auth middleware.
func (ws *WebServer) AdminHandler() *http.ServeMux {
	srv := http.NewServeMux()
	auth := ws.Auth
	srv.HandleFunc("/auth/login", auth.Login)
	srv.HandleFunc("/auth/logout", auth.Logout)
	srv.HandleFunc("/auth/callback", auth.AuthCallback)
	srv.HandleFunc("/auth/user", auth.User)
	srv.HandleFunc("POST /grid", auth.Middleware(common.JsonHandler(ws.CreateGrid)))
	srv.HandleFunc("DELETE /grid/{id}", auth.Middleware(common.JsonHandler(ws.DeleteGrid)))
	srv.HandleFunc("POST /grid/{id}/rows", auth.Middleware(common.JsonHandler(ws.UpsertRows)))
	srv.HandleFunc("DELETE /grid/{id}/row/{rowId}", auth.Middleware(common.JsonHandler(ws.DeleteRow)))
	srv.HandleFunc("PUT /grid/{id}/columns", auth.Middleware(common.JsonHandler(ws.ReplaceColumns)))
	srv.HandleFunc("GET /grid/{id}/state", auth.Middleware(common.JsonHandler(ws.GridState)))
	srv.HandleFunc("POST /save", auth.Middleware(common.JsonHandler(ws.SaveAll)))
	return srv
}
