package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"net/http/pprof"
	"os"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matst80/slask-grid/pkg/common"
	"github.com/matst80/slask-grid/pkg/dataview"
	"github.com/matst80/slask-grid/pkg/messaging"
	"github.com/matst80/slask-grid/pkg/server"
	"github.com/matst80/slask-grid/pkg/storage"
	"github.com/matst80/slask-grid/pkg/types"
)

var enableProfiling = flag.Bool("profiling", true, "enable profiling endpoints")
var mockAuth = flag.Bool("mock-auth", false, "skip oauth and allow everything")
var csvFile = flag.String("csv", "", "bootstrap a grid from a csv file")
var sqliteFile = flag.String("sqlite", "", "bootstrap a grid from a sqlite database")
var sqliteQuery = flag.String("sqlite-query", "", "query to run against the sqlite database")
var importGrid = flag.String("import-grid", "import", "grid name receiving the bootstrap rows")

var rabbitUrl = os.Getenv("RABBIT_URL")
var rabbitVHost = os.Getenv("RABBIT_HOST")
var clientName = os.Getenv("NODE_NAME")
var redisUrl = os.Getenv("REDIS_URL")
var redisPassword = os.Getenv("REDIS_PASSWORD")
var dataDir = os.Getenv("DATA_DIR")
var nodeName = os.Getenv("GRID_NODE")
var listenAddress = ":8080"
var debugAddress = ":8081"

var registry = dataview.NewRegistry()
var rabbitConfig = messaging.RabbitConfig{
	Url:   rabbitUrl,
	VHost: rabbitVHost,
}

func loadGrids(disk *storage.DiskStorage) {
	if err := disk.LoadViews(registry); err != nil {
		log.Printf("Failed to load grids: %v", err)
	}

	var rows []types.Row
	if *csvFile != "" {
		rows = rowsFromCsv(readCsvFile(*csvFile))
	} else if *sqliteFile != "" {
		db, err := sqlx.Connect("sqlite3", *sqliteFile)
		if err != nil {
			log.Fatalf("Failed to open sqlite database: %v", err)
		}
		defer db.Close()
		rows, err = storage.LoadRows(context.Background(), db, *sqliteQuery, "id")
		if err != nil {
			log.Fatalf("Failed to query sqlite: %v", err)
		}
	}
	if len(rows) == 0 {
		return
	}
	if view, err := registry.Get(*importGrid); err == nil {
		view.SetRows(rows)
		log.Printf("Replaced %s with %d imported rows", *importGrid, len(rows))
	} else {
		log.Printf("No grid named %s for import, skipping", *importGrid)
	}
}

// restoreViewStates replays the directive state other nodes (or a previous
// run) left in redis, then keeps following changes.
func restoreViewStates(store *storage.ViewStateStore) {
	ctx := context.Background()
	for _, view := range registry.Views() {
		state, err := store.LoadState(ctx, view.Name())
		if err != nil {
			continue
		}
		applyViewState(state)
	}
	store.ListenForStateChanges(applyViewState)
}

func applyViewState(state *storage.ViewState) {
	view, err := registry.Get(state.Grid)
	if err != nil {
		return
	}
	if state.SortCleared {
		if err := view.ClearSort(); err != nil {
			log.Printf("Failed to clear sort on %s: %v", state.Grid, err)
		}
	} else if len(state.Sort) > 0 {
		if err := view.ApplySort(state.Sort...); err != nil {
			log.Printf("Failed to restore sort on %s: %v", state.Grid, err)
		}
	}
	if len(state.Filter) > 0 {
		if err := view.ApplyFilter(state.Filter...); err != nil {
			log.Printf("Failed to restore filter on %s: %v", state.Grid, err)
		}
	}
}

func main() {
	flag.Parse()

	if dataDir == "" {
		dataDir = "data"
	}
	if nodeName == "" {
		nodeName = "grid"
	}
	disk := storage.NewDiskStorage(nodeName, dataDir)
	loadGrids(disk)

	srv := &server.WebServer{
		Registry: registry,
		Disk:     disk,
	}

	if *mockAuth {
		srv.Auth = &server.MockAuth{}
		log.Println("Using mock auth, do not expose this instance")
	} else {
		auth, err := server.NewGoogleAuth()
		if err != nil {
			log.Fatalf("Failed to configure auth: %v", err)
		}
		srv.Auth = auth
	}

	if redisUrl != "" {
		srv.ViewStore = storage.NewViewStateStore(redisUrl, redisPassword, 0)
		restoreViewStates(srv.ViewStore)
		log.Printf("View state distribution enabled, url: %s", redisUrl)
	}

	if rabbitUrl != "" && clientName == "" {
		log.Println("Starting as master")
		master := &messaging.GridTransportMaster{RabbitConfig: rabbitConfig}
		if err := master.Connect(); err != nil {
			log.Printf("Failed to connect to RabbitMQ as master, %v", err)
		} else {
			log.Print("Connected to RabbitMQ as master")
			handler := &messaging.RabbitViewChangeHandler{Master: master}
			for _, view := range registry.Views() {
				view.AddListener(handler)
			}
		}
	} else if rabbitUrl != "" {
		log.Printf("Starting as client: %s", clientName)
		client := &messaging.GridTransportClient{
			ClientName:   clientName,
			RabbitConfig: rabbitConfig,
		}
		if err := client.Connect(registry); err != nil {
			log.Fatalf("Failed to connect to RabbitMQ as client, %v", err)
		}
	} else {
		log.Println("Starting as standalone")
	}

	debugMux := http.NewServeMux()
	debugMux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	debugMux.Handle("/metrics", promhttp.Handler())
	if enableProfiling != nil && *enableProfiling {
		log.Println("Profiling enabled")
		debugMux.HandleFunc("/debug/pprof/", pprof.Index)
		debugMux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
		debugMux.HandleFunc("/debug/pprof/profile", pprof.Profile)
		debugMux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
		debugMux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	}
	go func() {
		log.Printf("Starting debug server %v", debugAddress)
		log.Fatal(http.ListenAndServe(debugAddress, debugMux))
	}()

	mux := http.NewServeMux()
	mux.Handle("/admin/", http.StripPrefix("/admin", srv.AdminHandler()))
	mux.Handle("/api/", http.StripPrefix("/api", srv.ClientHandler()))

	timeouts := common.LoadTimeoutConfig(common.TimeoutConfig{
		ReadHeader: 10 * time.Second,
		Read:       30 * time.Second,
		Write:      60 * time.Second,
		Idle:       120 * time.Second,
		Shutdown:   30 * time.Second,
		Hook:       10 * time.Second,
	})
	apiServer := common.NewServerWithTimeouts(&http.Server{
		Addr:    listenAddress,
		Handler: mux,
	}, timeouts)

	common.RunServerWithShutdown(apiServer, "grid api", timeouts.Shutdown, timeouts.Hook,
		func(ctx context.Context) error {
			return disk.SaveViews(registry)
		},
	)
}
