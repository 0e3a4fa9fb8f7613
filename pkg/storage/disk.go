package storage

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"

	"github.com/matst80/slask-grid/pkg/common/jsoncompat"
	"github.com/matst80/slask-grid/pkg/dataview"
	"github.com/matst80/slask-grid/pkg/types"
)

const snapshotSuffix = ".grid.gz"

// Snapshot is the on-disk form of one grid: its configuration, columns and
// source rows. Directive state lives in redis, not here.
type Snapshot struct {
	Name    string           `json:"name"`
	Options dataview.Options `json:"options"`
	Columns []*types.Column  `json:"columns"`
	Rows    []types.Row      `json:"rows"`
}

type DiskStorage struct {
	Name       string
	RootFolder string
}

func NewDiskStorage(name, rootFolder string) *DiskStorage {
	return &DiskStorage{
		Name:       name,
		RootFolder: rootFolder,
	}
}

// GetFileName returns the final path and a unique tmp path; writes go to the
// tmp file and get renamed into place so readers never see a partial file.
func (d *DiskStorage) GetFileName(name string) (string, string) {
	fileName := path.Join(d.RootFolder, d.Name, name)
	tmpFileName := fileName + ".tmp-" + fmt.Sprintf("%d", time.Now().UnixMilli())
	return fileName, tmpFileName
}

func (d *DiskStorage) SaveGzippedJson(data any, filename string) error {
	fileName, tmpFileName := d.GetFileName(filename)
	if err := os.MkdirAll(path.Dir(fileName), 0755); err != nil {
		return err
	}
	file, err := os.Create(tmpFileName)
	if err != nil {
		return err
	}

	zipWriter := gzip.NewWriter(file)
	payload, err := jsoncompat.Marshal(data)
	if err == nil {
		_, err = zipWriter.Write(payload)
	}
	if closeErr := zipWriter.Close(); err == nil {
		err = closeErr
	}
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(tmpFileName)
		return err
	}
	return os.Rename(tmpFileName, fileName)
}

func (d *DiskStorage) LoadGzippedJson(data any, filename string) error {
	name, _ := d.GetFileName(filename)
	file, err := os.Open(name)
	if err != nil {
		return err
	}
	defer file.Close()

	zipReader, err := gzip.NewReader(file)
	if err != nil {
		return err
	}
	defer zipReader.Close()

	payload, err := io.ReadAll(zipReader)
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return jsoncompat.Unmarshal(payload, data)
}

func (d *DiskStorage) SaveSnapshot(snapshot *Snapshot) error {
	return d.SaveGzippedJson(snapshot, snapshot.Name+snapshotSuffix)
}

func (d *DiskStorage) LoadSnapshot(name string) (*Snapshot, error) {
	snapshot := &Snapshot{}
	if err := d.LoadGzippedJson(snapshot, name+snapshotSuffix); err != nil {
		return nil, err
	}
	if snapshot.Name == "" {
		snapshot.Name = name
	}
	return snapshot, nil
}

// ListSnapshots returns the grid names with a snapshot on disk.
func (d *DiskStorage) ListSnapshots() ([]string, error) {
	dir := path.Join(d.RootFolder, d.Name)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), snapshotSuffix) {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), snapshotSuffix))
	}
	return names, nil
}

// SaveViews snapshots every view in the registry, logging and continuing on
// per-grid failures so one broken grid does not lose the rest.
func (d *DiskStorage) SaveViews(registry *dataview.Registry) error {
	var lastErr error
	for _, view := range registry.Views() {
		snapshot := &Snapshot{
			Name:    view.Name(),
			Options: view.Options(),
			Columns: view.Columns(),
			Rows:    view.SourceRows(),
		}
		if err := d.SaveSnapshot(snapshot); err != nil {
			log.Printf("failed to save grid %s: %v", snapshot.Name, err)
			lastErr = err
		}
	}
	return lastErr
}

// LoadViews restores every snapshot on disk into the registry.
func (d *DiskStorage) LoadViews(registry *dataview.Registry) error {
	names, err := d.ListSnapshots()
	if err != nil {
		return err
	}
	for _, name := range names {
		snapshot, err := d.LoadSnapshot(name)
		if err != nil {
			log.Printf("failed to load grid %s: %v", name, err)
			continue
		}
		view := dataview.NewView(snapshot.Name, snapshot.Columns, snapshot.Options)
		view.SetRows(snapshot.Rows)
		registry.Register(view)
		log.Printf("loaded grid %s with %d rows", snapshot.Name, view.SourceLen())
	}
	return nil
}
