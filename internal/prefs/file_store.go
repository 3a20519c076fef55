package prefs

import (
	"betcodes/internal/providers"
	"fmt"
	json "github.com/goccy/go-json"
	"os"
	"sync"
	"time"
)

const snapshotVersion = 1

type snapshot struct {
	Version int              `json:"version"`
	Values  map[string]int64 `json:"values"`
}

// FileStore keeps preferences in memory and writes a compressed snapshot
// through to disk on every change.
type FileStore struct {
	mu         sync.Mutex
	path       string
	values     map[Key]int64
	compressor Compressor
	logger     providers.Logger
	metrics    providers.MetricsProviderInterface
}

func NewFileStore(path string, compressor Compressor, logger providers.Logger, metrics providers.MetricsProviderInterface) *FileStore {
	return &FileStore{
		path:       path,
		values:     make(map[Key]int64),
		compressor: compressor,
		logger:     logger,
		metrics:    metrics,
	}
}

func (f *FileStore) GetInt64(key Key) (int64, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.values[key]
	return v, ok
}

func (f *FileStore) SetInt64(key Key, value int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[key] = value
	return f.saveLocked()
}

func (f *FileStore) Remove(keys ...Key) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	changed := false
	for _, k := range keys {
		if _, ok := f.values[k]; ok {
			delete(f.values, k)
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return f.saveLocked()
}

func (f *FileStore) Save() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saveLocked()
}

func (f *FileStore) saveLocked() error {
	start := time.Now()
	defer func() { f.metrics.ObservePersistenceDuration(time.Since(start)) }()

	snap := snapshot{Version: snapshotVersion, Values: make(map[string]int64, len(f.values))}
	for k, v := range f.values {
		snap.Values[k.String()] = v
	}

	jsonData, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	data, err := f.compressor.Compress(jsonData)
	if err != nil {
		return err
	}

	tmpFile := f.path + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	_, err = file.Write(data)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, f.path)
}

// Load replaces the in-memory values with the snapshot on disk.
// A missing file leaves the store empty.
func (f *FileStore) Load() error {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	decompressed, err := f.compressor.Decompress(data)
	if err != nil {
		return fmt.Errorf("decompress %s: %w", f.path, err)
	}

	var snap snapshot
	if err := json.Unmarshal(decompressed, &snap); err != nil {
		return fmt.Errorf("decode %s: %w", f.path, err)
	}
	if snap.Version != snapshotVersion {
		return fmt.Errorf("unsupported prefs snapshot version %d", snap.Version)
	}

	values := make(map[Key]int64, len(snap.Values))
	for name, v := range snap.Values {
		k, ok := keyByName(name)
		if !ok {
			f.logger.Warnf(providers.TypeApp, "Dropping unknown preference %q", name)
			continue
		}
		values[k] = v
	}

	f.mu.Lock()
	f.values = values
	f.mu.Unlock()
	return nil
}
