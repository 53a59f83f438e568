package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"
)

var ErrNotFound = errors.New("storage: snapshot not found")

type Store struct {
	baseDir string
	now     func() time.Time
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir, now: time.Now}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

func (s *Store) Dir() string { return s.baseDir }

type SnapshotMetadata struct {
	ID         string             `json:"id"`
	Kind       string             `json:"kind"`
	Preset     string             `json:"preset"`
	Timestamp  time.Time          `json:"timestamp"`
	Seed       int64              `json:"seed"`
	Width      int                `json:"width"`
	Height     int                `json:"height"`
	PixelRatio float64            `json:"pixel_ratio"`
	Frames     int                `json:"frames"`
	Format     string             `json:"format,omitempty"`
	File       string             `json:"file,omitempty"`
	Metrics    map[string]float64 `json:"metrics,omitempty"`
}

// Save creates a new entry. When write is non-nil its output is stored as
// frame.<meta.Format>. The returned ID names the entry.
func (s *Store) Save(meta SnapshotMetadata, write func(io.Writer) error) (string, error) {
	if err := s.Init(); err != nil {
		return "", err
	}
	meta.Timestamp = s.now()
	id, dir, err := s.newEntry(meta.Kind, meta.Timestamp)
	if err != nil {
		return "", err
	}
	meta.ID = id

	if write != nil {
		if meta.Format == "" {
			meta.Format = "png"
		}
		meta.File = "frame." + meta.Format
		f, err := os.Create(filepath.Join(dir, meta.File))
		if err != nil {
			return "", err
		}
		if err := write(f); err != nil {
			f.Close()
			return "", fmt.Errorf("storage: write %s: %w", meta.File, err)
		}
		if err := f.Close(); err != nil {
			return "", err
		}
	}

	metaFile, err := os.Create(filepath.Join(dir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) newEntry(kind string, ts time.Time) (string, string, error) {
	if kind == "" {
		kind = "snapshot"
	}
	base := fmt.Sprintf("%s_%d", kind, ts.Unix())
	for i := 0; ; i++ {
		id := base
		if i > 0 {
			id = fmt.Sprintf("%s_%d", base, i)
		}
		dir := filepath.Join(s.baseDir, id)
		err := os.Mkdir(dir, 0755)
		if err == nil {
			return id, dir, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return "", "", err
		}
	}
}

// List returns every readable entry, oldest first.
func (s *Store) List() ([]SnapshotMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []SnapshotMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]SnapshotMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}
	sort.SliceStable(runs, func(i, j int) bool {
		if runs[i].Timestamp.Equal(runs[j].Timestamp) {
			return runs[i].ID < runs[j].ID
		}
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(id string) (*SnapshotMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, id, "metadata.json"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, err
	}

	var meta SnapshotMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("storage: metadata %s: %w", id, err)
	}
	return &meta, nil
}

// FramePath returns the stored frame of an entry.
func (s *Store) FramePath(id string) (string, error) {
	meta, err := s.Load(id)
	if err != nil {
		return "", err
	}
	if meta.File == "" {
		return "", fmt.Errorf("%w: %s has no frame", ErrNotFound, id)
	}
	return filepath.Join(s.baseDir, id, meta.File), nil
}

// SaveFrameTimes writes per-frame durations in milliseconds to frames.csv.
func (s *Store) SaveFrameTimes(id string, ms []float64) error {
	if _, err := s.Load(id); err != nil {
		return err
	}
	f, err := os.Create(filepath.Join(s.baseDir, id, "frames.csv"))
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"frame", "ms"}); err != nil {
		return err
	}
	for i, v := range ms {
		if err := w.Write([]string{strconv.Itoa(i), strconv.FormatFloat(v, 'f', 6, 64)}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func (s *Store) LoadFrameTimes(id string) ([]float64, error) {
	file, err := os.Open(filepath.Join(s.baseDir, id, "frames.csv"))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s frame times", ErrNotFound, id)
		}
		return nil, err
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []float64{}, nil
	}

	out := make([]float64, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) < 2 {
			continue
		}
		v, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}
