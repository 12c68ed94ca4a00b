// Package export writes sweep rows to Parquet files and reads them back.
//
// Files hold one row per repetition; summaries are computed at query time.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress"
	"github.com/xtxerr/extsort/internal/errors"
	"github.com/xtxerr/extsort/internal/stats"
)

// Standard file names inside an export directory.
const (
	AlphaFile = "alpha.parquet"
	BetaFile  = "beta.parquet"
)

// Options configures the Parquet writers.
type Options struct {
	// Compression algorithm
	Compression CompressionType
}

// CompressionType represents a Parquet compression algorithm.
type CompressionType int

const (
	CompressionNone CompressionType = iota
	CompressionSnappy
	CompressionZstd
	CompressionGzip
)

// DefaultOptions returns default Parquet options.
func DefaultOptions() Options {
	return Options{Compression: CompressionZstd}
}

// ParseCompressionType parses a compression type string.
func ParseCompressionType(s string) (CompressionType, error) {
	switch s {
	case "snappy":
		return CompressionSnappy, nil
	case "zstd":
		return CompressionZstd, nil
	case "gzip":
		return CompressionGzip, nil
	case "none", "":
		return CompressionNone, nil
	default:
		return CompressionNone, errors.NewValidation("compression", fmt.Sprintf("unknown codec %q", s))
	}
}

func codec(ct CompressionType) compress.Codec {
	switch ct {
	case CompressionSnappy:
		return &parquet.Snappy
	case CompressionZstd:
		return &parquet.Zstd
	case CompressionGzip:
		return &parquet.Gzip
	default:
		return &parquet.Uncompressed
	}
}

// AlphaRecord is an alpha row in Parquet format.
type AlphaRecord struct {
	Strategy     string  `parquet:"strategy,dict"`
	Runs         int64   `parquet:"runs"`
	Repetition   int32   `parquet:"repetition"`
	FileCount    int32   `parquet:"file_count"`
	MemoryBudget int32   `parquet:"memory_budget"`
	Phases       int32   `parquet:"phases"`
	Dummies      int64   `parquet:"dummies"`
	Writes       int64   `parquet:"writes"`
	Alpha        float64 `parquet:"alpha"`
}

// BetaRecord is a beta row in Parquet format.
type BetaRecord struct {
	Budget     int32   `parquet:"budget"`
	Repetition int32   `parquet:"repetition"`
	InputSize  int64   `parquet:"input_size"`
	Runs       int64   `parquet:"runs"`
	MeanLength float64 `parquet:"mean_length"`
	Beta       float64 `parquet:"beta"`
	P50        float64 `parquet:"p50"`
	P90        float64 `parquet:"p90"`
	P99        float64 `parquet:"p99"`
	Shortest   int64   `parquet:"shortest"`
	Longest    int64   `parquet:"longest"`
}

// AlphaToRecord converts an alpha row.
func AlphaToRecord(r *stats.AlphaRow) AlphaRecord {
	return AlphaRecord{
		Strategy:     r.Strategy,
		Runs:         int64(r.Runs),
		Repetition:   int32(r.Repetition),
		FileCount:    int32(r.FileCount),
		MemoryBudget: int32(r.MemoryBudget),
		Phases:       int32(r.Phases),
		Dummies:      int64(r.Dummies),
		Writes:       int64(r.Writes),
		Alpha:        r.Alpha,
	}
}

// RecordToAlpha converts an alpha record back.
func RecordToAlpha(r *AlphaRecord) stats.AlphaRow {
	return stats.AlphaRow{
		Strategy:     r.Strategy,
		Runs:         int(r.Runs),
		Repetition:   int(r.Repetition),
		FileCount:    int(r.FileCount),
		MemoryBudget: int(r.MemoryBudget),
		Phases:       int(r.Phases),
		Dummies:      int(r.Dummies),
		Writes:       int(r.Writes),
		Alpha:        r.Alpha,
	}
}

// BetaToRecord converts a beta row.
func BetaToRecord(r *stats.BetaRow) BetaRecord {
	return BetaRecord{
		Budget:     int32(r.Budget),
		Repetition: int32(r.Repetition),
		InputSize:  int64(r.InputSize),
		Runs:       int64(r.Runs),
		MeanLength: r.MeanLength,
		Beta:       r.Beta,
		P50:        r.P50,
		P90:        r.P90,
		P99:        r.P99,
		Shortest:   int64(r.Shortest),
		Longest:    int64(r.Longest),
	}
}

// RecordToBeta converts a beta record back.
func RecordToBeta(r *BetaRecord) stats.BetaRow {
	return stats.BetaRow{
		Budget:     int(r.Budget),
		Repetition: int(r.Repetition),
		InputSize:  int(r.InputSize),
		Runs:       int(r.Runs),
		MeanLength: r.MeanLength,
		Beta:       r.Beta,
		P50:        r.P50,
		P90:        r.P90,
		P99:        r.P99,
		Shortest:   int(r.Shortest),
		Longest:    int(r.Longest),
	}
}

// Writer writes records of one type to a Parquet file.
type Writer[R any] struct {
	mu       sync.Mutex
	path     string
	file     *os.File
	writer   *parquet.GenericWriter[R]
	rowCount int64
	closed   bool
}

// AlphaWriter writes alpha rows.
type AlphaWriter struct {
	*Writer[AlphaRecord]
}

// BetaWriter writes beta rows.
type BetaWriter struct {
	*Writer[BetaRecord]
}

// NewAlphaWriter creates an alpha Parquet writer at path.
func NewAlphaWriter(path string, opts Options) (*AlphaWriter, error) {
	w, err := newWriter[AlphaRecord](path, opts)
	if err != nil {
		return nil, err
	}
	return &AlphaWriter{w}, nil
}

// Write writes alpha rows.
func (w *AlphaWriter) Write(rows []stats.AlphaRow) error {
	recs := make([]AlphaRecord, len(rows))
	for i := range rows {
		recs[i] = AlphaToRecord(&rows[i])
	}
	return w.write(recs)
}

// NewBetaWriter creates a beta Parquet writer at path.
func NewBetaWriter(path string, opts Options) (*BetaWriter, error) {
	w, err := newWriter[BetaRecord](path, opts)
	if err != nil {
		return nil, err
	}
	return &BetaWriter{w}, nil
}

// Write writes beta rows.
func (w *BetaWriter) Write(rows []stats.BetaRow) error {
	recs := make([]BetaRecord, len(rows))
	for i := range rows {
		recs[i] = BetaToRecord(&rows[i])
	}
	return w.write(recs)
}

func newWriter[R any](path string, opts Options) (*Writer[R], error) {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create file: %w", err)
	}

	writer := parquet.NewGenericWriter[R](f, parquet.Compression(codec(opts.Compression)))

	return &Writer[R]{
		path:   path,
		file:   f,
		writer: writer,
	}, nil
}

func (w *Writer[R]) write(recs []R) error {
	if len(recs) == 0 {
		return nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return errors.ErrWriterClosed
	}

	n, err := w.writer.Write(recs)
	if err != nil {
		return fmt.Errorf("write rows: %w", err)
	}

	w.rowCount += int64(n)
	return nil
}

// Close flushes and closes the file.
func (w *Writer[R]) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true

	if err := w.writer.Close(); err != nil {
		w.file.Close()
		return fmt.Errorf("close writer: %w", err)
	}

	return w.file.Close()
}

// RowCount returns the number of rows written.
func (w *Writer[R]) RowCount() int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.rowCount
}

// Path returns the file path.
func (w *Writer[R]) Path() string {
	return w.path
}

// WriteAlpha writes rows to a new alpha file at path.
func WriteAlpha(path string, rows []stats.AlphaRow, opts Options) error {
	w, err := NewAlphaWriter(path, opts)
	if err != nil {
		return err
	}
	if err := w.Write(rows); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

// WriteBeta writes rows to a new beta file at path.
func WriteBeta(path string, rows []stats.BetaRow, opts Options) error {
	w, err := NewBetaWriter(path, opts)
	if err != nil {
		return err
	}
	if err := w.Write(rows); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}
