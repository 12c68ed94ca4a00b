package export

import (
	"path/filepath"
	"reflect"
	"testing"

	"github.com/xtxerr/extsort/internal/errors"
	"github.com/xtxerr/extsort/internal/stats"
)

func alphaRows() []stats.AlphaRow {
	return []stats.AlphaRow{
		{Strategy: "balanced", Runs: 10, Repetition: 0, FileCount: 4, MemoryBudget: 3, Phases: 4, Writes: 50, Alpha: 5},
		{Strategy: "polyphase", Runs: 10, Repetition: 0, FileCount: 4, MemoryBudget: 3, Phases: 5, Dummies: 1, Writes: 46, Alpha: 4.6},
		{Strategy: "cascade", Runs: 10, Repetition: 1, FileCount: 4, MemoryBudget: 3, Phases: 4, Dummies: 3, Writes: 41, Alpha: 4.1},
	}
}

func TestAlphaWriter_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", AlphaFile)
	rows := alphaRows()

	w, err := NewAlphaWriter(path, DefaultOptions())
	if err != nil {
		t.Fatalf("NewAlphaWriter failed: %v", err)
	}
	if err := w.Write(rows[:2]); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := w.Write(rows[2:]); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if w.RowCount() != 3 {
		t.Errorf("expected 3 rows, got %d", w.RowCount())
	}
	if w.Path() != path {
		t.Errorf("Path = %q", w.Path())
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close failed: %v", err)
	}

	if err := w.Write(rows); !errors.Is(err, errors.ErrWriterClosed) {
		t.Errorf("expected ErrWriterClosed, got %v", err)
	}

	got, err := ReadAlpha(path)
	if err != nil {
		t.Fatalf("ReadAlpha failed: %v", err)
	}
	if !reflect.DeepEqual(got, rows) {
		t.Errorf("read back %+v, want %+v", got, rows)
	}
}

func TestWriteBeta_RoundTrip(t *testing.T) {
	rows := []stats.BetaRow{
		{Budget: 3, Repetition: 0, InputSize: 1000, Runs: 170, MeanLength: 5.88, Beta: 1.96, P50: 5, P90: 9, P99: 14, Shortest: 1, Longest: 17},
		{Budget: 15, Repetition: 1, InputSize: 1000, Runs: 34, MeanLength: 29.4, Beta: 1.96, P50: 28, P90: 40, P99: 52, Shortest: 9, Longest: 55},
	}

	for _, codec := range []string{"none", "snappy", "zstd", "gzip"} {
		t.Run(codec, func(t *testing.T) {
			ct, err := ParseCompressionType(codec)
			if err != nil {
				t.Fatalf("ParseCompressionType failed: %v", err)
			}

			path := filepath.Join(t.TempDir(), BetaFile)
			if err := WriteBeta(path, rows, Options{Compression: ct}); err != nil {
				t.Fatalf("WriteBeta failed: %v", err)
			}

			got, err := ReadBeta(path)
			if err != nil {
				t.Fatalf("ReadBeta failed: %v", err)
			}
			if !reflect.DeepEqual(got, rows) {
				t.Errorf("read back %+v, want %+v", got, rows)
			}
		})
	}
}

func TestWriteAlpha_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), AlphaFile)
	if err := WriteAlpha(path, nil, DefaultOptions()); err != nil {
		t.Fatalf("WriteAlpha failed: %v", err)
	}

	got, err := ReadAlpha(path)
	if err != nil {
		t.Fatalf("ReadAlpha failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no rows, got %d", len(got))
	}
}

func TestParseCompressionType(t *testing.T) {
	tests := []struct {
		in      string
		want    CompressionType
		wantErr bool
	}{
		{"", CompressionNone, false},
		{"none", CompressionNone, false},
		{"snappy", CompressionSnappy, false},
		{"zstd", CompressionZstd, false},
		{"gzip", CompressionGzip, false},
		{"brotli", CompressionNone, true},
	}

	for _, tt := range tests {
		got, err := ParseCompressionType(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseCompressionType(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if tt.wantErr && !errors.IsValidation(err) {
			t.Errorf("ParseCompressionType(%q) should be a validation error", tt.in)
		}
		if got != tt.want {
			t.Errorf("ParseCompressionType(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestReadAlpha_Missing(t *testing.T) {
	if _, err := ReadAlpha(filepath.Join(t.TempDir(), "missing.parquet")); err == nil {
		t.Error("expected error for missing file")
	}
}
