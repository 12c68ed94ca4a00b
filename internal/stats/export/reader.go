package export

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/parquet-go/parquet-go"
	"github.com/xtxerr/extsort/internal/stats"
)

// readAll reads every record of a Parquet file.
func readAll[R any](path string) ([]R, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	reader := parquet.NewGenericReader[R](f, parquet.ReadBufferSize(1024*1024))
	defer reader.Close()

	recs := make([]R, reader.NumRows())
	n, err := reader.Read(recs)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	return recs[:n], nil
}

// ReadAlpha reads every alpha row of the file at path.
func ReadAlpha(path string) ([]stats.AlphaRow, error) {
	recs, err := readAll[AlphaRecord](path)
	if err != nil {
		return nil, err
	}
	rows := make([]stats.AlphaRow, len(recs))
	for i := range recs {
		rows[i] = RecordToAlpha(&recs[i])
	}
	return rows, nil
}

// ReadBeta reads every beta row of the file at path.
func ReadBeta(path string) ([]stats.BetaRow, error) {
	recs, err := readAll[BetaRecord](path)
	if err != nil {
		return nil, err
	}
	rows := make([]stats.BetaRow, len(recs))
	for i := range recs {
		rows[i] = RecordToBeta(&recs[i])
	}
	return rows, nil
}
