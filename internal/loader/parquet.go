package loader

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"

	"github.com/leengari/pivotgrid/internal/domain/data"
)

// readParquet reads the whole file into an Arrow table and formats each
// cell as text
func readParquet(path string) ([]string, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	pf, err := file.NewParquetReader(f, file.WithReadProps(&parquet.ReaderProperties{}))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create parquet reader: %w", err)
	}
	defer pf.Close()

	mem := memory.NewGoAllocator()
	arrowReader, err := pqarrow.NewFileReader(pf, pqarrow.ArrowReadProperties{}, mem)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create arrow reader: %w", err)
	}

	table, err := arrowReader.ReadTable(context.Background())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read parquet data: %w", err)
	}
	defer table.Release()

	schema := table.Schema()
	header := make([]string, schema.NumFields())
	for i, field := range schema.Fields() {
		header[i] = field.Name
	}

	records := make([][]string, 0, table.NumRows())
	tr := array.NewTableReader(table, max(table.NumRows(), 1))
	defer tr.Release()

	for tr.Next() {
		rec := tr.Record()
		for rowIdx := 0; rowIdx < int(rec.NumRows()); rowIdx++ {
			row := make([]string, rec.NumCols())
			for colIdx, col := range rec.Columns() {
				row[colIdx] = formatValue(col, rowIdx)
			}
			records = append(records, row)
		}
	}
	if err := tr.Err(); err != nil {
		return nil, nil, fmt.Errorf("error reading table: %w", err)
	}
	return header, records, nil
}

// formatValue converts an Arrow column value at a specific position to
// the text a CSV of the same data would hold
func formatValue(col arrow.Array, pos int) string {
	if col.IsNull(pos) {
		return ""
	}

	switch c := col.(type) {
	case *array.String:
		return c.Value(pos)
	case *array.LargeString:
		return c.Value(pos)
	case *array.Binary:
		return string(c.Value(pos))
	case *array.Boolean:
		return strconv.FormatBool(c.Value(pos))
	case *array.Int8:
		return strconv.FormatInt(int64(c.Value(pos)), 10)
	case *array.Int16:
		return strconv.FormatInt(int64(c.Value(pos)), 10)
	case *array.Int32:
		return strconv.FormatInt(int64(c.Value(pos)), 10)
	case *array.Int64:
		return strconv.FormatInt(c.Value(pos), 10)
	case *array.Uint8:
		return strconv.FormatUint(uint64(c.Value(pos)), 10)
	case *array.Uint16:
		return strconv.FormatUint(uint64(c.Value(pos)), 10)
	case *array.Uint32:
		return strconv.FormatUint(uint64(c.Value(pos)), 10)
	case *array.Uint64:
		return strconv.FormatUint(c.Value(pos), 10)
	case *array.Float32:
		return data.FormatNumber(float64(c.Value(pos)))
	case *array.Float64:
		return data.FormatNumber(c.Value(pos))
	case *array.Date32:
		return c.Value(pos).ToTime().Format("2006-01-02")
	case *array.Date64:
		return c.Value(pos).ToTime().Format("2006-01-02")
	case *array.Timestamp:
		unit := c.DataType().(*arrow.TimestampType).Unit
		return c.Value(pos).ToTime(unit).Format("2006-01-02 15:04:05.999999999")
	default:
		return c.ValueStr(pos)
	}
}
