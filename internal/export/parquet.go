package export

import (
	"fmt"
	"io"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"
	"github.com/shopspring/decimal"

	"github.com/Rana718/retailsim/internal/dataset"
)

// parquetChunkRows is the number of rows per written record batch.
const parquetChunkRows = 10000

func arrowType(k dataset.Kind) arrow.DataType {
	switch k {
	case dataset.KindInt:
		return arrow.PrimitiveTypes.Int64
	case dataset.KindDecimal:
		return arrow.PrimitiveTypes.Float64
	case dataset.KindBool:
		return arrow.FixedWidthTypes.Boolean
	case dataset.KindDate:
		return arrow.FixedWidthTypes.Date32
	default:
		return arrow.BinaryTypes.String
	}
}

func ParquetSchema() *arrow.Schema {
	fields := make([]arrow.Field, len(dataset.Columns))
	for i, c := range dataset.Columns {
		fields[i] = arrow.Field{Name: c.Name, Type: arrowType(c.Kind), Nullable: true}
	}
	return arrow.NewSchema(fields, nil)
}

func WriteParquet(w io.Writer, t *dataset.Table) error {
	mem := memory.NewGoAllocator()
	schema := ParquetSchema()

	// pqarrow closes a sink that implements io.Closer; the caller owns w.
	sink := struct{ io.Writer }{w}
	writer, err := pqarrow.NewFileWriter(schema, sink, nil, pqarrow.NewArrowWriterProperties(pqarrow.WithAllocator(mem)))
	if err != nil {
		return fmt.Errorf("failed to create parquet writer: %w", err)
	}

	b := array.NewRecordBuilder(mem, schema)
	defer b.Release()

	for start := 0; start < t.Len(); start += parquetChunkRows {
		for _, rec := range t.Page(start, parquetChunkRows) {
			for i, v := range rec {
				if err := appendValue(b.Field(i), v); err != nil {
					writer.Close()
					return fmt.Errorf("column %s: %w", dataset.Columns[i].Name, err)
				}
			}
		}
		batch := b.NewRecord()
		err := writer.Write(batch)
		batch.Release()
		if err != nil {
			writer.Close()
			return fmt.Errorf("failed to write parquet rows: %w", err)
		}
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}
	return nil
}

func appendValue(fb array.Builder, v any) error {
	if v == nil {
		fb.AppendNull()
		return nil
	}
	switch b := fb.(type) {
	case *array.StringBuilder:
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("expected string, got %T", v)
		}
		b.Append(s)
	case *array.Int64Builder:
		n, ok := v.(int)
		if !ok {
			return fmt.Errorf("expected int, got %T", v)
		}
		b.Append(int64(n))
	case *array.Float64Builder:
		d, ok := v.(decimal.Decimal)
		if !ok {
			return fmt.Errorf("expected decimal, got %T", v)
		}
		b.Append(d.InexactFloat64())
	case *array.BooleanBuilder:
		flag, ok := v.(bool)
		if !ok {
			return fmt.Errorf("expected bool, got %T", v)
		}
		b.Append(flag)
	case *array.Date32Builder:
		day, ok := v.(time.Time)
		if !ok {
			return fmt.Errorf("expected date, got %T", v)
		}
		b.Append(arrow.Date32FromTime(day))
	default:
		return fmt.Errorf("unsupported builder %T", fb)
	}
	return nil
}
