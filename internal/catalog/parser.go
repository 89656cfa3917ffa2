package catalog

import (
	"bufio"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"autopartes/internal/model"

	"github.com/shopspring/decimal"
)

// Columns of a catalogue feed line, separated by ';'.
const (
	colCodigo = iota
	colMarca
	colCodigoMarca
	colNombre
	colCategoria
	colSubcategoria
	colPrecio
	colPrecioMayorista
	colStock
	columnCount
)

// Parse reads a gzipped catalogue feed. A header line starting with "codigo"
// is skipped, blank lines are ignored and malformed lines are reported as
// row errors without aborting the parse.
func Parse(ctx context.Context, r io.Reader) ([]model.Product, []RowError, error) {
	gzipReader, err := gzip.NewReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gzipReader.Close()

	scanner := bufio.NewScanner(gzipReader)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var (
		products  []model.Product
		rowErrors []RowError
	)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if lineNo%10_000 == 0 {
			select {
			case <-ctx.Done():
				return nil, nil, ctx.Err()
			default:
			}
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if lineNo == 1 && strings.HasPrefix(strings.ToLower(line), "codigo") {
			continue
		}

		p, err := parseLine(line)
		if err != nil {
			rowErrors = append(rowErrors, RowError{Line: lineNo, Message: err.Error()})
			continue
		}
		products = append(products, p)
	}

	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("error reading catalogue feed: %w", err)
	}

	return products, rowErrors, nil
}

func parseLine(line string) (model.Product, error) {
	fields := strings.Split(line, ";")
	if len(fields) != columnCount {
		return model.Product{}, fmt.Errorf("expected %d columns, got %d", columnCount, len(fields))
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}

	if fields[colCodigo] == "" {
		return model.Product{}, fmt.Errorf("codigo is empty")
	}
	if fields[colNombre] == "" {
		return model.Product{}, fmt.Errorf("nombre is empty")
	}

	precio, err := parsePrice(fields[colPrecio])
	if err != nil || precio <= 0 {
		return model.Product{}, fmt.Errorf("invalid precio %q", fields[colPrecio])
	}

	var mayorista *float64
	if fields[colPrecioMayorista] != "" {
		v, err := parsePrice(fields[colPrecioMayorista])
		if err != nil || v < 0 {
			return model.Product{}, fmt.Errorf("invalid precio_mayorista %q", fields[colPrecioMayorista])
		}
		if v > 0 {
			mayorista = &v
		}
	}

	stock := 0
	if fields[colStock] != "" {
		stock, err = strconv.Atoi(fields[colStock])
		if err != nil || stock < 0 {
			return model.Product{}, fmt.Errorf("invalid stock %q", fields[colStock])
		}
	}

	return model.Product{
		Codigo:          fields[colCodigo],
		Marca:           fields[colMarca],
		CodigoMarca:     fields[colCodigoMarca],
		Nombre:          fields[colNombre],
		Categoria:       fields[colCategoria],
		Subcategoria:    fields[colSubcategoria],
		Precio:          precio,
		PrecioMayorista: mayorista,
		Stock:           stock,
	}, nil
}

// parsePrice accepts "12990", "12990.50" and "12990,50".
func parsePrice(s string) (float64, error) {
	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", "."))
	if err != nil {
		return 0, err
	}
	return d.InexactFloat64(), nil
}
