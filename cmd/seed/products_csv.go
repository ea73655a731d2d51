package main

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/estoque-escolar/internal/application/dto"
)

var productColumns = []string{"name", "unit", "quantity", "min_stock", "category"}

type productRow struct {
	line    int
	request dto.CreateProductRequest
}

// readProducts decodifica el CSV de productos. Las filas se validan después, en el caso de uso.
func readProducts(r io.Reader, charset string) ([]productRow, error) {
	switch strings.ToLower(charset) {
	case "", "utf8", "utf-8":
	case "latin1", "iso-8859-1", "windows-1252", "cp1252":
		r = transform.NewReader(r, charmap.Windows1252.NewDecoder())
	default:
		return nil, fmt.Errorf("charset no soportado: %q", charset)
	}

	br := bufio.NewReader(r)
	// BOM de Excel en UTF-8.
	if b, err := br.Peek(3); err == nil && string(b) == "\xef\xbb\xbf" {
		_, _ = br.Discard(3)
	}
	sep, err := detectSeparator(br)
	if err != nil {
		return nil, err
	}

	cr := csv.NewReader(br)
	cr.Comma = sep
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("cabecera: %w", err)
	}
	index, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	var rows []productRow
	line := 1
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", line, err)
		}
		get := func(col string) string { return strings.TrimSpace(rec[index[col]]) }
		qty, err := atoiDefault(get("quantity"))
		if err != nil {
			return nil, fmt.Errorf("línea %d: quantity: %w", line, err)
		}
		minStock, err := atoiDefault(get("min_stock"))
		if err != nil {
			return nil, fmt.Errorf("línea %d: min_stock: %w", line, err)
		}
		rows = append(rows, productRow{line: line, request: dto.CreateProductRequest{
			Name:     get("name"),
			Unit:     get("unit"),
			Quantity: qty,
			MinStock: minStock,
			Category: get("category"),
		}})
	}
	return rows, nil
}

// detectSeparator elige ';' si la cabecera lo usa (Excel pt-BR) y ',' en otro caso.
func detectSeparator(br *bufio.Reader) (rune, error) {
	head, err := br.Peek(1024)
	if err != nil && !errors.Is(err, io.EOF) {
		return 0, err
	}
	first, _, _ := strings.Cut(string(head), "\n")
	if strings.Count(first, ";") > strings.Count(first, ",") {
		return ';', nil
	}
	return ',', nil
}

func columnIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range productColumns {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("falta la columna %q", col)
		}
	}
	return index, nil
}

func atoiDefault(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}
