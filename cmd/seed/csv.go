package main

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/sistema-facturacion/internal/domain/entity"
)

const (
	columns  = 7
	peekSize = 4096
)

// readProducts lee el CSV separado por ';'. Si el contenido no es UTF-8 válido se decodifica
// como ISO-8859-1, que es como exporta la hoja de cálculo del sistema anterior.
func readProducts(r io.Reader) ([]*entity.Product, error) {
	br := bufio.NewReader(r)
	head, _ := br.Peek(peekSize)
	var in io.Reader = br
	if !validUTF8Prefix(head, len(head) < peekSize) {
		in = transform.NewReader(br, charmap.ISO8859_1.NewDecoder())
	}

	cr := csv.NewReader(in)
	cr.Comma = ';'
	cr.FieldsPerRecord = columns
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	firstLine := 1
	if len(records) > 0 && strings.EqualFold(strings.TrimPrefix(records[0][0], "\ufeff"), "codigo") {
		records = records[1:]
		firstLine = 2
	}

	out := make([]*entity.Product, 0, len(records))
	for i, rec := range records {
		p, err := parseRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", i+firstLine, err)
		}
		out = append(out, p)
	}
	return out, nil
}

// validUTF8Prefix indica si b es UTF-8 válido. Si b es solo el comienzo del archivo
// (complete == false), se ignora una runa multibyte cortada al final.
func validUTF8Prefix(b []byte, complete bool) bool {
	if !complete {
		for i := len(b) - 1; i >= 0 && i >= len(b)-utf8.UTFMax+1; i-- {
			if utf8.RuneStart(b[i]) {
				if !utf8.FullRune(b[i:]) {
					b = b[:i]
				}
				break
			}
		}
	}
	return utf8.Valid(b)
}

func parseRecord(rec []string) (*entity.Product, error) {
	price, err := parseDecimal(rec[3])
	if err != nil {
		return nil, fmt.Errorf("precio %q: %w", rec[3], err)
	}
	stock, err := strconv.Atoi(strings.TrimSpace(rec[4]))
	if err != nil {
		return nil, fmt.Errorf("stock %q: %w", rec[4], err)
	}

	p := entity.NewProductWith(strings.TrimSpace(rec[0]), strings.TrimSpace(rec[1]), price, stock)
	p.Description = strings.TrimSpace(rec[2])
	if s := strings.TrimSpace(rec[5]); s != "" {
		if p.MinStock, err = strconv.Atoi(s); err != nil {
			return nil, fmt.Errorf("stock_minimo %q: %w", rec[5], err)
		}
	}
	if s := strings.TrimSpace(rec[6]); s != "" {
		if p.TaxPercent, err = parseDecimal(s); err != nil {
			return nil, fmt.Errorf("iva %q: %w", rec[6], err)
		}
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// parseDecimal acepta coma o punto como separador decimal.
func parseDecimal(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(s), ",", "."))
}
