package main

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/jhoicas/sistema-facturacion/internal/domain"
	"github.com/jhoicas/sistema-facturacion/internal/domain/entity"
)

func TestReadProducts_UTF8ConEncabezado(t *testing.T) {
	in := "codigo;nombre;descripcion;precio;stock;stock_minimo;iva\n" +
		"PROD-001;Widget;Pieza azul;50,00;10;;\n" +
		"PROD-002;Cañería;;12.5;3;8;15\n"

	products, err := readProducts(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, products, 2)

	assert.Equal(t, "PROD-001", products[0].Code)
	assert.True(t, products[0].Price.Equal(decimal.NewFromInt(50)))
	assert.Equal(t, entity.DefaultMinStock, products[0].MinStock)
	assert.True(t, products[0].TaxPercent.Equal(entity.DefaultTaxPercent))
	assert.Equal(t, entity.StatusActive, products[0].Status)

	assert.Equal(t, "Cañería", products[1].Name)
	assert.Empty(t, products[1].Description)
	assert.Equal(t, 8, products[1].MinStock)
	assert.True(t, products[1].TaxPercent.Equal(decimal.NewFromInt(15)))
}

func TestReadProducts_ISO88591(t *testing.T) {
	latin1, err := charmap.ISO8859_1.NewEncoder().String("PROD-003;Tornillería;Caja de 100;1;100;10;12\n")
	require.NoError(t, err)

	products, err := readProducts(strings.NewReader(latin1))
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Tornillería", products[0].Name)
}

func TestReadProducts_Errores(t *testing.T) {
	_, err := readProducts(strings.NewReader("A;B;C;no-numero;1;1;1\n"))
	assert.ErrorContains(t, err, "línea 1")

	_, err = readProducts(strings.NewReader("A;B;C;1;1\n"))
	assert.Error(t, err, "número de columnas incorrecto")

	_, err = readProducts(strings.NewReader(";Sin código;;1;1;1;1\n"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestReadProducts_UTF8ConRunaEnElLimiteDelPeek(t *testing.T) {
	header := "codigo;nombre;descripcion;precio;stock;stock_minimo;iva\n"
	prefix := header + "PROD-001;Widget;"
	description := strings.Repeat("a", peekSize-1-len(prefix)) + "ñ"
	in := prefix + description + ";1;1;1;12\n" +
		"PROD-002;Cañería;;1;1;1;12\n"
	require.Equal(t, byte(0xC3), in[peekSize-1], "la ñ debe quedar partida por el peek")

	products, err := readProducts(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, description, products[0].Description)
	assert.Equal(t, "Cañería", products[1].Name)
}

func TestValidUTF8Prefix(t *testing.T) {
	enie := []byte("ñ")
	cut := append([]byte("abc"), enie[0])

	assert.True(t, validUTF8Prefix(cut, false), "runa cortada al final de un prefijo")
	assert.False(t, validUTF8Prefix(cut, true), "runa cortada en un archivo completo")
	assert.False(t, validUTF8Prefix([]byte{'a', 0xED, 'b'}, false), "byte ISO-8859-1 en medio")
	assert.True(t, validUTF8Prefix([]byte("Tornillería"), false))
}
