package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

func TestReadProducts_UTF8(t *testing.T) {
	csv := "\xef\xbb\xbfname,unit,quantity,min_stock,category\n" +
		"Lápis preto,caixa,10,2,Papelaria\n" +
		"Cola branca,tubo,,1,\n"

	rows, err := readProducts(strings.NewReader(csv), "utf8")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Lápis preto", rows[0].request.Name)
	assert.Equal(t, 10, rows[0].request.Quantity)
	assert.Equal(t, 2, rows[0].request.MinStock)
	assert.Equal(t, 0, rows[1].request.Quantity, "vacío cuenta como cero")
	assert.Equal(t, 3, rows[1].line)
}

func TestReadProducts_Latin1PuntoYComa(t *testing.T) {
	src := "category;name;unit;quantity;min_stock\nEscritório;Régua 30cm;unidade;5;1\n"
	encoded, err := charmap.Windows1252.NewEncoder().String(src)
	require.NoError(t, err)

	rows, err := readProducts(bytes.NewReader([]byte(encoded)), "latin1")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Régua 30cm", rows[0].request.Name)
	assert.Equal(t, "Escritório", rows[0].request.Category)
}

func TestReadProducts_Errores(t *testing.T) {
	_, err := readProducts(strings.NewReader("name,unit\nX,Y\n"), "utf8")
	assert.ErrorContains(t, err, "quantity")

	_, err = readProducts(strings.NewReader("name,unit,quantity,min_stock,category\nX,Y,muitos,0,Z\n"), "utf8")
	assert.ErrorContains(t, err, "línea 2")

	_, err = readProducts(strings.NewReader(""), "ebcdic")
	assert.Error(t, err)
}
