package printer_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/declaramei/express-api/pkg/printer"
)

func TestBRL(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]string{
		"0":           "R$ 0,00",
		"2.5":         "R$ 2,50",
		"1234.5":      "R$ 1.234,50",
		"1234567.891": "R$ 1.234.567,89",
		"-5":          "-R$ 5,00",
		"999":         "R$ 999,00",
	} {
		assert.Equal(t, want, printer.BRL(decimal.RequireFromString(in)), in)
	}
}

func TestDocument_Lines(t *testing.T) {
	t.Parallel()

	doc := printer.NewDocument(32)
	doc.KeyValue("Total:", "R$ 50,00").
		ItemLine(2, "Bolo de pote - Chocolate com morango e creme", "R$ 24,00")

	lines := strings.Split(string(doc.Bytes()[2:]), "\n")
	require.GreaterOrEqual(t, len(lines), 2)
	assert.Len(t, lines[0], 32)
	assert.True(t, strings.HasSuffix(lines[0], "R$ 50,00"))
	assert.Len(t, lines[1], 32)
	assert.True(t, strings.HasPrefix(lines[1], "2x Bolo de pote"))
	assert.True(t, strings.HasSuffix(lines[1], " R$ 24,00"))
}

func TestNew(t *testing.T) {
	t.Parallel()

	p, err := printer.New(printer.TypeNone, "", "")
	require.NoError(t, err)
	require.NoError(t, p.Print(context.Background(), []byte("x")))
	assert.False(t, p.IsConnected(context.Background()))

	_, err = printer.New(printer.TypeUSB, "", "")
	require.Error(t, err)

	_, err = printer.New("serial", "", "")
	require.Error(t, err)

	doc := printer.NewDocument(0)
	assert.Equal(t, 32, doc.Width())
	assert.True(t, bytes.HasPrefix(doc.Bytes(), []byte{printer.ESC, '@'}))
}
