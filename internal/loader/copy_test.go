package loader

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuoteTable(t *testing.T) {
	tests := []struct {
		name  string
		table string
		want  string
	}{
		{name: "bare", table: "taq_trades", want: `"taq_trades"`},
		{name: "schema qualified", table: "market.taq_trades", want: `"market"."taq_trades"`},
		{name: "embedded quote", table: `trades"; DROP TABLE x; --`, want: `"trades""; DROP TABLE x; --"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, quoteTable(tt.table))
		})
	}
}

func TestEscapeDelimiter(t *testing.T) {
	assert.Equal(t, "|", escapeDelimiter("|"))
	assert.Equal(t, "''", escapeDelimiter("'"))
}
