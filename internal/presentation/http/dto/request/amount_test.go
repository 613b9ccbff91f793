package request_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/declaramei/express-api/internal/presentation/http/dto/request"
)

func TestParseAmount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     string
		want    string
		wantNil bool
		wantErr bool
	}{
		{name: "number", raw: `100.5`, want: "100.50"},
		{name: "integer", raw: `0`, want: "0.00"},
		{name: "negative number", raw: `-1`, want: "-1.00"},
		{name: "dotted string", raw: `"25.90"`, want: "25.90"},
		{name: "comma string", raw: `"25,90"`, want: "25.90"},
		{name: "brazilian thousands", raw: `"R$ 1.234,56"`, want: "1234.56"},
		{name: "missing", raw: ``, wantNil: true},
		{name: "null", raw: `null`, wantNil: true},
		{name: "empty string", raw: `""`, wantErr: true},
		{name: "text", raw: `"abc"`, wantErr: true},
		{name: "boolean", raw: `true`, wantErr: true},
		{name: "trailing zero beyond cents", raw: `"10.500"`, want: "10.50"},
		{name: "fraction of a cent", raw: `"10.005"`, wantErr: true},
		{name: "fraction of a cent as number", raw: `0.001`, wantErr: true},
		{name: "fraction of a cent with comma", raw: `"1,999"`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := request.ParseAmount(json.RawMessage(tt.raw))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.wantNil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.StringFixed(2))
		})
	}
}
