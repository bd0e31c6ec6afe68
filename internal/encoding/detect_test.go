package encoding_test

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/MrJamesThe3rd/supersaver/internal/encoding"
)

func TestDetect(t *testing.T) {
	header := "Code,Name,Price,Size,Unused,Expiry,Manufacturer,Discount\n"
	row := "A1,Crème brûlée,4.50,200g,,2025-01-01,Pâtisserie Açores,0\n"

	latin1, err := charmap.Windows1252.NewEncoder().Bytes([]byte(header + row))
	require.NoError(t, err)

	type testCase struct {
		name        string
		input       []byte
		wantCharset encoding.Charset
		want        string
	}

	tests := []testCase{
		{
			name:        "UTF8Passthrough",
			input:       []byte(header + row),
			wantCharset: encoding.CharsetUTF8,
			want:        header + row,
		},
		{
			name:        "UTF8BOMStripped",
			input:       append([]byte{0xEF, 0xBB, 0xBF}, []byte(header)...),
			wantCharset: encoding.CharsetUTF8BOM,
			want:        header,
		},
		{
			// chardet may name a sibling single-byte charset; only the text matters.
			name:  "Windows1252",
			input: latin1,
			want:  header + row,
		},
		{
			name:        "Empty",
			input:       nil,
			wantCharset: encoding.CharsetUTF8,
			want:        "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, charset, err := encoding.Detect(bytes.NewReader(tt.input))
			require.NoError(t, err)

			if tt.wantCharset != "" {
				assert.Equal(t, tt.wantCharset, charset)
			}

			got, err := io.ReadAll(r)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestNewUTF8Reader_LargeInput(t *testing.T) {
	// Larger than the sniff window; the tail must survive intact.
	input := bytes.Repeat([]byte("A1,Milk,1.00,1l,,2025-01-01,Dairy Co,0\n"), 500)

	r, err := encoding.NewUTF8Reader(bytes.NewReader(input))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, input, got)
}
