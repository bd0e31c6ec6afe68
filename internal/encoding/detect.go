package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Charset names the encoding an input was decoded from.
type Charset string

const (
	CharsetUTF8        Charset = "UTF-8"
	CharsetUTF8BOM     Charset = "UTF-8 (BOM)"
	CharsetUTF16LE     Charset = "UTF-16LE"
	CharsetUTF16BE     Charset = "UTF-16BE"
	CharsetWindows1252 Charset = "windows-1252"
	CharsetISO88599    Charset = "ISO-8859-9"
)

// sniffSize is how much of the input is inspected before deciding.
const sniffSize = 4096

var boms = []struct {
	prefix  []byte
	charset Charset
	decoder func() *encoding.Decoder
}{
	{[]byte{0xEF, 0xBB, 0xBF}, CharsetUTF8BOM, nil},
	{[]byte{0xFF, 0xFE}, CharsetUTF16LE, unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder},
	{[]byte{0xFE, 0xFF}, CharsetUTF16BE, unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder},
}

// chardetCharsets maps chardet results to the single-byte charsets we decode.
// Spreadsheet exports from till back offices are almost always one of these.
var chardetCharsets = map[string]Charset{
	"ISO-8859-1":   CharsetWindows1252,
	"windows-1252": CharsetWindows1252,
	"ISO-8859-9":   CharsetISO88599,
}

// Detect sniffs the start of r and returns a reader producing UTF-8 together
// with the charset it decided on.
//
// A BOM wins; otherwise valid UTF-8 passes through untouched; otherwise
// chardet picks a single-byte charset, falling back to Windows-1252.
func Detect(r io.Reader) (io.Reader, Charset, error) {
	br := bufio.NewReaderSize(r, sniffSize)

	head, err := br.Peek(sniffSize)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, "", fmt.Errorf("peek: %w", err)
	}

	for _, bom := range boms {
		if !bytes.HasPrefix(head, bom.prefix) {
			continue
		}

		if bom.decoder == nil {
			_, _ = br.Discard(len(bom.prefix))
			return br, bom.charset, nil
		}

		return transform.NewReader(br, bom.decoder()), bom.charset, nil
	}

	if utf8.Valid(head) {
		return br, CharsetUTF8, nil
	}

	charset := CharsetWindows1252

	if result, err := chardet.NewTextDetector().DetectBest(head); err == nil {
		if result.Charset == string(CharsetUTF8) {
			return br, CharsetUTF8, nil
		}

		if c, ok := chardetCharsets[result.Charset]; ok {
			charset = c
		}
	}

	return transform.NewReader(br, singleByteDecoder(charset)), charset, nil
}

// NewUTF8Reader is Detect without the charset.
func NewUTF8Reader(r io.Reader) (io.Reader, error) {
	rd, _, err := Detect(r)
	return rd, err
}

func singleByteDecoder(c Charset) *encoding.Decoder {
	if c == CharsetISO88599 {
		return charmap.ISO8859_9.NewDecoder()
	}

	return charmap.Windows1252.NewDecoder()
}
