package xdeploy

import (
	"bytes"
	"io"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF32LE = []byte{0xFF, 0xFE, 0x00, 0x00}
	bomUTF32BE = []byte{0x00, 0x00, 0xFE, 0xFF}
	bomUTF16BE = []byte{0xFE, 0xFF}
	bomUTF16LE = []byte{0xFF, 0xFE}
)

// ReadText returns a bundled resource as a string. The encoding is taken
// from a byte-order mark when one is present and is UTF-8 otherwise.
func (d *Deployer) ReadText(resourcePath string) (string, error) {
	return d.ReadTextEncoding(resourcePath, nil)
}

// ReadTextEncoding returns a bundled resource decoded with enc. A byte-order
// mark at the start of the resource takes precedence over enc and is
// dropped. A nil enc behaves like ReadText.
func (d *Deployer) ReadTextEncoding(resourcePath string, enc encoding.Encoding) (string, error) {
	r, err := d.Open(resourcePath)
	if err != nil {
		return "", err
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return "", &IOError{Op: "read resource", Path: resourcePath, Err: err}
	}

	if marked, ok := bomEncoding(data); ok {
		enc = marked
	} else if enc == nil {
		enc = unicode.UTF8
	}
	text, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", &IOError{Op: "decode resource", Path: resourcePath, Err: err}
	}
	return string(text), nil
}

// DetectEncoding picks an encoding from the byte-order mark at the start of
// data. Without a mark it returns UTF-8. The returned decoders drop the mark.
func DetectEncoding(data []byte) encoding.Encoding {
	if enc, ok := bomEncoding(data); ok {
		return enc
	}
	return unicode.UTF8
}

func bomEncoding(data []byte) (encoding.Encoding, bool) {
	switch {
	case bytes.HasPrefix(data, bomUTF8):
		return unicode.UTF8BOM, true
	// UTF-32 LE starts with the UTF-16 LE mark, so it is checked first.
	case bytes.HasPrefix(data, bomUTF32LE):
		return utf32.UTF32(utf32.LittleEndian, utf32.ExpectBOM), true
	case bytes.HasPrefix(data, bomUTF32BE):
		return utf32.UTF32(utf32.BigEndian, utf32.ExpectBOM), true
	case bytes.HasPrefix(data, bomUTF16BE):
		return unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM), true
	case bytes.HasPrefix(data, bomUTF16LE):
		return unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM), true
	default:
		return nil, false
	}
}
