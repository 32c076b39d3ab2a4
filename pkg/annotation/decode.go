package annotation

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Decoding converts raw file bytes to text
type Decoding struct {
	Name   string
	Decode func([]byte) (string, error)
}

// DefaultDecodings is the fallback order used by DecodeText: strict UTF-8,
// then ISO-8859-1 which maps every byte to a rune and never fails.
var DefaultDecodings = []Decoding{
	{Name: "utf-8", Decode: decodeUTF8},
	{Name: "iso-8859-1", Decode: decodeLatin1},
}

var errInvalidUTF8 = errors.New("invalid utf-8")

func decodeUTF8(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", errInvalidUTF8
	}
	return string(data), nil
}

func decodeLatin1(data []byte) (string, error) {
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// DecodeText tries each decoding in order and returns the first success.
// A leading byte-order mark is dropped.
func DecodeText(data []byte, decodings []Decoding) (string, error) {
	if len(decodings) == 0 {
		decodings = DefaultDecodings
	}

	var errs []error
	for _, d := range decodings {
		text, err := d.Decode(data)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", d.Name, err))
			continue
		}
		return strings.TrimPrefix(text, "\ufeff"), nil
	}
	return "", fmt.Errorf("failed to decode text: %w", errors.Join(errs...))
}

// ReadLines reads a whole file, decodes it and splits it into lines
func ReadLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read label file: %w", err)
	}
	text, err := DecodeText(data, nil)
	if err != nil {
		return nil, err
	}
	return SplitLines(text), nil
}

// SplitLines splits on \n, \r\n and lone \r. A trailing newline does not
// produce an extra empty line.
func SplitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}
