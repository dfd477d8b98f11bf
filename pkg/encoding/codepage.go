// Package encoding provides the text encodings used for strings stored in EDM files.
package encoding

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// ErrUnknownCodepage is returned by Lookup for unsupported names.
var ErrUnknownCodepage = errors.New("unknown codepage")

// Codepage encodes UTF-8 strings into the byte form written to a file.
// The zero value is UTF-8.
type Codepage struct {
	name string
	enc  encoding.Encoding
}

// UTF8 passes strings through unchanged.
var UTF8 = Codepage{name: "utf-8"}

// Lookup returns the codepage for a configuration name.
// Accepted: "utf-8" (default, also ""), "windows-1251", "windows-1252".
func Lookup(name string) (Codepage, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "utf-8", "utf8":
		return UTF8, nil
	case "windows-1251", "cp1251":
		return Codepage{name: "windows-1251", enc: charmap.Windows1251}, nil
	case "windows-1252", "cp1252":
		return Codepage{name: "windows-1252", enc: charmap.Windows1252}, nil
	default:
		return Codepage{}, fmt.Errorf("%w: %q", ErrUnknownCodepage, name)
	}
}

// Name returns the canonical codepage name.
func (c Codepage) Name() string {
	if c.name == "" {
		return UTF8.name
	}
	return c.name
}

// Encode converts a UTF-8 string to the codepage.
// Characters the codepage cannot represent are an error.
func (c Codepage) Encode(s string) ([]byte, error) {
	if !utf8.ValidString(s) {
		return nil, fmt.Errorf("string %q is not valid UTF-8", s)
	}
	if c.enc == nil {
		return []byte(s), nil
	}
	result, _, err := transform.Bytes(c.enc.NewEncoder(), []byte(s))
	if err != nil {
		return nil, fmt.Errorf("encoding %q as %s: %w", s, c.Name(), err)
	}
	return result, nil
}

// NormalizePath converts backslashes to forward slashes.
// Authoring tools on Windows store texture paths with either separator.
func NormalizePath(path string) string {
	return strings.ReplaceAll(path, "\\", "/")
}
