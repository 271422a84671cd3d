package server

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"slices"
	"strings"
)

// SupportedEncodings lists the content codings the server can produce, in
// no particular preference; the client's order wins during negotiation.
var SupportedEncodings = []string{"gzip"}

type Encoding int

const (
	EncodingIdentity Encoding = iota
	EncodingGzip
)

// ParseEncoding maps unknown names to identity instead of failing.
func ParseEncoding(name string) Encoding {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "gzip":
		return EncodingGzip
	default:
		return EncodingIdentity
	}
}

func (e Encoding) String() string {
	if e == EncodingGzip {
		return "gzip"
	}
	return "identity"
}

type Encoder struct {
	encoding Encoding
}

func NewEncoder(name string) *Encoder {
	return &Encoder{encoding: ParseEncoding(name)}
}

func (e *Encoder) Encoding() Encoding {
	return e.encoding
}

func (e *Encoder) Encode(data []byte) ([]byte, error) {
	switch e.encoding {
	case EncodingGzip:
		return gzipBytes(data)
	default:
		return data, nil
	}
}

func gzipBytes(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)

	if _, err := gz.Write(data); err != nil {
		gz.Close()
		return nil, fmt.Errorf("failed to compress body: %w", err)
	}
	if err := gz.Close(); err != nil {
		return nil, fmt.Errorf("failed to close gzip writer: %w", err)
	}
	return buf.Bytes(), nil
}

func encodeBody(name string, body []byte) ([]byte, error) {
	return NewEncoder(name).Encode(body)
}

func IsSupportedEncoding(name string) bool {
	return slices.Contains(SupportedEncodings, strings.ToLower(strings.TrimSpace(name)))
}

// NegotiateEncodings filters an Accept-Encoding value down to the supported
// codings, keeping the client's order. Parameters after ';' are ignored,
// except that q=0 rejects the coding.
func NegotiateEncodings(accept string) []string {
	var out []string
	for _, part := range strings.Split(accept, ",") {
		name, params, _ := strings.Cut(part, ";")
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" || rejected(params) {
			continue
		}
		if IsSupportedEncoding(name) && !slices.Contains(out, name) {
			out = append(out, name)
		}
	}
	return out
}

func rejected(params string) bool {
	for _, p := range strings.Split(params, ";") {
		key, value, ok := strings.Cut(strings.TrimSpace(p), "=")
		if !ok || !strings.EqualFold(strings.TrimSpace(key), "q") {
			continue
		}
		value = strings.TrimRight(strings.TrimSpace(value), "0")
		if value == "" || value == "0." || value == "0" {
			return true
		}
	}
	return false
}
