package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/buger/jsonparser"
)

// JSONFloat reads a numeric field that the backend serializes either
// as a number or as a decimal string. Missing or unparseable fields
// yield 0.
func JSONFloat(data []byte, keys ...string) float64 {
	v, t, _, err := jsonparser.Get(data, keys...)
	if err != nil {
		return 0
	}
	switch t {
	case jsonparser.Number:
		f, _ := strconv.ParseFloat(string(v), 64)
		return f
	case jsonparser.String:
		f, _ := strconv.ParseFloat(strings.TrimSpace(string(v)), 64)
		return f
	default:
		return 0
	}
}

// DumpJSON pretty-prints a raw JSON payload.
func DumpJSON(w io.Writer, raw []byte) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, buf.String())
	return err
}

// JSONString reads a string field, returning "" when absent.
func JSONString(data []byte, keys ...string) string {
	s, err := jsonparser.GetString(data, keys...)
	if err != nil {
		return ""
	}
	return s
}
