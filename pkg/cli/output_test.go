package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestOutput_JSON(t *testing.T) {
	var buf bytes.Buffer
	err := Output(map[string]any{"name": "local", "addr": "localhost:8000"},
		OutputOptions{Format: FormatJSON, Writer: &buf})
	if err != nil {
		t.Fatalf("Output: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid json output: %v\n%s", err, buf.String())
	}
	if decoded["addr"] != "localhost:8000" {
		t.Errorf("addr = %v", decoded["addr"])
	}
}

func TestOutput_YAMLDefault(t *testing.T) {
	var buf bytes.Buffer
	err := Output(&Context{Name: "local", Addr: "localhost:8000"},
		OutputOptions{Writer: &buf})
	if err != nil {
		t.Fatalf("Output: %v", err)
	}
	if !strings.Contains(buf.String(), "addr: localhost:8000") {
		t.Errorf("yaml output missing addr:\n%s", buf.String())
	}
}

func TestOutput_Raw(t *testing.T) {
	var buf bytes.Buffer
	if err := Output([]byte{1, 2, 3}, OutputOptions{Format: FormatRaw, Writer: &buf}); err != nil {
		t.Fatalf("Output: %v", err)
	}
	if !bytes.Equal(buf.Bytes(), []byte{1, 2, 3}) {
		t.Errorf("raw output = %v", buf.Bytes())
	}
}

func TestOutput_UnsupportedFormat(t *testing.T) {
	if err := Output("x", OutputOptions{Format: "xml", Writer: &bytes.Buffer{}}); err == nil {
		t.Error("unsupported format accepted")
	}
}
