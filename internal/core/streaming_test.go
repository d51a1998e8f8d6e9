package core

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTempFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}

func TestOpenSource(t *testing.T) {
	tests := []struct {
		name     string
		input    []byte
		expected string
	}{
		{
			name:     "file with BOM",
			input:    append([]byte{0xEF, 0xBB, 0xBF}, []byte("hello,world")...),
			expected: "hello,world",
		},
		{
			name:     "file without BOM",
			input:    []byte("hello,world"),
			expected: "hello,world",
		},
		{
			name:     "empty file",
			input:    []byte{},
			expected: "",
		},
		{
			name:     "only BOM",
			input:    []byte{0xEF, 0xBB, 0xBF},
			expected: "",
		},
		{
			name:     "BOM not at start is kept",
			input:    append([]byte("a,"), 0xEF, 0xBB, 0xBF, 'b'),
			expected: "a,\uFEFFb",
		},
		{
			name:     "invalid byte replaced",
			input:    []byte{'h', 'e', 0xFF, 'l', 'o'},
			expected: "he\uFFFDlo",
		},
		{
			name:     "valid multibyte untouched",
			input:    []byte("Perú,Côte d'Ivoire"),
			expected: "Perú,Côte d'Ivoire",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeTempFile(t, "in.csv", tt.input)
			src, err := openSource(path, DefaultSampleSize)
			if err != nil {
				t.Fatalf("openSource: %v", err)
			}
			defer src.Close()

			result, err := io.ReadAll(src.Reader())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if string(result) != tt.expected {
				t.Errorf("got %q, want %q", string(result), tt.expected)
			}
			if src.BytesRead() != int64(len(tt.input)) {
				t.Errorf("BytesRead = %d, want %d", src.BytesRead(), len(tt.input))
			}
		})
	}
}

func TestOpenSource_SampleDoesNotConsume(t *testing.T) {
	input := "Code;Name\n" + strings.Repeat("ESP;Spain\n", 1000)
	path := writeTempFile(t, "big.csv", []byte(input))

	src, err := openSource(path, 64)
	if err != nil {
		t.Fatalf("openSource: %v", err)
	}
	defer src.Close()

	sample, err := src.Sample()
	if err != nil {
		t.Fatalf("Sample: %v", err)
	}
	if len(sample) != 64 {
		t.Errorf("sample length = %d, want 64", len(sample))
	}

	all, err := io.ReadAll(src.Reader())
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(all) != input {
		t.Error("reader did not start at the beginning of the data")
	}
}

func TestOpenSource_ShortFileSample(t *testing.T) {
	path := writeTempFile(t, "short.csv", []byte("a,b\n"))

	src, err := openSource(path, DefaultSampleSize)
	if err != nil {
		t.Fatalf("openSource: %v", err)
	}
	defer src.Close()

	sample, err := src.Sample()
	if err != nil {
		t.Fatalf("Sample: %v", err)
	}
	if string(sample) != "a,b\n" {
		t.Errorf("sample = %q, want %q", sample, "a,b\n")
	}
}

func TestOpenSource_MissingFile(t *testing.T) {
	_, err := openSource(filepath.Join(t.TempDir(), "nope.csv"), DefaultSampleSize)
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}
