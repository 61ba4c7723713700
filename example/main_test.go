package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	dynstr "github.com/ahrav/go-dynstr"
)

func writeSample(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sample.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write sample: %v", err)
	}
	return path
}

func TestCountWords(t *testing.T) {
	in, err := dynstr.NewInterner(64)
	if err != nil {
		t.Fatalf("NewInterner: %v", err)
	}

	counts, err := countWords(writeSample(t, sampleText), in)
	if err != nil {
		t.Fatalf("countWords: %v", err)
	}

	want := map[string]int{"the": 5, "fox": 3, "dog": 3, "quick": 2, "lazy": 2, "a": 2}
	got := make(map[string]int)
	for _, wc := range counts {
		got[wc.word] = wc.count
	}
	for w, n := range want {
		if got[w] != n {
			t.Errorf("count[%q] = %d, want %d", w, got[w], n)
		}
	}
	if counts[0].word != "the" {
		t.Errorf("most frequent word = %q, want %q", counts[0].word, "the")
	}
	if in.Len() != len(counts) {
		t.Errorf("interner holds %d words, want %d", in.Len(), len(counts))
	}
}

func TestCountWordsEmptyFile(t *testing.T) {
	in, err := dynstr.NewInterner(8)
	if err != nil {
		t.Fatalf("NewInterner: %v", err)
	}
	counts, err := countWords(writeSample(t, ""), in)
	if err != nil {
		t.Fatalf("countWords: %v", err)
	}
	if len(counts) != 0 {
		t.Errorf("expected no words, got %v", counts)
	}
}

func TestNormalizationDiff(t *testing.T) {
	diff, err := normalizationDiff(writeSample(t, "Same line\nKeep; this\n"))
	if err != nil {
		t.Fatalf("normalizationDiff: %v", err)
	}
	if !strings.Contains(diff, "-Keep; this") || !strings.Contains(diff, "+keep, this") {
		t.Errorf("unexpected diff:\n%s", diff)
	}

	diff, err = normalizationDiff(writeSample(t, "already, lower\n"))
	if err != nil {
		t.Fatalf("normalizationDiff: %v", err)
	}
	if diff != "" {
		t.Errorf("expected empty diff, got:\n%s", diff)
	}
}
