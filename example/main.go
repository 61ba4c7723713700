package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"

	dynstr "github.com/ahrav/go-dynstr"
)

const sampleText = `The quick brown fox jumps over the lazy dog.
The dog sleeps; the fox runs.
A quick fox, a lazy dog, and THE END.
`

func main() {
	fmt.Println("=== DynString Word Count Example ===")
	fmt.Println()

	tempDir, err := os.MkdirTemp("", "dynstr-example-")
	if err != nil {
		log.Fatal("Failed to create temp dir:", err)
	}
	defer os.RemoveAll(tempDir)

	path := filepath.Join(tempDir, "sample.txt")
	if err := os.WriteFile(path, []byte(sampleText), 0o644); err != nil {
		log.Fatal("Failed to write sample:", err)
	}
	fmt.Printf("Wrote sample text to %s\n\n", path)

	in, err := dynstr.NewInterner(256)
	if err != nil {
		log.Fatal("Failed to create interner:", err)
	}

	counts, err := countWords(path, in)
	if err != nil {
		log.Fatal("Failed to count words:", err)
	}

	fmt.Println("--- Word Frequencies ---")
	for _, wc := range counts {
		fmt.Printf("  %-8s %d\n", wc.word, wc.count)
	}
	fmt.Printf("Interner held %d distinct words, hit ratio %.2f\n\n", in.Len(), in.HitRatio())

	fmt.Println("--- Normalization Diff ---")
	diff, err := normalizationDiff(path)
	if err != nil {
		log.Fatal("Failed to diff:", err)
	}
	fmt.Print(diff)
}

type wordCount struct {
	word  string
	count int
}

// normalize lower-cases s and turns punctuation and line breaks into spaces.
func normalize(s *dynstr.DynString) error {
	s.ToLower()
	for _, p := range []string{".", ",", ";", "\n"} {
		if err := s.Replace(p, " "); err != nil {
			return fmt.Errorf("replace %q: %w", p, err)
		}
	}
	s.Trim()
	return nil
}

// countWords loads the file at path and counts its words, most frequent
// first. Equal words are interned so the tally keys share storage.
func countWords(path string, in *dynstr.Interner) ([]wordCount, error) {
	text, err := dynstr.LoadFile(path)
	if err != nil {
		return nil, err
	}
	defer text.Free()

	if err := normalize(text); err != nil {
		return nil, err
	}

	words, err := text.Split(" ")
	if err != nil {
		return nil, err
	}
	tally := make(map[string]int)
	for _, w := range words {
		if !w.IsEmpty() {
			tally[in.Intern(w)]++
		}
		w.Free()
	}

	out := make([]wordCount, 0, len(tally))
	for w, n := range tally {
		out = append(out, wordCount{word: w, count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return out[i].word < out[j].word
	})
	return out, nil
}

// normalizationDiff shows, line by line, what normalize changes in the file.
func normalizationDiff(path string) (string, error) {
	original, err := dynstr.LoadFile(path)
	if err != nil {
		return "", err
	}
	defer original.Free()

	normalized, err := original.Clone()
	if err != nil {
		return "", err
	}
	defer normalized.Free()

	normalized.ToLower()
	if err := normalized.Replace(";", ","); err != nil {
		return "", err
	}
	return dynstr.UnifiedDiff(original, normalized), nil
}
