package foldbench

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestGenerate_Deterministic verifies byte-identical output for a fixed seed.
func TestGenerate_Deterministic(t *testing.T) {
	for _, n := range DefaultLengths {
		a, err := Generate(n, DefaultSeed)
		if err != nil {
			t.Fatalf("Generate(%d): %v", n, err)
		}
		b, err := Generate(n, DefaultSeed)
		if err != nil {
			t.Fatalf("Generate(%d): %v", n, err)
		}
		if !bytes.Equal(a.Content, b.Content) {
			t.Errorf("length %d: two invocations differ", n)
		}
	}
	t.Log("✓ Corpus is reproducible for a fixed seed")
}

func TestGenerate_SeedChangesContent(t *testing.T) {
	a, _ := Generate(200, 1)
	b, _ := Generate(200, 2)
	if bytes.Equal(a.Content, b.Content) {
		t.Error("different seeds produced identical payloads")
	}
}

func TestGenerate_Shape(t *testing.T) {
	c, err := Generate(50, DefaultSeed)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	header, payload, ok := strings.Cut(string(c.Content), "\n")
	if !ok {
		t.Fatal("no header line")
	}
	if header != ">50_test_sequence" {
		t.Errorf("header: got %q", header)
	}
	if len(payload) != 50 {
		t.Errorf("payload length: expected 50, got %d", len(payload))
	}
	for i, r := range payload {
		if !strings.ContainsRune(Alphabet, r) {
			t.Fatalf("symbol %q at %d not in alphabet", r, i)
		}
	}
	if c.Length != 50 || c.Label != "test_50.faa" {
		t.Errorf("unexpected metadata: %+v", c)
	}
}

func TestGenerate_InvalidLength(t *testing.T) {
	for _, n := range []int{0, -1} {
		if _, err := Generate(n, DefaultSeed); !errors.Is(err, ErrInvalidLength) {
			t.Errorf("Generate(%d): expected ErrInvalidLength, got %v", n, err)
		}
	}
	if _, err := GenerateCorpus([]int{10, 0}, DefaultSeed); !errors.Is(err, ErrInvalidLength) {
		t.Errorf("GenerateCorpus: expected ErrInvalidLength, got %v", err)
	}
}

func TestGenerateCorpus_IndependentOfOrder(t *testing.T) {
	forward, _ := GenerateCorpus([]int{10, 25, 50}, DefaultSeed)
	reverse, _ := GenerateCorpus([]int{50, 25, 10}, DefaultSeed)

	if !bytes.Equal(forward[0].Content, reverse[2].Content) {
		t.Error("case content depends on its position in the corpus")
	}
}

func TestFileName_Injective(t *testing.T) {
	seen := make(map[string]int)
	for n := 1; n <= 5000; n++ {
		name := FileName(n)
		if prev, ok := seen[name]; ok {
			t.Fatalf("lengths %d and %d both map to %s", prev, n, name)
		}
		seen[name] = n
	}
}

func TestWriteCase_RemoveCorpus(t *testing.T) {
	dir := t.TempDir()
	cases, _ := GenerateCorpus([]int{10, 25}, DefaultSeed)

	for _, c := range cases {
		path, err := WriteCase(dir, c)
		if err != nil {
			t.Fatalf("WriteCase: %v", err)
		}
		got, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read back: %v", err)
		}
		if !bytes.Equal(got, c.Content) {
			t.Errorf("%s: content mismatch", path)
		}
	}

	// Unrelated files survive cleanup.
	keep := filepath.Join(dir, "test_notes.faa")
	if err := os.WriteFile(keep, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	removed, err := RemoveCorpus(dir)
	if err != nil {
		t.Fatalf("RemoveCorpus: %v", err)
	}
	if len(removed) != 2 {
		t.Errorf("expected 2 files removed, got %v", removed)
	}
	if _, err := os.Stat(keep); err != nil {
		t.Errorf("unrelated file removed: %v", err)
	}
}
