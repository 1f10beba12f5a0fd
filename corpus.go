package foldbench

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
)

// Alphabet is the amino-acid alphabet (20 residues plus the stop symbol)
// the folding tool accepts as input.
const Alphabet = "ACDEFGHIKLMNPQRSTVWY*"

// DefaultSeed keeps generated corpora comparable between runs.
const DefaultSeed uint64 = 42

// DefaultLengths are the sequence lengths of the standard corpus.
var DefaultLengths = []int{10, 25, 50, 100, 200, 500, 1000}

// ErrInvalidLength is returned when a sequence length is not positive.
var ErrInvalidLength = errors.New("sequence length must be positive")

// InputCase is one synthetic input: a FASTA header line followed by Length
// symbols drawn from Alphabet.
type InputCase struct {
	Length  int    // Number of sequence symbols (header excluded)
	Content []byte // Full FASTA payload
	Label   string // Report identifier, derived from Length
}

// Generate builds the input case for length from a PCG source seeded with
// seed. The same (length, seed) pair yields byte-identical content in every
// process: PCG's output sequence is fixed by its definition, not by the Go
// release.
func Generate(length int, seed uint64) (InputCase, error) {
	if length <= 0 {
		return InputCase{}, fmt.Errorf("generate %d: %w", length, ErrInvalidLength)
	}

	rng := rand.New(rand.NewPCG(seed, seed))

	header := ">" + strconv.Itoa(length) + "_test_sequence\n"
	content := make([]byte, 0, len(header)+length)
	content = append(content, header...)
	for i := 0; i < length; i++ {
		content = append(content, Alphabet[rng.IntN(len(Alphabet))])
	}

	return InputCase{
		Length:  length,
		Content: content,
		Label:   FileName(length),
	}, nil
}

// GenerateCorpus generates one case per length, in the given order.
// Every case uses the same seed, so a case does not depend on its position.
func GenerateCorpus(lengths []int, seed uint64) ([]InputCase, error) {
	cases := make([]InputCase, 0, len(lengths))
	for _, n := range lengths {
		c, err := Generate(n, seed)
		if err != nil {
			return nil, err
		}
		cases = append(cases, c)
	}
	return cases, nil
}

// FileName is the artifact name for a case of the given length.
// Distinct lengths always produce distinct names.
func FileName(length int) string {
	return "test_" + strconv.Itoa(length) + ".faa"
}

// WriteCase persists c under dir and returns the file path.
func WriteCase(dir string, c InputCase) (string, error) {
	path := filepath.Join(dir, FileName(c.Length))
	if err := os.WriteFile(path, c.Content, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

var corpusFile = regexp.MustCompile(`^test_[0-9]+\.faa$`)

// RemoveCorpus deletes every generated corpus file in dir and returns the
// removed paths. Files that do not match the naming scheme are left alone.
func RemoveCorpus(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}

	var removed []string
	for _, e := range entries {
		if e.IsDir() || !corpusFile.MatchString(e.Name()) {
			continue
		}
		path := filepath.Join(dir, e.Name())
		if err := os.Remove(path); err != nil {
			return removed, fmt.Errorf("remove %s: %w", path, err)
		}
		removed = append(removed, path)
	}
	return removed, nil
}
