package foldbench

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Suite describes one matrix benchmark: which binary, which inputs, which
// flag sets.
type Suite struct {
	Executable     string              `yaml:"executable" validate:"required"`
	Seed           uint64              `yaml:"seed"`
	Lengths        []int               `yaml:"lengths" validate:"required,min=1,unique,dive,gt=0"`
	Workdir        string              `yaml:"workdir"`
	Timeout        time.Duration       `yaml:"timeout" validate:"gte=0"`
	Workers        int                 `yaml:"workers" validate:"gte=0"`
	KeepCorpus     bool                `yaml:"keep_corpus"`
	Configurations []ConfigurationSpec `yaml:"configurations" validate:"required,min=1,unique=Label,dive"`
}

// DefaultSuite returns the standard sweep: seven sequence lengths against the
// tool's default settings and four flag variants.
func DefaultSuite() Suite {
	return Suite{
		Executable: "./src/CDSfold",
		Seed:       DefaultSeed,
		Lengths:    append([]int(nil), DefaultLengths...),
		Workdir:    ".",
		Workers:    1,
		Configurations: []ConfigurationSpec{
			{Label: "default"},
			{Label: "window_20", Args: []string{"-w", "20"}},
			{Label: "window_50", Args: []string{"-w", "50"}},
			{Label: "exclude_codons", Args: []string{"-e", "GUA,GUC,CUG"}},
			{Label: "reverse_opt", Args: []string{"-r"}},
		},
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the suite for structural errors.
func (s Suite) Validate() error {
	if err := validate.Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid suite: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid suite: %w", err)
	}
	return nil
}

// LoadSuite reads a YAML suite file. Fields missing from the file keep the
// DefaultSuite values, except configurations, which replace the defaults
// wholesale when present.
func LoadSuite(path string) (Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Suite{}, fmt.Errorf("read suite: %w", err)
	}
	return ParseSuite(data)
}

// ParseSuite decodes and validates a YAML suite. Unknown keys are rejected.
func ParseSuite(data []byte) (Suite, error) {
	suite := DefaultSuite()
	suite.Configurations = nil
	suite.Lengths = nil

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&suite); err != nil && !errors.Is(err, io.EOF) {
		return Suite{}, fmt.Errorf("parse suite: %w", err)
	}

	defaults := DefaultSuite()
	if suite.Configurations == nil {
		suite.Configurations = defaults.Configurations
	}
	if suite.Lengths == nil {
		suite.Lengths = defaults.Lengths
	}

	if err := suite.Validate(); err != nil {
		return Suite{}, err
	}
	return suite, nil
}
