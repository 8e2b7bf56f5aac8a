package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/hamed0406/remoteready/internal/evaluator"
)

// Rules are the two tunable inputs of the evaluator.
type Rules struct {
	Thresholds evaluator.Thresholds
	Matrix     *evaluator.Matrix
}

type rulesFile struct {
	Thresholds    map[string]float64 `yaml:"thresholds"`
	Compatibility []evaluator.Entry  `yaml:"compatibility"`
}

func DefaultRules() (Rules, error) {
	return buildRules(evaluator.DefaultThresholds(), evaluator.DefaultMatrix())
}

// LoadRules returns the defaults when path is empty. A file's thresholds
// override individual defaults; a compatibility list replaces the default
// matrix as a whole, so an explicitly empty list is an error.
func LoadRules(path string) (Rules, error) {
	if path == "" {
		return DefaultRules()
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Rules{}, fmt.Errorf("rules file: %w", err)
	}
	rules, err := ParseRules(b)
	if err != nil {
		return Rules{}, fmt.Errorf("rules file %s: %w", path, err)
	}
	return rules, nil
}

func ParseRules(b []byte) (Rules, error) {
	var f rulesFile
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return Rules{}, fmt.Errorf("parse: %w", err)
	}

	th := evaluator.DefaultThresholds()
	for k, v := range f.Thresholds {
		th[k] = v
	}
	entries := evaluator.DefaultMatrix()
	if f.Compatibility != nil {
		entries = f.Compatibility
	}
	return buildRules(th, entries)
}

func buildRules(th map[string]float64, entries []evaluator.Entry) (Rules, error) {
	t, errT := evaluator.NewThresholds(th)
	m, errM := evaluator.NewMatrix(entries)
	if err := multierr.Combine(errT, errM); err != nil {
		return Rules{}, err
	}
	return Rules{Thresholds: t, Matrix: m}, nil
}
