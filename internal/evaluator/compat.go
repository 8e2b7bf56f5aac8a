package evaluator

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"
)

// Family is the OS family tag used as the first key of the matrix.
type Family string

const (
	Windows10 Family = "Windows10"
	Windows11 Family = "Windows11"
	Linux     Family = "Linux"
	MacOS     Family = "macOS"
)

func (f Family) Valid() bool {
	switch f {
	case Windows10, Windows11, Linux, MacOS:
		return true
	}
	return false
}

type CompatVerdict string

const (
	Compatible  CompatVerdict = "compatible"
	NeedsUpdate CompatVerdict = "needs-update"
	Unsupported CompatVerdict = "unsupported"
	Unknown     CompatVerdict = "unknown"
)

// Entry maps an inclusive build range of one family to the minimum client
// version supported there.
type Entry struct {
	Family     Family `yaml:"family" json:"family"`
	MinBuild   int    `yaml:"min_build" json:"min_build"`
	MaxBuild   int    `yaml:"max_build" json:"max_build"`
	MinVersion string `yaml:"min_version" json:"min_version"`
}

func (e Entry) contains(build int) bool { return build >= e.MinBuild && build <= e.MaxBuild }
func (e Entry) width() int              { return e.MaxBuild - e.MinBuild }

// Compat is the outcome of a matrix lookup. Recommended is empty for
// unsupported builds.
type Compat struct {
	Verdict     CompatVerdict
	Recommended string
	Entry       *Entry
}

var ErrEmptyMatrix = errors.New("compatibility matrix is empty")

// Matrix is the immutable compatibility table.
type Matrix struct {
	entries []Entry
	min     []Version
}

// DefaultMatrix lists the minimum Citrix Workspace app release for each
// supported OS build band.
func DefaultMatrix() []Entry {
	return []Entry{
		{Family: Windows10, MinBuild: 10240, MaxBuild: 17762, MinVersion: "1912.0.0"},
		{Family: Windows10, MinBuild: 17763, MaxBuild: 19045, MinVersion: "2203.1.0"},
		{Family: Windows11, MinBuild: 22000, MaxBuild: 22999, MinVersion: "2311.1.0"},
		{Family: Windows11, MinBuild: 26100, MaxBuild: 26199, MinVersion: "2409.0.0"},
		{Family: Linux, MinBuild: 3010, MaxBuild: 99999, MinVersion: "2305.0.0"},
	}
}

func NewMatrix(entries []Entry) (*Matrix, error) {
	if len(entries) == 0 {
		return nil, ErrEmptyMatrix
	}
	m := &Matrix{
		entries: make([]Entry, len(entries)),
		min:     make([]Version, len(entries)),
	}
	var err error
	for i, e := range entries {
		if !e.Family.Valid() {
			err = multierr.Append(err, fmt.Errorf("entry %d: unknown OS family %q", i, e.Family))
		}
		if e.MinBuild < 0 || e.MaxBuild < e.MinBuild {
			err = multierr.Append(err, fmt.Errorf("entry %d: invalid build range [%d, %d]", i, e.MinBuild, e.MaxBuild))
		}
		v, perr := ParseVersion(e.MinVersion)
		if perr != nil {
			err = multierr.Append(err, fmt.Errorf("entry %d: %w", i, perr))
		}
		m.entries[i] = e
		m.min[i] = v
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Entries returns a copy of the table in declaration order.
func (m *Matrix) Entries() []Entry {
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

// lookup finds the entry covering build. Overlapping ranges resolve to the
// narrowest one; equal widths resolve to the first declared.
func (m *Matrix) lookup(family Family, build int) int {
	best := -1
	for i, e := range m.entries {
		if e.Family != family || !e.contains(build) {
			continue
		}
		if best < 0 || e.width() < m.entries[best].width() {
			best = i
		}
	}
	return best
}

// Evaluate compares the installed client version against the minimum for
// the given OS build. installed may be empty when no client is installed.
func (m *Matrix) Evaluate(family Family, build int, installed string) Compat {
	i := m.lookup(family, build)
	if i < 0 {
		return Compat{Verdict: Unsupported}
	}
	e := m.entries[i]
	out := Compat{Recommended: e.MinVersion, Entry: &e}
	if installed == "" {
		out.Verdict = Unknown
		return out
	}
	have, err := ParseVersion(installed)
	if err != nil {
		out.Verdict = Unknown
		return out
	}
	if have.Compare(m.min[i]) >= 0 {
		out.Verdict = Compatible
	} else {
		out.Verdict = NeedsUpdate
	}
	return out
}
