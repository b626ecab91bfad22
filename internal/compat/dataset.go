package compat

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"golang.org/x/mod/semver"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/horoscope/internal/zodiac"
)

// SupportedMajor is the dataset file major version this build understands.
const SupportedMajor = "v1"

//go:embed dataset.yaml
var embeddedDataset []byte

// ErrInvalidDataset is returned when a dataset file fails validation.
var ErrInvalidDataset = errors.New("invalid compatibility dataset")

// NarrativeText is the on-disk form of a narrative. Either field may be
// empty in template or override sections; resolution fills the gaps.
type NarrativeText struct {
	Summary      string `yaml:"summary,omitempty"`
	Relationship string `yaml:"relationship,omitempty"`
}

// File is the YAML document layout shared by the embedded dataset and
// override files.
type File struct {
	Version    string                    `yaml:"version"`
	Scores     map[string]map[string]int `yaml:"scores,omitempty"`
	Templates  map[string]NarrativeText  `yaml:"templates,omitempty"`
	Narratives map[string]NarrativeText  `yaml:"narratives,omitempty"`
}

type scoreRow [len(categories)]int

// Dataset is the immutable lookup table behind a Matcher. It is built once
// and never mutated, so a single instance can be shared freely.
type Dataset struct {
	version    string
	scores     map[zodiac.Pair]scoreRow
	narratives map[zodiac.Pair]Narrative
}

var defaultDataset = sync.OnceValues(func() (*Dataset, error) {
	return Load(embeddedDataset)
})

// Default returns the embedded dataset, parsed on first use.
func Default() (*Dataset, error) {
	return defaultDataset()
}

// LoadWithOverrideFile loads the embedded dataset and applies the override
// file at path. An empty path yields the embedded dataset.
func LoadWithOverrideFile(path string) (*Dataset, error) {
	if path == "" {
		return Default()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dataset override: %w", err)
	}
	return Load(embeddedDataset, raw)
}

// Load parses a base dataset document and layers the optional override
// documents on top, in order. The result is fully validated: every pair has
// every category score and resolvable narrative text.
func Load(base []byte, overrides ...[]byte) (*Dataset, error) {
	f, err := parseFile(base)
	if err != nil {
		return nil, err
	}
	for i, raw := range overrides {
		o, err := parseFile(raw)
		if err != nil {
			return nil, fmt.Errorf("override %d: %w", i, err)
		}
		f = mergeFiles(f, o)
	}
	return build(f)
}

func parseFile(raw []byte) (File, error) {
	var f File
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return File{}, fmt.Errorf("%w: parse: %v", ErrInvalidDataset, err)
	}
	if !semver.IsValid(f.Version) {
		return File{}, fmt.Errorf("%w: version %q is not a semantic version", ErrInvalidDataset, f.Version)
	}
	if semver.Major(f.Version) != SupportedMajor {
		return File{}, fmt.Errorf("%w: version %s not supported (want %s.x)", ErrInvalidDataset, f.Version, SupportedMajor)
	}
	return f, nil
}

// mergeFiles applies override on top of base. Scores replace whole rows;
// narrative fields replace individually so an override may supply only a
// summary.
func mergeFiles(base, override File) File {
	out := File{
		Version:    base.Version,
		Scores:     make(map[string]map[string]int, len(base.Scores)),
		Templates:  make(map[string]NarrativeText, len(base.Templates)),
		Narratives: make(map[string]NarrativeText, len(base.Narratives)),
	}
	if semver.Compare(override.Version, base.Version) > 0 {
		out.Version = override.Version
	}
	for k, v := range base.Scores {
		out.Scores[canonicalKey(k)] = v
	}
	for k, v := range override.Scores {
		out.Scores[canonicalKey(k)] = v
	}
	for k, v := range base.Templates {
		out.Templates[k] = v
	}
	for k, v := range override.Templates {
		out.Templates[k] = overlay(out.Templates[k], v)
	}
	for k, v := range base.Narratives {
		out.Narratives[canonicalKey(k)] = v
	}
	for k, v := range override.Narratives {
		ck := canonicalKey(k)
		out.Narratives[ck] = overlay(out.Narratives[ck], v)
	}
	return out
}

func overlay(base, top NarrativeText) NarrativeText {
	if top.Summary != "" {
		base.Summary = top.Summary
	}
	if top.Relationship != "" {
		base.Relationship = top.Relationship
	}
	return base
}

// canonicalKey normalises a pair key so "leo-aries" and "aries-leo" collide.
// Unparseable keys are returned unchanged and rejected later by build.
func canonicalKey(k string) string {
	p, err := zodiac.ParsePairKey(k)
	if err != nil {
		return k
	}
	return p.Key()
}

func build(f File) (*Dataset, error) {
	ds := &Dataset{
		version:    f.Version,
		scores:     make(map[zodiac.Pair]scoreRow, len(f.Scores)),
		narratives: make(map[zodiac.Pair]Narrative, len(f.Scores)),
	}

	var problems []string
	for key, row := range f.Scores {
		p, err := zodiac.ParsePairKey(key)
		if err != nil || !p.Valid() {
			problems = append(problems, fmt.Sprintf("scores: bad pair key %q", key))
			continue
		}
		var r scoreRow
		for name, score := range row {
			idx := categoryIndex(Category(name))
			if idx < 0 {
				problems = append(problems, fmt.Sprintf("%s: unknown category %q", key, name))
				continue
			}
			if score < 0 || score > 100 {
				problems = append(problems, fmt.Sprintf("%s: %s score %d outside [0,100]", key, name, score))
			}
			r[idx] = score
		}
		for _, c := range categories {
			if _, ok := row[string(c)]; !ok {
				problems = append(problems, fmt.Sprintf("%s: missing category %q", key, c))
			}
		}
		ds.scores[p] = r
	}
	own := make(map[string]NarrativeText, len(f.Narratives))
	for key, n := range f.Narratives {
		p, err := zodiac.ParsePairKey(key)
		if err != nil || !p.Valid() {
			problems = append(problems, fmt.Sprintf("narratives: bad pair key %q", key))
			continue
		}
		own[p.Key()] = overlay(own[p.Key()], n)
	}
	f.Narratives = own

	for _, p := range zodiac.Pairs() {
		if _, ok := ds.scores[p]; !ok {
			problems = append(problems, fmt.Sprintf("%s: no scores", p.Key()))
		}
		n := resolveNarrative(f, p)
		if n.Summary == "" || n.Relationship == "" {
			problems = append(problems, fmt.Sprintf("%s: no narrative text", p.Key()))
		}
		ds.narratives[p] = n
	}

	if len(problems) > 0 {
		sort.Strings(problems)
		return nil, fmt.Errorf("%w:\n  %s", ErrInvalidDataset, strings.Join(problems, "\n  "))
	}
	return ds, nil
}

// resolveNarrative picks per-pair text first and falls back to the element
// template for anything missing.
func resolveNarrative(f File, p zodiac.Pair) Narrative {
	own := f.Narratives[p.Key()]
	tmpl := f.Templates[elementKey(p)]
	n := Narrative{Summary: own.Summary, Relationship: own.Relationship}
	if n.Summary == "" {
		n.Summary = fill(tmpl.Summary, p)
	}
	if n.Relationship == "" {
		n.Relationship = fill(tmpl.Relationship, p)
	}
	return n
}

var elementOrder = map[zodiac.Element]int{
	zodiac.Fire:  0,
	zodiac.Earth: 1,
	zodiac.Air:   2,
	zodiac.Water: 3,
}

// elementKey is the template key for a pair, e.g. "fire-water".
func elementKey(p zodiac.Pair) string {
	a, b := p.Low.Element(), p.High.Element()
	if elementOrder[a] > elementOrder[b] {
		a, b = b, a
	}
	return string(a) + "-" + string(b)
}

func fill(tmpl string, p zodiac.Pair) string {
	if tmpl == "" {
		return ""
	}
	r := strings.NewReplacer("%{a}", p.Low.String(), "%{b}", p.High.String())
	return r.Replace(tmpl)
}

// Version is the dataset's semantic version.
func (d *Dataset) Version() string {
	return d.version
}

// Size is the number of pairs in the table.
func (d *Dataset) Size() int {
	return len(d.scores)
}
