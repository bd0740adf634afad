package archive

import (
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

var (
	// name.part1.rar, name.part01.rar, name.part001.rar
	firstPartRegex = regexp.MustCompile(`\.part0*1\.rar$`)
	anyPartRegex   = regexp.MustCompile(`\.part\d+\.rar$`)
	// legacy continuation volumes: name.r00, name.r01, ...
	oldVolumeRegex = regexp.MustCompile(`\.r\d{2}$`)
)

var compressedSuffixes = []string{
	".tar", ".tgz", ".tbz", ".tbz2", ".txz",
	".gz", ".bz2", ".xz",
}

// Candidate is a file discovered during a walk together with its classification
type Candidate struct {
	Path string // Full path to the file
	Dir  string // Directory containing the file; extraction target
	Name string // Base file name
	Kind Kind
}

// Classify returns the kind of the file based on its name alone.
// A bare .rar is reported as a first volume; use SelectCandidates to
// take part-numbered siblings into account.
func Classify(name string) Kind {
	lower := strings.ToLower(name)

	switch {
	case strings.HasSuffix(lower, ".zip"):
		return KindZip
	case firstPartRegex.MatchString(lower):
		return KindRarFirst
	case anyPartRegex.MatchString(lower):
		return KindRarContinuation
	case oldVolumeRegex.MatchString(lower):
		return KindRarContinuation
	case strings.HasSuffix(lower, ".rar"):
		return KindRarFirst
	case strings.HasSuffix(lower, ".7z"):
		return KindSevenZip
	}

	for _, suffix := range compressedSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return KindCompressed
		}
	}
	return KindUnsupported
}

// SelectCandidates classifies the files of one directory. Unsupported files
// are dropped. A bare name.rar is demoted to a continuation when a
// part-numbered sibling (name.partN.rar) exists, so exactly one file of the
// set is selected for extraction.
func SelectCandidates(dir string, names []string) []Candidate {
	sorted := append([]string(nil), names...)
	sort.Strings(sorted)

	partStems := make(map[string]bool)
	for _, name := range sorted {
		lower := strings.ToLower(name)
		if loc := anyPartRegex.FindStringIndex(lower); loc != nil {
			partStems[lower[:loc[0]]] = true
		}
	}

	var result []Candidate
	for _, name := range sorted {
		kind := Classify(name)
		if kind == KindUnsupported {
			continue
		}

		lower := strings.ToLower(name)
		if kind == KindRarFirst && !anyPartRegex.MatchString(lower) {
			if partStems[strings.TrimSuffix(lower, ".rar")] {
				kind = KindRarContinuation
			}
		}

		result = append(result, Candidate{
			Path: filepath.Join(dir, name),
			Dir:  dir,
			Name: name,
			Kind: kind,
		})
	}
	return result
}

// VolumeSet returns the names of all volumes belonging to the set whose
// first volume is first, including first itself, in lexical order.
func VolumeSet(first string, siblings []string) []string {
	lower := strings.ToLower(first)
	set := []string{first}

	var belongs func(string) bool
	if loc := anyPartRegex.FindStringIndex(lower); loc != nil {
		stem := lower[:loc[0]]
		belongs = func(other string) bool {
			l := strings.ToLower(other)
			if l == stem+".rar" {
				// the bare name.rar that SelectCandidates demoted
				return true
			}
			idx := anyPartRegex.FindStringIndex(l)
			return idx != nil && l[:idx[0]] == stem
		}
	} else {
		stem := strings.TrimSuffix(lower, ".rar")
		belongs = func(other string) bool {
			l := strings.ToLower(other)
			idx := oldVolumeRegex.FindStringIndex(l)
			return idx != nil && l[:idx[0]] == stem
		}
	}

	for _, name := range siblings {
		if name == first {
			continue
		}
		if belongs(name) {
			set = append(set, name)
		}
	}
	sort.Strings(set)
	return set
}
