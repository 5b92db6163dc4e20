package git

import (
	"context"
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// StatusEntry is one record of the porcelain status stream: a path and its
// index/worktree state pair. OriginalPath is set only for renames and
// copies.
type StatusEntry struct {
	Path         string `json:"path"`
	Index        string `json:"index"`
	Worktree     string `json:"worktree"`
	OriginalPath string `json:"original_path,omitempty"`
}

// Status groups status entries into buckets, each sorted by path. An entry
// with both index and worktree changes appears in both Staged and
// Unstaged; unresolved merge entries appear only in Conflicted.
type Status struct {
	Staged     []StatusEntry `json:"staged"`
	Unstaged   []StatusEntry `json:"unstaged"`
	Untracked  []StatusEntry `json:"untracked"`
	Conflicted []StatusEntry `json:"conflicted"`
	Ignored    []StatusEntry `json:"ignored"`
}

// Dirty reports whether any tracked change is present.
func (s *Status) Dirty() bool {
	return len(s.Staged) > 0 || len(s.Unstaged) > 0 || len(s.Conflicted) > 0 || len(s.Untracked) > 0
}

// ParseStatus decodes `git status -z` output: NUL-terminated records, a
// two-character state pair, one separator character, then the path.
// Records shorter than three characters are skipped as malformed. A rename
// or copy record carries the resulting path; the record that follows holds
// the path it came from and is consumed as part of the same entry. The
// pairing is positional, so the cursor must advance past both.
func ParseStatus(raw string) []StatusEntry {
	tokens := strings.Split(raw, "\x00")
	entries := make([]StatusEntry, 0, len(tokens))

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		if len(tok) < 3 {
			continue
		}
		entry := StatusEntry{
			Index:    tok[:1],
			Worktree: tok[1:2],
			Path:     tok[3:],
		}
		if isRenameOrCopy(entry.Index) || isRenameOrCopy(entry.Worktree) {
			if i+1 < len(tokens) && tokens[i+1] != "" {
				entry.OriginalPath = tokens[i+1]
				i++
			}
		}
		entries = append(entries, entry)
	}
	return entries
}

func isRenameOrCopy(state string) bool {
	return state == "R" || state == "C"
}

// Categorize buckets parsed entries. Precedence per entry: ignored (!!),
// untracked (??), conflicted (either state U, or AA/DD), then staged and/or
// unstaged from the non-blank state characters. Buckets are sorted with a
// locale-aware collation.
func Categorize(entries []StatusEntry) *Status {
	st := &Status{
		Staged:     []StatusEntry{},
		Unstaged:   []StatusEntry{},
		Untracked:  []StatusEntry{},
		Conflicted: []StatusEntry{},
		Ignored:    []StatusEntry{},
	}

	for _, e := range entries {
		switch {
		case e.Index == "!" && e.Worktree == "!":
			st.Ignored = append(st.Ignored, e)
		case e.Index == "?" && e.Worktree == "?":
			st.Untracked = append(st.Untracked, e)
		case e.Index == "U" || e.Worktree == "U" ||
			(e.Index == "A" && e.Worktree == "A") ||
			(e.Index == "D" && e.Worktree == "D"):
			st.Conflicted = append(st.Conflicted, e)
		default:
			if e.Index != "" && e.Index != " " {
				st.Staged = append(st.Staged, e)
			}
			if e.Worktree != "" && e.Worktree != " " {
				st.Unstaged = append(st.Unstaged, e)
			}
		}
	}

	coll := collate.New(language.Und)
	for _, bucket := range [][]StatusEntry{st.Staged, st.Unstaged, st.Untracked, st.Conflicted, st.Ignored} {
		sort.SliceStable(bucket, func(i, j int) bool {
			return coll.CompareString(bucket[i].Path, bucket[j].Path) < 0
		})
	}
	return st
}

// StatusOptions selects what a status query includes.
type StatusOptions struct {
	// ExcludeUntracked passes -uno, bounding latency on large trees.
	ExcludeUntracked bool
	// IncludeIgnored passes --ignored so ignored paths are reported.
	IncludeIgnored bool
}

// Status runs a porcelain status query and returns categorized buckets.
func (s *Service) Status(ctx context.Context, dir string, opt StatusOptions) (*Status, error) {
	args := []string{"status", "-z", "--porcelain"}
	if opt.ExcludeUntracked {
		args = append(args, "-uno")
	}
	if opt.IncludeIgnored {
		args = append(args, "--ignored")
	}
	out, err := s.op(ctx, dir, args...)
	if err != nil {
		return nil, err
	}
	return Categorize(ParseStatus(out)), nil
}
