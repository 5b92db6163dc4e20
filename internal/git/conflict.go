package git

import (
	"context"
	"fmt"
)

// ConflictVersions holds the three-way-merge stage contents for one file.
// A stage missing from the index (file added on one side only) yields
// empty content plus the per-stage error instead of failing the whole
// read.
type ConflictVersions struct {
	File      string `json:"file"`
	Base      string `json:"base"`
	Ours      string `json:"ours"`
	Theirs    string `json:"theirs"`
	BaseErr   string `json:"base_error,omitempty"`
	OursErr   string `json:"ours_error,omitempty"`
	TheirsErr string `json:"theirs_error,omitempty"`
}

// Conflicts returns the paths with unresolved merge state.
func (s *Service) Conflicts(ctx context.Context, dir string) ([]string, error) {
	st, err := s.Status(ctx, dir, StatusOptions{})
	if err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(st.Conflicted))
	for _, e := range st.Conflicted {
		paths = append(paths, e.Path)
	}
	return paths, nil
}

// ConflictVersions reads index stages 1 (base), 2 (ours) and 3 (theirs)
// for a conflicted file, independently of each other.
func (s *Service) ConflictVersions(ctx context.Context, dir, file string) (*ConflictVersions, error) {
	cv := &ConflictVersions{File: file}

	cv.Base, cv.BaseErr = s.showStage(ctx, dir, 1, file)
	cv.Ours, cv.OursErr = s.showStage(ctx, dir, 2, file)
	cv.Theirs, cv.TheirsErr = s.showStage(ctx, dir, 3, file)

	return cv, nil
}

func (s *Service) showStage(ctx context.Context, dir string, stage int, file string) (content, errMsg string) {
	out, err := s.op(ctx, dir, "show", stageSpec(stage, file))
	if err != nil {
		return "", err.Error()
	}
	return out, ""
}

func stageSpec(stage int, file string) string {
	return fmt.Sprintf(":%d:%s", stage, file)
}
