package models

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/marketsupervisor/internal/common"
)

// Cron is a saved, tagged search task owned by exactly one company.
type Cron struct {
	ID          ID       `json:"id"`
	CompanyID   ID       `json:"companyId"`
	Name        string   `json:"name"`
	Tags        []string `json:"tags"`
	IsActive    bool     `json:"isActive"`
	SearchCount int      `json:"searchCount"`
	LastSearch  *string  `json:"lastSearch"`
	LastRunAt   *string  `json:"lastRunAt,omitempty"`
	CreatedAt   string   `json:"createdAt,omitempty"`
}

// CronInput is the create payload.
type CronInput struct {
	CompanyID ID       `json:"companyId"`
	Name      string   `json:"name"`
	Tags      []string `json:"tags"`
}

// Validate checks the creation invariants enforced before any request is
// issued: a name and at least one non-blank tag. Tags are trimmed and
// de-duplicated in place.
func (in *CronInput) Validate() error {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return fmt.Errorf("%w: cron name is required", common.ErrValidation)
	}
	if in.CompanyID.IsZero() {
		return fmt.Errorf("%w: company id is required", common.ErrValidation)
	}
	in.Tags = NormalizeTags(in.Tags)
	if len(in.Tags) == 0 {
		return fmt.Errorf("%w: at least one tag is required", common.ErrValidation)
	}
	return nil
}

// CronPatch is a partial update; activation toggles send only IsActive.
type CronPatch struct {
	CompanyID *ID      `json:"companyId,omitempty"`
	Name      *string  `json:"name,omitempty"`
	Tags      []string `json:"tags,omitempty"`
	IsActive  *bool    `json:"isActive,omitempty"`
}

// ExecuteResult is whatever the backend reports after a manual run.
type ExecuteResult map[string]any

// NormalizeTags trims tags, drops blanks and keeps the first occurrence of
// each tag.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
