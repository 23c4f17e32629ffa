package analysis

import (
	"fmt"

	"github.com/linchangchun1991/highmark-ai/internal/jobstore"
)

// Sentinels attached when a recommendation references an identifier absent
// from the snapshot. The recommendation is kept, flagged, and never given a
// fabricated link.
const (
	unresolvedLink   = "#"
	unresolvedNature = "N/A"
)

// Reconcile cross-checks the untrusted result against the snapshot the prompt
// was built from. Link and category always come from the board, never from
// the model. Recommendation order is preserved as the model's own ranking.
func Reconcile(result *Result, snapshot []jobstore.JobPosting, closedCorpus bool) error {
	// The schema marks the array required but cannot demand entries; a model
	// that matched nothing broke the contract all the same.
	if len(result.JobRecommendations) == 0 {
		return newError(KindSchema, "model returned no job recommendations", nil)
	}
	for _, rec := range result.JobRecommendations {
		if rec.MatchScore < 0 || rec.MatchScore > 100 {
			detail := fmt.Sprintf("match_score %d for %q is outside 0-100", rec.MatchScore, rec.JobName)
			return newError(KindSchema, detail, nil)
		}
	}
	if !closedCorpus {
		return nil
	}

	// First occurrence wins on duplicate identifiers; the collision is
	// surfaced instead of deduped silently.
	byID := make(map[string]jobstore.JobPosting, len(snapshot))
	for _, job := range snapshot {
		if _, dup := byID[job.ID]; dup {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("岗位库存在重复编号 %q，已使用最先出现的记录。", job.ID))
			continue
		}
		byID[job.ID] = job
	}

	for i := range result.JobRecommendations {
		rec := &result.JobRecommendations[i]
		job, ok := byID[rec.JobID]
		if !ok {
			rec.ApplyLink = unresolvedLink
			rec.CompanyNature = unresolvedNature
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("推荐 %q 引用了岗位库中不存在的编号 %q，链接未解析。", rec.JobName, rec.JobID))
			continue
		}
		rec.ApplyLink = job.Link
		rec.CompanyNature = job.Type
	}
	return nil
}
