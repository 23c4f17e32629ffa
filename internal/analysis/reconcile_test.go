package analysis

import (
	"testing"

	"github.com/linchangchun1991/highmark-ai/internal/jobstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func board() []jobstore.JobPosting {
	return []jobstore.JobPosting{
		{ID: "1", Company: "字节跳动", Type: "校招", Link: "https://jobs.bytedance.com"},
		{ID: "2", Company: "腾讯", Type: "实习", Link: "https://join.qq.com"},
	}
}

func TestReconcileBackfillsFromBoard(t *testing.T) {
	result := &Result{JobRecommendations: []JobRecommendation{
		{JobID: "2", JobName: "腾讯-产品策划", MatchScore: 72, ApplyLink: "https://模型编造的链接.example", CompanyNature: "互联网大厂"},
		{JobID: "1", JobName: "字节跳动-后端", MatchScore: 88},
	}}

	require.NoError(t, Reconcile(result, board(), true))

	// Ordering preserved; link and category taken from the board, not the model.
	assert.Equal(t, "https://join.qq.com", result.JobRecommendations[0].ApplyLink)
	assert.Equal(t, "实习", result.JobRecommendations[0].CompanyNature)
	assert.Equal(t, "https://jobs.bytedance.com", result.JobRecommendations[1].ApplyLink)
	assert.Equal(t, "校招", result.JobRecommendations[1].CompanyNature)
	assert.Empty(t, result.Warnings)
}

func TestReconcileUnknownIdentifier(t *testing.T) {
	result := &Result{JobRecommendations: []JobRecommendation{
		{JobID: "999", JobName: "幽灵岗位", MatchScore: 60, ApplyLink: "https://fabricated.example"},
	}}

	require.NoError(t, Reconcile(result, board(), true))

	rec := result.JobRecommendations[0]
	assert.Equal(t, "#", rec.ApplyLink)
	assert.Equal(t, "N/A", rec.CompanyNature)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "999")
}

func TestReconcileEmptyRecommendations(t *testing.T) {
	tests := []struct {
		name   string
		closed bool
	}{
		{name: "closed corpus", closed: true},
		{name: "open ended", closed: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := &Result{Profile: Profile{Positioning: "p"}}
			err := Reconcile(result, board(), tt.closed)
			require.Error(t, err)
			assert.True(t, IsKind(err, KindSchema))
		})
	}
}

func TestReconcileScoreOutOfRange(t *testing.T) {
	tests := []struct {
		name  string
		score int
	}{
		{name: "above", score: 101},
		{name: "below", score: -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := &Result{JobRecommendations: []JobRecommendation{
				{JobID: "1", JobName: "x", MatchScore: tt.score},
			}}
			err := Reconcile(result, board(), true)
			require.Error(t, err)
			assert.True(t, IsKind(err, KindSchema))
		})
	}
}

func TestReconcileScoreCheckedInOpenMode(t *testing.T) {
	result := &Result{JobRecommendations: []JobRecommendation{
		{JobName: "自荐岗位", MatchScore: 250},
	}}
	err := Reconcile(result, nil, false)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindSchema))
}

func TestReconcileDuplicateBoardIdentifiers(t *testing.T) {
	snapshot := append(board(), jobstore.JobPosting{ID: "1", Company: "重复导入", Type: "社招", Link: "https://dupe.example"})
	result := &Result{JobRecommendations: []JobRecommendation{
		{JobID: "1", JobName: "字节跳动-后端", MatchScore: 80},
	}}

	require.NoError(t, Reconcile(result, snapshot, true))

	// First occurrence wins; the collision is surfaced as a warning.
	assert.Equal(t, "https://jobs.bytedance.com", result.JobRecommendations[0].ApplyLink)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "重复")
}
