package analysis

import (
	"context"
	"errors"
	"testing"

	"github.com/linchangchun1991/highmark-ai/internal/jobstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubInvoker struct {
	calls      int
	raw        string
	err        error
	lastPrompt Prompt
}

func (s *stubInvoker) Invoke(_ context.Context, prompt Prompt) (*Result, error) {
	s.calls++
	s.lastPrompt = prompt
	if s.err != nil {
		return nil, s.err
	}
	return DecodeResult(s.raw)
}

func twoPostingBoard(t *testing.T) *jobstore.Repository {
	t.Helper()
	repo := jobstore.NewRepository(jobstore.NewMemoryStore())
	require.NoError(t, repo.ReplaceAll(context.Background(), []jobstore.JobPosting{
		{ID: "1", Company: "字节跳动", Type: "校招", Link: "https://jobs.bytedance.com", Description: "Go后端"},
		{ID: "2", Company: "腾讯", Type: "实习", Link: "https://join.qq.com", Description: "分布式系统"},
	}))
	return repo
}

func TestAnalyzeEmptyResumeSkipsModel(t *testing.T) {
	stub := &stubInvoker{}
	engine := NewEngine(stub, nil)

	_, err := engine.Analyze(context.Background(), Request{
		Resume:  ResumePayload{Kind: PayloadText, Content: "   "},
		Context: InlineContext("任意岗位"),
	})

	require.Error(t, err)
	assert.True(t, IsKind(err, KindValidation))
	// The network client must observe zero invocations.
	assert.Zero(t, stub.calls)
}

func TestAnalyzeClosedCorpusScenario(t *testing.T) {
	stub := &stubInvoker{raw: `{
		"profile": {"positioning": "成熟后端工程师", "strengths": ["Go", "分布式"], "fatal_flaw": "无大厂背书"},
		"job_recommendations": [
			{"job_id": "1", "job_name": "字节跳动-后端", "match_score": 90, "reason_why_you": "技术栈完全对口", "risk_why_not": "竞争激烈"},
			{"job_id": "2", "job_name": "腾讯-实习", "match_score": 40, "reason_why_you": "分布式经验相关", "risk_why_not": "面向在校生"}
		],
		"coaching_strategy": {"resume_fix": "突出性能优化数据", "interview_questions": ["讲一次线上故障"]}
	}`}
	engine := NewEngine(stub, twoPostingBoard(t))

	resume, err := NormalizeText("3 years backend engineer, Go and distributed systems")
	require.NoError(t, err)

	result, err := engine.Analyze(context.Background(), Request{
		Resume:  resume,
		Context: CorpusContext(nil),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, stub.calls)

	// Prompt carried the snapshot and the echo-back contract.
	assert.True(t, stub.lastPrompt.Closed)
	assert.Contains(t, stub.lastPrompt.UserText, "[JOB id=1]")
	assert.Contains(t, stub.lastPrompt.UserText, "[JOB id=2]")

	require.Len(t, result.JobRecommendations, 2)
	// Links come verbatim from the board, never from the model.
	assert.Equal(t, "https://jobs.bytedance.com", result.JobRecommendations[0].ApplyLink)
	assert.Equal(t, "https://join.qq.com", result.JobRecommendations[1].ApplyLink)
	assert.Equal(t, "校招", result.JobRecommendations[0].CompanyNature)
	for _, rec := range result.JobRecommendations {
		assert.GreaterOrEqual(t, rec.MatchScore, 0)
		assert.LessOrEqual(t, rec.MatchScore, 100)
	}
}

func TestAnalyzeClosedCorpusWithoutBoard(t *testing.T) {
	engine := NewEngine(&stubInvoker{}, nil)
	resume, err := NormalizeText("简历内容")
	require.NoError(t, err)

	_, err = engine.Analyze(context.Background(), Request{Resume: resume, Context: CorpusContext(nil)})
	require.Error(t, err)
	assert.True(t, IsKind(err, KindValidation))
}

func TestAnalyzeUntypedInvokerError(t *testing.T) {
	stub := &stubInvoker{err: errors.New("connection reset")}
	engine := NewEngine(stub, nil)
	resume, err := NormalizeText("简历内容")
	require.NoError(t, err)

	_, err = engine.Analyze(context.Background(), Request{Resume: resume, Context: InlineContext("岗位")})
	require.Error(t, err)
	assert.True(t, IsKind(err, KindTransport))
}

func TestAnalyzeEmptyRecommendationsRejected(t *testing.T) {
	// Schema-valid payload whose recommendation array is empty: the contract
	// promises a non-empty list or a typed error, never a hollow success.
	stub := &stubInvoker{raw: `{
		"profile": {"positioning": "p", "strengths": ["s"], "fatal_flaw": "f"},
		"job_recommendations": [],
		"coaching_strategy": {"resume_fix": "rf", "interview_questions": ["q"]}
	}`}
	engine := NewEngine(stub, twoPostingBoard(t))
	resume, err := NormalizeText("3 years backend engineer, Go and distributed systems")
	require.NoError(t, err)

	result, err := engine.Analyze(context.Background(), Request{Resume: resume, Context: CorpusContext(nil)})
	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, IsKind(err, KindSchema))

	// Open-ended mode holds the same guarantee.
	result, err = engine.Analyze(context.Background(), Request{Resume: resume, Context: InlineContext("任意岗位")})
	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, IsKind(err, KindSchema))
}

func TestAnalyzeSchemaViolationSurfaces(t *testing.T) {
	stub := &stubInvoker{raw: `{
		"profile": {"positioning": "p", "strengths": [], "fatal_flaw": "f"},
		"job_recommendations": [{"job_id": "1", "job_name": "x", "match_score": 120, "reason_why_you": "r", "risk_why_not": "r"}],
		"coaching_strategy": {"resume_fix": "rf", "interview_questions": []}
	}`}
	engine := NewEngine(stub, twoPostingBoard(t))
	resume, err := NormalizeText("简历内容")
	require.NoError(t, err)

	result, err := engine.Analyze(context.Background(), Request{Resume: resume, Context: CorpusContext(nil)})
	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, IsKind(err, KindSchema))
}
