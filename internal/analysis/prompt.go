package analysis

import (
	"fmt"
	"strings"

	"github.com/linchangchun1991/highmark-ai/internal/jobstore"
)

// systemInstruction is fixed per deployment; per-request variation lives in
// the user message only.
const systemInstruction = `
# Role Definition
You are a Senior Career Consultant and HR Director at **Highmark Career (海马职加)**, a top-tier career coaching agency in China. You have 20 years of experience in headhunting and campus recruiting for Fortune 500 companies.

# Objective
Help the candidate (student/professional) find the most precise career positioning and job match.
If the candidate DOES NOT provide specific target jobs (i.e., the "Job Context" is vague, empty, or just a general direction like "I want to do marketing"), you MUST automatically recommend 3-5 specific, high-fit roles based on their resume profile.

# Core Competencies
1.  **Local Market Insight**: You know the unspoken rules of Chinese hiring (985/211/QS100 hierarchies, Internet slang, SOE stability vs. MNC culture).
2.  **Transferable Skills**: You look beyond keywords to find potential.
3.  **Strict Standards**: You are sharp, objective, and do not sugarcoat weaknesses.

# Output Format (JSON ONLY)
You must output a valid JSON object strictly adhering to the response schema. **Do NOT output markdown formatting (like ` + "```json" + `). Do NOT output any introductory text.**
"match_score" must be an integer between 0 and 100.
When the job pool is given as [JOB id=...] blocks, every recommendation must carry a "job_id" copied character-for-character from one of those blocks. Never invent identifiers, links, or jobs outside the pool.
`

// selfProposeContext stands in when the caller supplied no jobs at all.
const selfProposeContext = "用户未指定具体岗位，请根据简历自动推荐最适合的3-5个岗位方向（包括互联网大厂、国企或外企）并进行匹配分析。"

type ContextKind int

const (
	// ContextInline: open-ended mode, caller-supplied free text (possibly empty).
	ContextInline ContextKind = iota
	// ContextCorpus: closed-corpus mode, board snapshot with identifier echo-back.
	ContextCorpus
)

// JobContext selects one of the two operating regimes. The variants are
// mutually exclusive.
type JobContext struct {
	Kind   ContextKind
	Inline string
	Corpus []jobstore.JobPosting
}

func InlineContext(text string) JobContext {
	return JobContext{Kind: ContextInline, Inline: text}
}

// CorpusContext pins an explicit snapshot. Pass nil to let the engine capture
// the board once at request start.
func CorpusContext(snapshot []jobstore.JobPosting) JobContext {
	return JobContext{Kind: ContextCorpus, Corpus: snapshot}
}

// Prompt is the composed request handed to the model client.
type Prompt struct {
	System     string
	UserText   string
	Attachment *ResumePayload
	Closed     bool
}

func composePrompt(resume ResumePayload, jc JobContext) Prompt {
	var jobBlock string
	closed := jc.Kind == ContextCorpus
	if closed {
		jobBlock = serializeCorpus(jc.Corpus)
	} else if strings.TrimSpace(jc.Inline) == "" {
		jobBlock = selfProposeContext
	} else {
		jobBlock = jc.Inline
	}

	resumeSection := resume.Content
	var attachment *ResumePayload
	if resume.Kind == PayloadBinary {
		resumeSection = "（简历以附件图像形式提供，请阅读附件内容进行分析。）"
		attachment = &resume
	}

	userText := fmt.Sprintf(`
【学员简历内容】：
%s

【待匹配岗位池 / 学员意向方向】：
%s
`, resumeSection, jobBlock)

	return Prompt{
		System:     systemInstruction,
		UserText:   userText,
		Attachment: attachment,
		Closed:     closed,
	}
}

// serializeCorpus renders the board snapshot as delimited blocks carrying
// stable identifiers, plus the echo-back contract.
func serializeCorpus(jobs []jobstore.JobPosting) string {
	var b strings.Builder
	b.WriteString("【封闭岗位池】以下为全部候选岗位。推荐结果的 job_id 必须逐字等于某个 [JOB id=...] 块中的 id，禁止推荐此列表之外的岗位：\n\n")
	for _, j := range jobs {
		fmt.Fprintf(&b, "[JOB id=%s]\n公司: %s\n地点: %s\n类型: %s\n对象: %s\n更新: %s\n描述: %s\n[/JOB]\n\n", j.ID, j.Company, j.Location, j.Type, j.Target, j.UpdatedAt, j.Description)
	}
	return strings.TrimRight(b.String(), "\n")
}
