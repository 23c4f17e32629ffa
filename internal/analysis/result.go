package analysis

// Profile is the model's read of the candidate.
type Profile struct {
	Positioning string   `json:"positioning"`
	Strengths   []string `json:"strengths"`
	FatalFlaw   string   `json:"fatal_flaw"`
}

// JobRecommendation is one ranked match. In closed-corpus mode JobID must
// resolve against the job board; ApplyLink and CompanyNature are then filled
// from the board record, never trusted from the model.
type JobRecommendation struct {
	JobID         string `json:"job_id,omitempty"`
	JobName       string `json:"job_name"`
	CompanyNature string `json:"company_nature,omitempty"`
	MatchScore    int    `json:"match_score"`
	ReasonWhyYou  string `json:"reason_why_you"`
	RiskWhyNot    string `json:"risk_why_not"`
	ApplyLink     string `json:"apply_link,omitempty"`
}

type CoachingStrategy struct {
	ResumeFix          string   `json:"resume_fix"`
	InterviewQuestions []string `json:"interview_questions"`
}

// Result is the final coaching report. Recommendation order is the model's
// own ranking and is preserved as returned.
type Result struct {
	Profile            Profile             `json:"profile"`
	JobRecommendations []JobRecommendation `json:"job_recommendations"`
	CoachingStrategy   CoachingStrategy    `json:"coaching_strategy"`

	// Warnings carries reconciliation diagnostics (unknown ids, duplicate
	// identifiers in the board). Never populated by the model.
	Warnings []string `json:"warnings,omitempty"`
}
