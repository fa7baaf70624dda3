package types

// AnalyzeResumeInput represents the input for matching a resume against a job description
type AnalyzeResumeInput struct {
	ResumeText     string `json:"resumeText"`
	JobDescription string `json:"jobDescription"`
}

// AnalysisResult is the verdict returned to callers. All four fields are
// always present; defaults are substituted for anything the model omits.
type AnalysisResult struct {
	Score         float64  `json:"score"`
	Explanation   string   `json:"explanation"`
	MissingSkills []string `json:"missing_skills"`
	PresentSkills []string `json:"present_skills"`
}

// EmptyResult returns an AnalysisResult with all fields set to their
// defaults: zero score, empty explanation, empty skill lists.
func EmptyResult() AnalysisResult {
	return AnalysisResult{
		Score:         0,
		Explanation:   "",
		MissingSkills: []string{},
		PresentSkills: []string{},
	}
}

// DegradedResult builds the fallback verdict used when the analysis could
// not be completed. The failure text is embedded in the explanation so the
// caller sees why the score is zero.
func DegradedResult(err error) AnalysisResult {
	result := EmptyResult()
	if err != nil {
		result.Explanation = "AI analysis failed: " + err.Error()
	}
	return result
}

// Normalize ensures the skill slices are non-nil so the JSON encoding
// always carries arrays rather than null.
func (r *AnalysisResult) Normalize() {
	if r.MissingSkills == nil {
		r.MissingSkills = []string{}
	}
	if r.PresentSkills == nil {
		r.PresentSkills = []string{}
	}
}
