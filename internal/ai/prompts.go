package ai

// DefaultAnalysisPrompt is the built-in instruction sent as the first part of
// every analysis request. It mandates a bare JSON object in the response
// shape the normalizer expects; the fence stripper handles models that wrap
// the object anyway.
const DefaultAnalysisPrompt = `
You are an expert HR professional and ATS (Applicant Tracking System) specialist.
Analyze the provided resume against the job description.

Respond ONLY with a valid JSON object, with NO extra text, markdown, or code fences.

JSON format:
{
  "score": <number between 0-100>,
  "explanation": "<summary>",
  "missing_skills": ["skill1", "skill2"],
  "present_skills": ["skill1", "skill2"]
}
`

// resolvePrompt selects the instruction text: a configured override wins over
// the built-in default.
func resolvePrompt(fromConfig string) string {
	if fromConfig != "" {
		return fromConfig
	}
	return DefaultAnalysisPrompt
}

// truncate returns at most maxChars leading bytes of s. Content beyond the
// cutoff is silently dropped to keep prompt sizes bounded.
func truncate(s string, maxChars int) string {
	if maxChars > 0 && len(s) > maxChars {
		return s[:maxChars]
	}
	return s
}

// buildUserParts formats the resume and job description parts that follow
// the instruction in the request.
func buildUserParts(resumeText, jobDescription string, resumeMax, jobMax int) (string, string) {
	resumePart := "Resume:\n" + truncate(resumeText, resumeMax)
	jobPart := "Job Description:\n" + truncate(jobDescription, jobMax)
	return resumePart, jobPart
}
