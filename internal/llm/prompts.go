package llm

import (
	"encoding/json"
	"fmt"

	"careeros-backend/internal/domain"
)

func buildExtractionPrompt(rawInput string) string {
	return fmt.Sprintf(`You are a job posting analyzer. Extract job application details from the provided text. It may be a URL, a job posting, or a mix.

Return ONLY a valid JSON object with exactly these fields:

{
  "company_name": "string - Company/organization name",
  "job_title": "string - Job title or role",
  "job_description": "string - Full job description text",
  "application_link": "string - URL to apply, or empty string if not found"
}

IMPORTANT RULES:
1. Return ONLY valid JSON, no additional text or explanation
2. If a field cannot be determined, use an empty string - never invent facts
3. Keep the job description complete; do not summarize it away

TEXT:
%s`, rawInput)
}

func buildAnalysisPrompt(jobDescription string) string {
	return fmt.Sprintf(`You are a strategic product advisor. Analyze the following job description for a Product Manager role and extract strategic insights using the 7-level AI Maturity Framework.

Return ONLY a valid JSON object with exactly these fields:

{
  "core_product_focus": "string - The core product or problem space this role owns",
  "maturity_stage": number - Integer 1-7 on the AI Maturity Framework,
  "strategic_opportunity_gap": "string - The gap between stated ambition and current capability",
  "competitive_positioning": "string - How the company is positioned against competitors",
  "hidden_transformation_opportunity": "string - A non-obvious transformation this role could drive"
}

IMPORTANT RULES:
1. Return ONLY valid JSON, no additional text or explanation
2. All five fields are required
3. maturity_stage must be an integer between 1 and 7

JOB DESCRIPTION:
%s`, jobDescription)
}

func buildCoverLetterPrompt(job *domain.Job, profile *domain.Profile, intel *domain.Intelligence) string {
	intelRaw, _ := json.Marshal(intel)

	return fmt.Sprintf(`Generate a 300-400 word tailored cover letter for %s applying for the %s role at %s.

Context:
- Job Description: %s
- Candidate CV: %s
- Strategic Intelligence: %s

Tone: Strategic, Confident, Non-generic.
Focus on: Company AI ambition, strategic insight, systems-level thinking, and a teaser of an attached PRD.

Return only the cover letter text, no preamble.`,
		profile.CandidateName(), job.JobTitle, job.CompanyName,
		job.JobDescription, profile.CVText, intelRaw)
}

func buildPRDPrompt(job *domain.Job, profile *domain.Profile, intel *domain.Intelligence) string {
	intelRaw, _ := json.Marshal(intel)

	return fmt.Sprintf(`Generate a Strategic AI Product Requirements Document (PRD) for %s as a demonstration of strategic thinking for the %s role.

Context:
- Job Description: %s
- Candidate Background: %s
- Prior PRDs: %s
- Strategic Intelligence: %s

The PRD MUST include these sections:
1. Executive Summary
2. Problem Framing
3. Strategic AI Vision
4. AI Maturity Assessment (Current vs Target)
5. AI Maturity Roadmap (using the 7-level framework)
6. Technical Architecture Overview
7. Data & Infrastructure Requirements
8. Feedback & Learning Loop
9. KPIs
10. 24-Month Roadmap

Use Markdown for formatting. Return only the document, no preamble.`,
		job.CompanyName, job.JobTitle,
		job.JobDescription, profile.CVText, profile.Preferences.PriorPRDs, intelRaw)
}
