package assistant

import (
	"encoding/json"
	"fmt"
)

func jobAnalysisPrompt(content string) string {
	return fmt.Sprintf(`Analyze the following job posting and extract structured information. Return a valid JSON object with these fields:
- title: The job title
- company: Company name if mentioned
- location: Job location
- work_type: remote/hybrid/onsite
- experience_level: entry/mid/senior/lead
- salary_range: Salary if mentioned
- requirements: Array of job requirements
- skills: Array of required skills
- description: A clean summary of the job description

Job Posting:
%s

Return ONLY valid JSON, no markdown or explanation.`, content)
}

func coverLetterPrompt(cvData, jobData, companyData map[string]any, tone string) string {
	cvJSON := compactJSON(cvData)
	jobJSON := compactJSON(jobData)
	companyJSON := "No additional company info available"
	if len(companyData) > 0 {
		companyJSON = compactJSON(companyData)
	}

	return fmt.Sprintf(`You are an expert cover letter writer. Create a compelling, personalized cover letter for this job application.

Candidate's CV/Background:
%s

Target Job:
%s

Company Information:
%s

Tone: %s

Guidelines:
- Make it personal and specific to this job
- Highlight relevant experience and skills
- Show enthusiasm for the company and role
- Keep it concise (3-4 paragraphs)
- Include specific achievements with metrics where possible
- End with a strong call to action

Write the cover letter directly, no explanations or markdown formatting. Start with the greeting.`,
		cvJSON, jobJSON, companyJSON, tone)
}

func chatPrompt(message string, history []ChatMessage) string {
	historyJSON := "[]"
	if len(history) > 0 {
		historyJSON = compactJSON(history)
	}

	return fmt.Sprintf(`You are a helpful and professional career assistant. You help users with their job search, CV writing, and career advice.

Conversation History:
%s

User Message:
%s

Return a valid JSON object with:
- message: Your response to the user.

Guidelines:
- Be helpful, professional, and concise.
- Provide actionable advice.

Return ONLY valid JSON, no markdown or explanation.`, historyJSON, message)
}

func compactJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(b)
}
