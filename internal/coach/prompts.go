package coach

import "fmt"

const recommendPrompt = `You are an expert HR professional and Career Coach.
Analyze the following student profile and recommend the single best-fit job role.

PROFILE:
%s

Instructions:
1. Recommend ONE specific job role title.
2. Provide a brief 2-sentence explanation of why this fits.

Output Format strictly:
RECOMMENDED ROLE: **[Role Name]**
EXPLANATION: [Your explanation]`

const planPrompt = `You are a certified career coach.
Based on the recommended role: %q and the student's profile below, create a detailed, actionable career preparation plan.

PROFILE:
%s

The plan must use Markdown formatting and include these sections:
## 1. Skill Gap Analysis
## 2. Recommended Coursework & Certifications
## 3. Project Ideas
## 4. Interview Preparation Strategy (STAR Method)

Be specific and encouraging.
Use **bold** syntax (double asterisks) for emphasis on key terms or labels (e.g. **Why:**, **Action:**).`

const critiquePrompt = `You are a seasoned Hiring Manager.
Review the attached resume.

Provide a critique in Markdown with these sections:
## 1. Impact Score (0-10)
## 2. Executive Summary Feedback
## 3. Strengths
## 4. Critical Improvements Needed
## 5. ATS Keyword Optimization

Use **bold** for key points.`

const revisePrompt = `You are an expert Resume Editor and ATS Specialist.
I have attached my current resume.
Below is a target Job Description I want to apply for.

TARGET JOB DESCRIPTION:
%s

TASK:
Rewrite my 'Summary' and one key 'Experience' entry to perfectly align with this job description.
Use strong action verbs and keywords from the JD.

Output Format (Markdown):
## Revised Summary
[New Summary]

## Revised Experience Entry
**[Role/Project Name]**
[Bullet points]

## Explanation of Changes
[Brief explanation]`

const chatSystemPrompt = `You are a supportive, knowledgeable Career Coach.
You have access to the user's career plan and resume critique in the context provided below.
Use this context to answer questions specifically.
Keep answers concise, encouraging, and actionable.

CONTEXT:
%s`

// inlineResume is appended to a prompt when the resume travels as text.
const inlineResume = `

RESUME (%s):
%s`

const notGenerated = "Not generated yet."

// Fallback replies used when the model returns no text.
const (
	FallbackRecommendation = "Could not generate recommendation."
	FallbackPlan           = "Could not generate plan."
	FallbackCritique       = "Could not analyze resume."
	FallbackRevision       = "Could not revise resume."
	FallbackChat           = "I'm having trouble thinking right now."
)

// Welcome is the coach's opening line in a chat session.
const Welcome = "Hi! I'm your AI Career Coach. I have access to your plan and resume critique. What would you like to discuss?"

func profileBlock(p Profile) string {
	return fmt.Sprintf("Name: %s\nMajor/Academics: %s\nSkills: %s\nInterests: %s",
		p.Name, p.Major, p.Skills, p.Interests)
}
