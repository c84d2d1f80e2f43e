package assessment

import (
	"strings"
	"text/template"
)

type promptPair struct {
	system *template.Template
	human  *template.Template
}

func mustPrompt(name, system, human string) promptPair {
	return promptPair{
		system: template.Must(template.New(name + "_system").Option("missingkey=zero").Parse(strings.TrimSpace(system))),
		human:  template.Must(template.New(name + "_human").Option("missingkey=zero").Parse(strings.TrimSpace(human))),
	}
}

func render(t *template.Template, input Context) (string, error) {
	var sb strings.Builder
	if err := t.Execute(&sb, map[string]string(input)); err != nil {
		return "", err
	}
	return sb.String(), nil
}

var questionPrompt = mustPrompt("question", `
You are an interviewer helping a candidate improve their coding skills during a live coding assessment.
Ask insightful questions about the candidate's recent code changes as they work towards solving this problem:
{{.problem_statement}}

Look at the current code, the latest diff and the earlier conversation, then ask ONE clear and concise question tied to the problem and the code.
Good topics are potential bugs, edge cases, alternative approaches, clarity, style and algorithmic efficiency.
Avoid generic questions and never ask several things at once.
Reply with the question text only, without preamble.
`, `
Problem:
{{.problem_statement}}

Current code:
`+"```"+`
{{.code}}
`+"```"+`

Most recent change:
`+"```diff"+`
{{.diff}}
`+"```"+`

Conversation so far:
{{.history}}

Ask one question that helps the candidate reflect on and improve their solution.
Question:`)

var evaluationPrompt = mustPrompt("evaluation", `
You are evaluating a candidate's answer to a question asked during a live coding assessment.
The candidate is solving this problem:
{{.problem_statement}}

Judge the answer against the question, the relevant code and the problem.
Write a short evaluation (one or two sentences) explaining the score, and give a score between 0.0 and 1.0.
Reply with a single JSON object with the keys "evaluation_text" (string) and "score" (number), for example:
{"evaluation_text": "Identifies the empty input edge case but does not propose a fix.", "score": 0.6}
`, `
Problem:
{{.problem_statement}}

Code the question was about:
`+"```"+`
{{.code}}
`+"```"+`

Conversation so far:
{{.history}}

Question:
{{.question}}

Candidate's answer:
{{.response}}

Evaluate the answer for correctness, clarity and relevance.
Evaluation JSON:`)

var reportPrompt = mustPrompt("report", `
You are writing the final report of a live coding assessment.
The candidate was solving this problem:
{{.problem_statement}}

Use the final code and the full transcript (questions, answers and evaluations) to assess the session.
Cover the candidate's problem-solving approach, code quality and how they responded to feedback.
Structure the report with the sections Problem Statement, Summary, Strengths and Areas for Improvement, citing moments from the transcript where useful.
Stay objective and constructive and reply with the report text only.
`, `
Problem:
{{.problem_statement}}

Final code:
`+"```"+`
{{.final_code}}
`+"```"+`

Full transcript:
{{.full_history}}

Write the final assessment report.
Report:`)
