package integration

import (
	"fmt"
	"strings"
)

func buildGradingPrompt(question, answer string, maxScore float64, criteria []string) string {
	quarter := formatScore(maxScore / 4)

	considerations := []string{
		"Content accuracy and depth",
		"Organization and structure",
		"Clarity of expression",
		"Technical accuracy",
		"Originality of thought",
		"Use of examples and evidence",
	}
	if len(criteria) > 0 {
		considerations = criteria
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are an expert teacher grading an essay answer.\n\n")
	fmt.Fprintf(&b, "Question: %s\n\n", question)
	fmt.Fprintf(&b, "Student's Answer: %s\n\n", answer)
	fmt.Fprintf(&b, "Grade this answer on a scale of 0 to %s and give detailed feedback.\n\n", formatScore(maxScore))
	fmt.Fprintf(&b, "Respond with exactly one JSON object in this format:\n")
	fmt.Fprintf(&b, `{
    "score": 0-%[1]s,
    "feedback": "Comprehensive feedback for the student",
    "criteria_scores": {
        "content": 0-%[2]s,
        "organization": 0-%[2]s,
        "clarity": 0-%[2]s,
        "technical_accuracy": 0-%[2]s
    },
    "strengths": ["strength1", "strength2"],
    "weaknesses": ["weakness1", "weakness2"],
    "suggestions": ["suggestion1", "suggestion2"],
    "confidence": 0.0-1.0
}`, formatScore(maxScore), quarter)
	fmt.Fprintf(&b, "\n\nConsider:\n")
	for _, c := range considerations {
		fmt.Fprintf(&b, "- %s\n", c)
	}
	return b.String()
}

func buildValidationPrompt(question, answer string, expected *string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are an expert teacher grading a student's answer.\n\n")
	fmt.Fprintf(&b, "Question: %s\n\n", question)
	fmt.Fprintf(&b, "Student's Answer: %s\n", answer)
	if expected != nil && strings.TrimSpace(*expected) != "" {
		fmt.Fprintf(&b, "\nExpected Answer: %s\n", *expected)
	}
	b.WriteString(`
Respond with exactly one JSON object in this format:
{
    "is_correct": true/false,
    "confidence": 0.0-1.0,
    "feedback": "Detailed feedback for the student",
    "score": 0-10,
    "max_score": 10,
    "explanation": "Why the answer is correct or incorrect",
    "suggestions": ["suggestion1", "suggestion2"]
}

Consider:
- Accuracy of the answer
- Completeness
- Understanding demonstrated
- Clarity of explanation
- Technical correctness (if applicable)
`)
	return b.String()
}

func buildPlagiarismPrompt(text string) string {
	return fmt.Sprintf(`Analyze the following text for potential plagiarism or originality issues.

Text: %s

Respond with exactly one JSON object in this format:
{
    "is_original": true/false,
    "confidence": 0.0-1.0,
    "similarity_score": 0.0-1.0,
    "feedback": "Analysis of originality",
    "concerns": ["concern1", "concern2"],
    "suggestions": ["suggestion1", "suggestion2"]
}

Consider:
- Uniqueness of content
- Potential copying from common sources
- Originality of ideas
- Proper attribution if needed
`, text)
}

func buildEvaluationPrompt(question, correctAnswer, userAnswer string, maxScore float64) string {
	band := func(f float64) string { return formatScore(float64(int(maxScore * f))) }
	top := formatScore(maxScore)

	return fmt.Sprintf(`You are an expert teacher evaluating a student's answer. Compare it with the correct answer and grade it.

Question:
%[1]s

Correct Answer:
%[2]s

Student's Answer:
%[3]s

Instructions:
1. Grade the student's answer on a scale of 0 to %[4]s
2. Judge semantic meaning, not exact wording
3. Give partial credit for partially correct answers
4. Be fair but strict

Respond with exactly one JSON object in this format and nothing else:
{
    "score": <number between 0 and %[4]s>,
    "feedback": "<detailed explanation of the grade>",
    "strengths": ["<strength1>", "<strength2>"],
    "weaknesses": ["<weakness1>", "<weakness2>"],
    "suggestions": ["<suggestion1>", "<suggestion2>"],
    "confidence": <number between 0.0 and 1.0>
}

Grading scale:
- 100%%: perfect answer covering all key points (%[4]s/%[4]s)
- 80-99%%: very good, minor issues only (%[5]s+/%[4]s)
- 60-79%%: good understanding, some gaps (%[6]s+/%[4]s)
- 40-59%%: partial understanding, significant gaps (%[7]s+/%[4]s)
- 20-39%%: minimal understanding (%[8]s+/%[4]s)
- 0-19%%: incorrect or off-topic
`, question, correctAnswer, userAnswer, top, band(0.8), band(0.6), band(0.4), band(0.2))
}
