package pipeline

import (
	"fmt"
	"strings"
)

// Stage identifies the action a prompt is composed for.
type Stage string

const (
	StageAudit Stage = "audit"
	StageChat  Stage = "chat"
)

// BenchmarkQuery is the search query template; %s is the industry.
const BenchmarkQuery = "Evolution of sustainability standards, recent ESG benchmarks, and upcoming 2026-2030 targets for %s"

const auditInstructions = `You are a Senior ESG Analyst. Perform a comparative audit of this report.
1. HISTORICAL CONTEXT: How do their current results compare to recent industry benchmarks?
2. FORWARD-LOOKING: Are they prepared for upcoming 2026-2030 regulatory shifts?
3. TREND ANALYSIS: Is their progress accelerating, or is it stagnant?
4. AUTHENTICITY: Identify if claims match the historical data trends for %s.`

const chatInstructions = `You are a sustainability expert. Use the following report text to answer the question.
Reference specific data, dates, or figures found in the text.`

var instructions = map[Stage]string{
	StageAudit: auditInstructions,
	StageChat:  chatInstructions,
}

// Query returns the benchmark search query for an industry.
func Query(industry string) string {
	return fmt.Sprintf(BenchmarkQuery, industry)
}

// ComposeAuditPrompt builds the audit prompt from an already truncated
// report excerpt and the full benchmark text.
func ComposeAuditPrompt(report, benchmarks, industry string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, instructions[StageAudit], industry)
	sb.WriteString("\n\nREPORT DATA: ")
	sb.WriteString(report)
	sb.WriteString("\nBENCHMARKS & TRENDS: ")
	sb.WriteString(benchmarks)
	return sb.String()
}

// ComposeChatPrompt builds the question-answering prompt from an already
// truncated report excerpt and the literal question.
func ComposeChatPrompt(report, question string) string {
	var sb strings.Builder
	sb.WriteString(instructions[StageChat])
	sb.WriteString("\n\nReport Text: ")
	sb.WriteString(report)
	sb.WriteString("\n\nQuestion: ")
	sb.WriteString(question)
	return sb.String()
}
