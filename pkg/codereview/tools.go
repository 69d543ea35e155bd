// Package codereview provides a small set of rule-based Tool Registry
// callables that review Go-flavored source text: extracting function
// signatures, scoring cyclomatic complexity, flagging common issues,
// suggesting fixes, and grading overall quality. It exists to give the
// executor and orchestrator something concrete to drive end to end.
package codereview

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/PrisDen/Trednece-engine/pkg/state"
)

var funcPattern = regexp.MustCompile(`func\s+(?:\([^)]*\)\s+)?(\w+)\s*\(([^)]*)\)`)

// ExtractFunctions scans context["code"] for function declarations and
// records each one's name, parameter count, and body line count.
func ExtractFunctions(_ context.Context, s *state.WorkflowState) (*state.WorkflowState, error) {
	code, _ := s.Get("code")
	src, _ := code.(string)
	lines := strings.Split(src, "\n")

	var functions []interface{}
	matches := funcPattern.FindAllStringSubmatchIndex(src, -1)
	for _, m := range matches {
		name := src[m[2]:m[3]]
		params := strings.TrimSpace(src[m[4]:m[5]])
		paramCount := 0
		if params != "" {
			paramCount = len(strings.Split(params, ","))
		}
		startLine := strings.Count(src[:m[0]], "\n") + 1
		body, bodyLines := functionBody(lines, startLine-1)
		functions = append(functions, map[string]interface{}{
			"name":        name,
			"line":        float64(startLine),
			"param_count": float64(paramCount),
			"has_comment": hasPrecedingComment(lines, startLine-1),
			"body":        body,
			"line_count":  float64(bodyLines),
		})
	}

	s.Set("functions", functions)
	s.Set("function_count", float64(len(functions)))
	s.Record("extract_functions", fmt.Sprintf("extracted %d function(s)", len(functions)), nil)
	return s, nil
}

// functionBody collects lines from start until brace depth returns to
// zero, a rough but dependency-free stand-in for an AST-based extractor.
func functionBody(lines []string, start int) (string, int) {
	depth := 0
	opened := false
	var body []string
	for i := start; i < len(lines); i++ {
		line := lines[i]
		body = append(body, line)
		for _, r := range line {
			switch r {
			case '{':
				depth++
				opened = true
			case '}':
				depth--
			}
		}
		if opened && depth <= 0 {
			break
		}
	}
	return strings.Join(body, "\n"), len(body)
}

func hasPrecedingComment(lines []string, funcLine int) bool {
	if funcLine == 0 {
		return false
	}
	return strings.HasPrefix(strings.TrimSpace(lines[funcLine-1]), "//")
}

var complexityPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\bif\b`),
	regexp.MustCompile(`\bfor\b`),
	regexp.MustCompile(`\bswitch\b`),
	regexp.MustCompile(`\bcase\b`),
	regexp.MustCompile(`&&`),
	regexp.MustCompile(`\|\|`),
}

// CheckComplexity assigns each extracted function a cyclomatic-complexity
// estimate based on branching keyword counts.
func CheckComplexity(_ context.Context, s *state.WorkflowState) (*state.WorkflowState, error) {
	functions, _ := s.Get("functions")
	fns, _ := functions.([]interface{})

	var results []interface{}
	total := 0.0
	for _, f := range fns {
		fn, _ := f.(map[string]interface{})
		body, _ := fn["body"].(string)
		complexity := 1
		for _, p := range complexityPatterns {
			complexity += len(p.FindAllString(body, -1))
		}
		results = append(results, map[string]interface{}{
			"name":       fn["name"],
			"complexity": float64(complexity),
			"rating":     complexityRating(complexity),
		})
		total += float64(complexity)
	}

	avg := 0.0
	if len(fns) > 0 {
		avg = total / float64(len(fns))
	}
	s.Set("complexity", results)
	s.Set("total_complexity", total)
	s.Set("avg_complexity", avg)
	s.Record("check_complexity", fmt.Sprintf("average complexity %.2f", avg), nil)
	return s, nil
}

func complexityRating(c int) string {
	switch {
	case c <= 5:
		return "low"
	case c <= 10:
		return "moderate"
	case c <= 20:
		return "high"
	default:
		return "very_high"
	}
}

// DetectBasicIssues flags functions missing a leading comment, functions
// with too many parameters, and functions whose complexity is too high.
func DetectBasicIssues(_ context.Context, s *state.WorkflowState) (*state.WorkflowState, error) {
	functions, _ := s.Get("functions")
	fns, _ := functions.([]interface{})
	complexity, _ := s.Get("complexity")
	cx, _ := complexity.([]interface{})

	complexityByName := make(map[string]float64, len(cx))
	for _, c := range cx {
		m, _ := c.(map[string]interface{})
		name, _ := m["name"].(string)
		val, _ := m["complexity"].(float64)
		complexityByName[name] = val
	}

	var issues []interface{}
	for _, f := range fns {
		fn, _ := f.(map[string]interface{})
		name, _ := fn["name"].(string)
		line, _ := fn["line"].(float64)

		if has, _ := fn["has_comment"].(bool); !has {
			issues = append(issues, issue("missing_comment", name, line, "warning",
				fmt.Sprintf("function %q has no leading comment", name)))
		}
		if count, _ := fn["param_count"].(float64); count > 5 {
			issues = append(issues, issue("too_many_params", name, line, "warning",
				fmt.Sprintf("function %q has %d parameters", name, int(count))))
		}
		if complexityByName[name] > 10 {
			issues = append(issues, issue("high_complexity", name, line, "error",
				fmt.Sprintf("function %q has complexity %d", name, int(complexityByName[name]))))
		}
	}

	errorCount, warnCount := 0, 0
	for _, i := range issues {
		m, _ := i.(map[string]interface{})
		switch m["severity"] {
		case "error":
			errorCount++
		case "warning":
			warnCount++
		}
	}

	s.Set("issues", issues)
	s.Set("issue_count", float64(len(issues)))
	if _, ok := s.Get("improvement_iteration"); !ok {
		s.Set("improvement_iteration", float64(0))
	}
	if _, ok := s.Get("applied_suggestions"); !ok {
		s.Set("applied_suggestions", []interface{}{})
	}
	if _, ok := s.Get("threshold"); !ok {
		s.Set("threshold", float64(70))
	}
	s.Record("detect_basic_issues", fmt.Sprintf("found %d issue(s): %d error, %d warning", len(issues), errorCount, warnCount), nil)
	return s, nil
}

func issue(typ, function string, line float64, severity, message string) map[string]interface{} {
	return map[string]interface{}{
		"type": typ, "function": function, "line": line, "severity": severity, "message": message,
	}
}

// SuggestImprovements generates one suggestion per distinct issue type and
// marks a growing subset of them "applied" each iteration, mirroring a
// reviewer gradually working through a punch list.
func SuggestImprovements(_ context.Context, s *state.WorkflowState) (*state.WorkflowState, error) {
	issuesVal, _ := s.Get("issues")
	issues, _ := issuesVal.([]interface{})
	iteration, _ := s.Get("improvement_iteration")
	iter, _ := iteration.(float64)
	appliedVal, _ := s.Get("applied_suggestions")
	applied, _ := appliedVal.([]interface{})

	seen := make(map[string]bool)
	var suggestions []interface{}
	for _, i := range issues {
		m, _ := i.(map[string]interface{})
		typ, _ := m["type"].(string)
		if seen[typ] {
			continue
		}
		seen[typ] = true
		suggestions = append(suggestions, map[string]interface{}{
			"issue_type": typ,
			"function":   m["function"],
			"action":     suggestionAction(typ),
			"impact":     suggestionImpact(typ),
			"applied":    false,
		})
	}

	toApply := 2 + int(iter)
	if toApply > len(suggestions) {
		toApply = len(suggestions)
	}
	newlyApplied := make([]interface{}, 0, toApply)
	for i := 0; i < toApply; i++ {
		m, _ := suggestions[i].(map[string]interface{})
		m["applied"] = true
		newlyApplied = append(newlyApplied, fmt.Sprintf("%v", m["issue_type"]))
	}

	s.Set("suggestions", suggestions)
	s.Set("applied_suggestions", append(applied, newlyApplied...))
	s.Set("improvement_iteration", iter+1)
	s.Record("suggest_improvements", fmt.Sprintf("iteration %d: %d suggestion(s), %d applied", int(iter)+1, len(suggestions), len(newlyApplied)), nil)
	return s, nil
}

func suggestionAction(issueType string) string {
	switch issueType {
	case "missing_comment":
		return "add a doc comment describing the function's purpose"
	case "too_many_params":
		return "group related parameters into a struct"
	case "high_complexity":
		return "extract helper functions to simplify control flow"
	default:
		return "review and address the issue"
	}
}

func suggestionImpact(issueType string) float64 {
	switch issueType {
	case "missing_comment":
		return 5
	case "too_many_params":
		return 8
	case "high_complexity":
		return 12
	default:
		return 3
	}
}

// EvaluateQuality computes a 0-100 quality score from outstanding issues,
// applied suggestions, and average complexity, then grades it A-F.
func EvaluateQuality(_ context.Context, s *state.WorkflowState) (*state.WorkflowState, error) {
	issuesVal, _ := s.Get("issues")
	issues, _ := issuesVal.([]interface{})
	appliedVal, _ := s.Get("applied_suggestions")
	applied, _ := appliedVal.([]interface{})
	avgComplexity, _ := s.GetOr("avg_complexity", float64(0)).(float64)
	iteration, _ := s.GetOr("improvement_iteration", float64(1)).(float64)
	threshold, _ := s.GetOr("threshold", float64(70)).(float64)

	errorCount, warnCount := 0, 0
	for _, i := range issues {
		m, _ := i.(map[string]interface{})
		switch m["severity"] {
		case "error":
			errorCount++
		case "warning":
			warnCount++
		}
	}

	score := 100.0 - float64(errorCount)*10 - float64(warnCount)*5 + float64(len(applied))*5 + iteration*8
	if avgComplexity > 10 {
		score -= (avgComplexity - 10) * 2
	}
	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}

	grade := "F"
	switch {
	case score >= 90:
		grade = "A"
	case score >= 80:
		grade = "B"
	case score >= 70:
		grade = "C"
	case score >= 60:
		grade = "D"
	}
	meetsThreshold := score >= threshold

	s.Set("quality_score", score)
	s.Set("quality_grade", grade)
	s.Set("meets_threshold", meetsThreshold)
	status := "needs improvement"
	if meetsThreshold {
		status = "passed"
	}
	s.Record("evaluate_quality", fmt.Sprintf("score %.0f/100 (%s) - %s", score, grade, status), nil)
	return s, nil
}
