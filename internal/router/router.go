// Package router implements rule-based intent detection over assistant
// request payloads. Classification is a pure, total function: it never fails
// and has no state.
package router

import (
	"encoding/json"
	"strings"

	"assistd/pkg/types"
)

// Keyword sets for rule-based classification. Matching is case-insensitive
// substring containment.
var (
	careerKeywords = []string{
		"career", "skills", "improve", "help me get hired",
		"how can i prepare", "industry norms", "good practices",
		"how to write", "how to explain experience",
	}
	resumeKeywords = []string{"evaluate my resume", "score my profile", "what's wrong with my cv", "cv", "resume"}
	// resumeIntentKeywords gates the resume-data branch. Only explicit
	// evaluation intent counts there; the bare "cv"/"resume" catch-alls stay
	// in the message cascade so that e.g. a latex request carrying a resume
	// document is not hijacked into an evaluation.
	resumeIntentKeywords = []string{"evaluate my resume", "score my profile", "what's wrong with my cv", "evaluate"}
	jobKeywords       = []string{"best job for me", "job match", "compare job offers", "job offers"}
	recruiterKeywords = []string{"simulate interviewer", "ask me interview questions", "pretend to be a recruiter", "interviewer", "interview"}
	latexKeywords     = []string{"generate resume in latex", "latex cv", "create pdf resume", "latex"}
)

func containsAny(text string, keywords []string) bool {
	t := strings.ToLower(text)
	for _, k := range keywords {
		if strings.Contains(t, k) {
			return true
		}
	}
	return false
}

// present reports whether a raw JSON document actually carries data.
// An explicit JSON null counts as absent.
func present(doc json.RawMessage) bool {
	s := strings.TrimSpace(string(doc))
	return s != "" && s != "null"
}

// Classify resolves the mode for a request and returns the normalized payload
// with missing fields defaulted to empty.
//
// Priority cascade, first match wins:
//  1. resume and job offers present      -> job_match
//  2. resume present + evaluation intent -> resume_eval
//  3. job offers present                 -> job_match (wildcard by design:
//     offers alone imply matching, independent of message content)
//  4. keyword cascade over the message:
//     latex -> career -> recruiter -> job -> resume -> general
func Classify(req types.AssistRequest) (types.Mode, types.AssistRequest) {
	norm := types.AssistRequest{
		Message:   req.Message,
		Resume:    req.Resume,
		JobOffers: req.JobOffers,
		Context:   req.Context,
	}
	if norm.Context == nil {
		norm.Context = map[string]any{}
	}

	hasResume := present(norm.Resume)
	hasOffers := len(norm.JobOffers) > 0

	var mode types.Mode
	switch {
	case hasResume && hasOffers:
		mode = types.ModeJobMatch
	case hasResume && containsAny(norm.Message, resumeIntentKeywords):
		mode = types.ModeResumeEval
	case hasOffers:
		mode = types.ModeJobMatch
	case containsAny(norm.Message, latexKeywords):
		mode = types.ModeLatexResume
	case containsAny(norm.Message, careerKeywords):
		mode = types.ModeCareer
	case containsAny(norm.Message, recruiterKeywords):
		mode = types.ModeRecruiter
	case containsAny(norm.Message, jobKeywords):
		mode = types.ModeJobMatch
	case containsAny(norm.Message, resumeKeywords):
		mode = types.ModeResumeEval
	default:
		mode = types.ModeGeneral
	}
	return mode, norm
}
