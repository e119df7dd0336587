package router

import (
	"encoding/json"
	"testing"

	"assistd/pkg/types"
)

var (
	sampleResume = json.RawMessage(`{"name":"Alice","skills":["Go"]}`)
	sampleOffers = []json.RawMessage{json.RawMessage(`{"title":"SRE"}`)}
)

func TestResumeAndOffersAlwaysJobMatch(t *testing.T) {
	messages := []string{"", "evaluate my resume", "generate resume in LaTeX please", "random chatter"}
	for _, msg := range messages {
		mode, _ := Classify(types.AssistRequest{Message: msg, Resume: sampleResume, JobOffers: sampleOffers})
		if mode != types.ModeJobMatch {
			t.Fatalf("message %q: expected job_match, got %s", msg, mode)
		}
	}
}

func TestOffersAloneAlwaysJobMatch(t *testing.T) {
	for _, msg := range []string{"", "tell me a joke", "interview me"} {
		mode, _ := Classify(types.AssistRequest{Message: msg, JobOffers: sampleOffers})
		if mode != types.ModeJobMatch {
			t.Fatalf("message %q: expected job_match, got %s", msg, mode)
		}
	}
}

func TestResumeWithResumeKeywords(t *testing.T) {
	mode, _ := Classify(types.AssistRequest{Message: "please evaluate my resume", Resume: sampleResume})
	if mode != types.ModeResumeEval {
		t.Fatalf("expected resume_eval, got %s", mode)
	}
	// bare "evaluate" also satisfies the resume-data branch
	mode, _ = Classify(types.AssistRequest{Message: "evaluate this", Resume: sampleResume})
	if mode != types.ModeResumeEval {
		t.Fatalf("expected resume_eval, got %s", mode)
	}
}

func TestLatexKeywordWinsOverResumeData(t *testing.T) {
	// A latex request carrying a resume document states generation intent,
	// not evaluation intent, so the resume-data branch must not hijack it.
	mode, _ := Classify(types.AssistRequest{Message: "generate resume in latex", Resume: sampleResume})
	if mode != types.ModeLatexResume {
		t.Fatalf("expected latex_resume, got %s", mode)
	}
	mode, _ = Classify(types.AssistRequest{Message: "latex cv please"})
	if mode != types.ModeLatexResume {
		t.Fatalf("expected latex_resume, got %s", mode)
	}
}

func TestKeywordCascadeOrder(t *testing.T) {
	cases := []struct {
		msg  string
		want types.Mode
	}{
		{"generate resume in latex", types.ModeLatexResume}, // latex beats resume keyword
		{"how can I improve my skills", types.ModeCareer},
		{"pretend to be a recruiter", types.ModeRecruiter},
		{"career advice for an interviewer role", types.ModeCareer}, // career beats recruiter
		{"what is the best job for me", types.ModeJobMatch},
		{"what's wrong with my cv", types.ModeResumeEval},
		{"hello there", types.ModeGeneral},
		{"", types.ModeGeneral},
	}
	for _, c := range cases {
		mode, _ := Classify(types.AssistRequest{Message: c.msg})
		if mode != c.want {
			t.Fatalf("message %q: expected %s, got %s", c.msg, c.want, mode)
		}
	}
}

func TestMatchingIsCaseInsensitive(t *testing.T) {
	mode, _ := Classify(types.AssistRequest{Message: "LaTeX CV"})
	if mode != types.ModeLatexResume {
		t.Fatalf("expected latex_resume, got %s", mode)
	}
	mode, _ = Classify(types.AssistRequest{Message: "CAREER"})
	if mode != types.ModeCareer {
		t.Fatalf("expected career, got %s", mode)
	}
}

func TestExplicitNullResumeIsAbsent(t *testing.T) {
	mode, _ := Classify(types.AssistRequest{Message: "hello", Resume: json.RawMessage(`null`)})
	if mode != types.ModeGeneral {
		t.Fatalf("expected general for null resume, got %s", mode)
	}
}

func TestNormalizationDefaults(t *testing.T) {
	mode, norm := Classify(types.AssistRequest{})
	if mode != types.ModeGeneral {
		t.Fatalf("expected general, got %s", mode)
	}
	if norm.Message != "" {
		t.Fatalf("expected empty message, got %q", norm.Message)
	}
	if norm.Context == nil {
		t.Fatalf("context must be defaulted, not nil")
	}
	if norm.Resume != nil || norm.JobOffers != nil {
		t.Fatalf("absent documents must stay empty: %+v", norm)
	}
}
