package types

// Mode is the classified purpose of an inbound assistant request.
type Mode string

const (
	ModeGeneral     Mode = "general"
	ModeCareer      Mode = "career"
	ModeResumeEval  Mode = "resume_eval"
	ModeJobMatch    Mode = "job_match"
	ModeRecruiter   Mode = "recruiter"
	ModeLatexResume Mode = "latex_resume"
)

// AdapterInfo describes a LoRA adapter discovered on disk.
type AdapterInfo struct {
	// Directory name of the adapter, used as its identifier.
	// example: job_match
	Name string `json:"name" example:"job_match"`
	// Absolute path to the adapter directory.
	// example: /srv/lora_adapters/job_match
	Path string `json:"path" example:"/srv/lora_adapters/job_match"`
	// True iff the required weight artifact exists directly under Path.
	// example: true
	Valid bool `json:"valid" example:"true"`
}
