package assistctl

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

func defaultBaseURL() string {
	if v := os.Getenv("ASSISTD_URL"); v != "" {
		return v
	}
	return "http://127.0.0.1:8080"
}

// buildRootCmd constructs the Cobra command tree wired to a shared Config.
func buildRootCmd(cfg *Config) *cobra.Command {
	root := &cobra.Command{
		Use:           "assistctl",
		Short:         "Command line client for the assistd HTTP API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&cfg.BaseURL, "url", cfg.BaseURL, "assistd base URL (defaults ASSISTD_URL or http://127.0.0.1:8080)")
	root.PersistentFlags().DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "Request timeout")

	root.AddCommand(&cobra.Command{
		Use:   "health",
		Short: "Show service health",
		RunE: func(cmd *cobra.Command, args []string) error {
			return NewClient(cfg).Health()
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show service status, including the active adapter",
		RunE: func(cmd *cobra.Command, args []string) error {
			return NewClient(cfg).Status()
		},
	})

	root.AddCommand(&cobra.Command{
		Use:     "adapters",
		Short:   "List available adapters",
		Example: "  assistctl adapters",
		RunE: func(cmd *cobra.Command, args []string) error {
			return NewClient(cfg).Adapters()
		},
	})

	var resumePath, offersPath string
	ask := &cobra.Command{
		Use:     "ask [message]",
		Short:   "Send a message through intent routing",
		Example: "  assistctl ask \"how can I improve my skills\"\n  assistctl ask --resume resume.json --offers offers.json",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			msg := ""
			if len(args) == 1 {
				msg = args[0]
			}
			if msg == "" && resumePath == "" && offersPath == "" {
				return fmt.Errorf("nothing to send: give a message, --resume, or --offers")
			}
			return NewClient(cfg).Ask(msg, resumePath, offersPath)
		},
	}
	ask.Flags().StringVar(&resumePath, "resume", "", "Path to a resume JSON document")
	ask.Flags().StringVar(&offersPath, "offers", "", "Path to a JSON array of job offers")
	root.AddCommand(ask)

	var runResume, runOffers, runMessage string
	run := &cobra.Command{
		Use:       "run <adapter>",
		Short:     "Run a specific adapter, bypassing intent routing",
		Example:   "  assistctl run job_match --resume resume.json --offers offers.json\n  assistctl run recruiter_dialog --message \"tell me about the role\"",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"job_match", "resume_eval", "latex_resume", "recruiter_dialog"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return NewClient(cfg).Run(args[0], runMessage, runResume, runOffers)
		},
	}
	run.Flags().StringVar(&runMessage, "message", "", "Free-form message for dialog adapters")
	run.Flags().StringVar(&runResume, "resume", "", "Path to a resume JSON document")
	run.Flags().StringVar(&runOffers, "offers", "", "Path to a JSON array of job offers")
	root.AddCommand(run)

	return root
}

// Execute runs the CLI and returns a process exit code.
func Execute(args []string) int {
	cfg := &Config{BaseURL: defaultBaseURL(), Timeout: 5 * time.Minute}
	root := buildRootCmd(cfg)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		return 1
	}
	return 0
}
