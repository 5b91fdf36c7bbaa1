package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"repeater-test-service/internal/config"
)

// NewSendCmd emails each participant their assignment. With no arguments the
// whole roster is mailed; otherwise only the named participant ids.
func NewSendCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "send [participantID...]",
		Short: "Email assignment links to participants",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

			service, err := buildService(cfg, logger)
			if err != nil {
				return err
			}
			return service.SendAssignments(cmd.Context(), args)
		},
	}
}
