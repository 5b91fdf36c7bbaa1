package cli

import (
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"repeater-test-service/internal/config"
)

// NewAssignCmd allocates instance ids to the roster, in roster order.
func NewAssignCmd(configPath *string) *cobra.Command {
	var first int
	cmd := &cobra.Command{
		Use:   "assign",
		Short: "Assign map instance ids to the participant roster",
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
			roster, err := loadRoster(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			if first == 0 {
				first = cfg.Test.FirstInstanceID
			}

			assigned, err := service.Assign(cmd.Context(), roster, first)
			if err != nil {
				return err
			}

			ids := make([]string, 0, len(assigned))
			for id := range assigned {
				ids = append(ids, id)
			}
			sort.Strings(ids)
			for _, id := range ids {
				fmt.Printf("%s -> %s\n", id, assigned[id])
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&first, "first", 0, "first instance id")
	return cmd
}
