package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"repeater-test-service/internal/config"
	"repeater-test-service/internal/domain"
	"repeater-test-service/internal/solution"
)

// NewValidateCmd checks the hand-authored scenario solutions against the
// catalog and prints every defect found.
func NewValidateCmd(configPath *string) *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the scenario solution document",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			catalog, err := buildCatalog(cfg)
			if err != nil {
				return err
			}
			if path == "" {
				path = cfg.Data.ScenariosPath
			}
			if path == "" {
				return &domain.ConfigurationError{Reason: "no scenario solution path configured"}
			}

			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			var raw solution.RawScenarioSet
			if err := json.Unmarshal(data, &raw); err != nil {
				return fmt.Errorf("decode %s: %w", path, err)
			}

			issues := solution.Validate(raw, catalog)
			for _, issue := range issues {
				fmt.Println(issue.String())
			}
			if len(issues) > 0 {
				return fmt.Errorf("%d issue(s) found in %s", len(issues), path)
			}
			fmt.Printf("%s: %d scenarios, no issues\n", path, len(raw))
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "file", "", "scenario solution document to validate")
	return cmd
}
