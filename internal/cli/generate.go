package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"repeater-test-service/internal/app"
	"repeater-test-service/internal/config"
	"repeater-test-service/internal/domain"
	fileinfra "repeater-test-service/internal/infra/file"
	"repeater-test-service/internal/solution"
)

// NewGenerateCmd creates randomized solution keys for a range of instances.
func NewGenerateCmd(configPath *string) *cobra.Command {
	var (
		seed      int64
		first     int
		count     int
		out       string
		fieldsOut string
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate randomized per-instance solution keys",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			catalog, err := buildCatalog(cfg)
			if err != nil {
				return err
			}

			if first == 0 {
				first = cfg.Test.FirstInstanceID
			}
			if count == 0 {
				count = cfg.Test.InstanceCount
			}
			if out == "" {
				out = cfg.Data.SolutionsPath
			}
			if out == "" {
				return &domain.ConfigurationError{Reason: "no output path for solution set"}
			}

			set, err := solution.NewGenerator(seed).Set(catalog, first, count)
			if err != nil {
				return err
			}
			if err := fileinfra.SaveSolutionSet(out, set); err != nil {
				return err
			}
			fmt.Printf("wrote %d solution keys to %s\n", len(set), out)

			if fieldsOut == "" {
				return nil
			}
			return writeInstanceFields(fieldsOut, set, catalog)
		},
	}
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 uses the clock)")
	cmd.Flags().IntVar(&first, "first", 0, "first instance id")
	cmd.Flags().IntVar(&count, "count", 0, "number of instances")
	cmd.Flags().StringVar(&out, "out", "", "solution set output path")
	cmd.Flags().StringVar(&fieldsOut, "fields-out", "", "optional per-instance PDF field map output path")
	return cmd
}

// writeInstanceFields exports the ordered form field values each map PDF
// needs, keyed by instance id. The PDF tooling fills the documents from this
// artifact; no rendering happens here.
func writeInstanceFields(path string, set domain.SolutionSet, catalog *domain.Catalog) error {
	byInstance := make(map[string][]app.Field, len(set))
	for instanceID, key := range set {
		byInstance[instanceID] = app.InstanceFields(instanceID, key, catalog)
	}
	data, err := json.MarshalIndent(byInstance, "", "   ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write instance fields: %w", err)
	}
	fmt.Printf("wrote field maps for %d instances to %s\n", len(byInstance), path)
	return nil
}
