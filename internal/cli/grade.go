package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"repeater-test-service/internal/config"
	"repeater-test-service/internal/grading"
)

// NewGradeCmd grades a response document from disk, as if the webhook had
// delivered it, and prints the rendered report.
func NewGradeCmd(configPath *string) *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "grade",
		Short: "Grade a saved response document",
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

			fields, err := loadResponseDocument(path)
			if err != nil {
				return err
			}
			result, err := service.HandleSubmission(cmd.Context(), fields)
			if err != nil {
				return err
			}

			reg, err := service.Registry(cmd.Context())
			if err != nil {
				return err
			}
			rec, ok := reg.Get(result.ParticipantID)
			if !ok || rec.Report == nil {
				return fmt.Errorf("no report recorded for %s", result.ParticipantID)
			}
			fmt.Println(grading.Render(*rec.Report))
			return nil
		},
	}
	cmd.Flags().StringVar(&path, "file", "", "response document (JSON field map)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

// loadResponseDocument reads a saved webhook payload: a JSON object of field
// name to value, where nested parts stay as raw JSON text.
func loadResponseDocument(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var wrapped map[string]json.RawMessage
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	fields := make(map[string]string, len(wrapped))
	for name, value := range wrapped {
		var s string
		if err := json.Unmarshal(value, &s); err == nil {
			fields[name] = s
			continue
		}
		fields[name] = string(value)
	}
	return fields, nil
}
