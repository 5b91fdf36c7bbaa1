package app

import (
	"context"
	"strings"

	"repeater-test-service/internal/domain"
)

// Field is one form field handed to the PDF collaborator, which fills and
// flattens the map document per instance. Field order matters to the
// collaborator, so this is a slice rather than a map.
type Field struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// InstanceRenderer is the PDF collaborator boundary: it receives the ordered
// field map for one instance and produces the flattened document.
type InstanceRenderer interface {
	Render(ctx context.Context, instanceID string, fields []Field) error
}

// InstanceFields builds the renderer input for one instance: one field per
// catalog item (field name is the item name with spaces removed, matching the
// fillable-document naming convention) plus the MAPID field.
func InstanceFields(instanceID string, key domain.SolutionKey, catalog *domain.Catalog) []Field {
	items := catalog.Items()
	fields := make([]Field, 0, len(items)+1)
	for _, item := range items {
		fields = append(fields, Field{
			Name:  strings.ReplaceAll(item, " ", ""),
			Value: string(key[item]),
		})
	}
	fields = append(fields, Field{Name: "MAPID", Value: instanceID})
	return fields
}
