package main

import (
	"fmt"
	"os"

	"github.com/aretw0/dyeflow/pkg/domain"
	"github.com/aretw0/dyeflow/pkg/schema"
	"github.com/aretw0/dyeflow/pkg/seed"
)

// readDocument decodes the snapshot file at path, or returns the starter
// document when path is empty.
func readDocument(path string) (*domain.Document, error) {
	if path == "" {
		return seed.Warehouse(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	doc, err := schema.Decode(data)
	if err != nil {
		return nil, describe(path, err)
	}
	return doc, nil
}

// describe expands a decode failure with its individual validation errors.
func describe(source string, err error) error {
	msg := fmt.Sprintf("%s: %v", source, err)
	for _, v := range schema.ValidationErrors(err) {
		msg += "\n  - " + v.Error()
	}
	return fmt.Errorf("%s", msg)
}

func argOrEmpty(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}
