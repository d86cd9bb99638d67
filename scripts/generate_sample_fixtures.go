//go:build ignore

package main

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"productapi/internal/model"
)

// Writes data/fixtures/products.jsonl.gz, one product per line, in the same
// wire format the API accepts on /create.
func main() {
	dataDir := "data/fixtures"

	// Create directory if it doesn't exist
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	products := []model.Product{
		{ID: 1, Name: "Oxford Shirt", Color: "Blue", Size: "M"},
		{ID: 2, Name: "Chinos", Color: "Khaki", Size: "32"},
		{ID: 3, Name: "Wool Scarf", Color: "Charcoal", Size: "OS"},
		{ID: 4, Name: "Running Shoes", Color: "White/Red", Size: "42"},
		{ID: 5, Name: "Rain Jacket", Color: "Olive", Size: "L"},
		{ID: 6, Name: "Beanie", Color: "Black", Size: "S"},
	}

	filePath := filepath.Join(dataDir, "products.jsonl.gz")
	if err := createFixtureFile(filePath, products); err != nil {
		log.Fatalf("Failed to create %s: %v", filePath, err)
	}

	fmt.Printf("Created %s with %d products\n", filePath, len(products))
}

func createFixtureFile(filePath string, products []model.Product) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)

	encoder := json.NewEncoder(gzipWriter)
	for _, p := range products {
		if err := encoder.Encode(model.EncodeProduct(p)); err != nil {
			return fmt.Errorf("failed to write product %d: %w", p.ID, err)
		}
	}

	if err := gzipWriter.Close(); err != nil {
		return fmt.Errorf("failed to close gzip writer: %w", err)
	}

	return nil
}
