package seed

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"

	"productapi/internal/model"

	"github.com/rs/zerolog"
)

// maxLineBytes bounds one fixture line.
const maxLineBytes = 1024 * 1024

// fileLoader implements Loader for gzipped fixture files on disk.
type fileLoader struct {
	logger zerolog.Logger
}

// NewFileLoader creates a new file-based fixture loader.
func NewFileLoader(logger zerolog.Logger) Loader {
	return &fileLoader{
		logger: logger.With().Str("component", "fixture-loader").Logger(),
	}
}

// Load reads a gzipped fixture file with one product object per line.
func (l *fileLoader) Load(ctx context.Context, filePath string) ([]model.Product, error) {
	l.logger.Info().Str("file", filePath).Msg("loading fixture file")

	file, err := os.Open(filePath)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("failed to open fixture file")
		return nil, fmt.Errorf("failed to open fixture file %s: %w", filePath, err)
	}
	defer file.Close()

	products, err := readFixtures(ctx, file)
	if err != nil {
		l.logger.Error().Err(err).Str("file", filePath).Msg("error reading fixture file")
		return nil, fmt.Errorf("error reading fixture file %s: %w", filePath, err)
	}

	l.logger.Info().
		Str("file", filePath).
		Int("products_loaded", len(products)).
		Msg("fixture file loaded successfully")

	return products, nil
}

// readFixtures decodes gzipped JSON lines with the same rules the API applies
// to request bodies. Blank lines are ignored.
func readFixtures(ctx context.Context, r io.Reader) ([]model.Product, error) {
	gzipReader, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer gzipReader.Close()

	scanner := bufio.NewScanner(gzipReader)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)

	products := make([]model.Product, 0)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		line := scanner.Bytes()
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}

		p, err := model.DecodeProduct(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		products = append(products, *p)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return products, nil
}
