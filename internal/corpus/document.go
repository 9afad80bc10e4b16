// Package corpus holds the synopsis documents and answers similarity queries
// over them.
package corpus

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var ErrEmptyQuery = errors.New("query cannot be empty")

// Document is one non-blank line of the synopsis file. Content starts with the
// MAL_ID of the item it describes.
type Document struct {
	Position int
	Content  string
}

// Store answers nearest-neighbour queries over the documents.
type Store interface {
	// SimilaritySearch returns at most k documents, most similar first.
	SimilaritySearch(ctx context.Context, query string, k int) ([]Document, error)
	Len() int
}

func LoadDocuments(path string) ([]Document, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open documents file %s: %w", path, err)
	}
	defer file.Close()

	docs, err := ReadDocuments(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read documents file %s: %w", path, err)
	}
	return docs, nil
}

// ReadDocuments trims every line and skips the blank ones. Lines have no
// length limit.
func ReadDocuments(r io.Reader) ([]Document, error) {
	reader := bufio.NewReader(r)
	var docs []Document

	for {
		line, err := reader.ReadString('\n')
		if content := strings.TrimSpace(line); content != "" {
			docs = append(docs, Document{Position: len(docs), Content: content})
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
	}

	return docs, nil
}
