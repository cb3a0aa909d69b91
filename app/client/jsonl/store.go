package jsonl

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"casebot/app/config"

	"github.com/samber/do"
)

// Store appends sink documents to a JSON-lines file. It stands in for mongo in development.
type Store struct {
	path string
	mu   sync.Mutex
}

type line struct {
	Collection string         `json:"collection"`
	At         time.Time      `json:"at"`
	Document   map[string]any `json:"document"`
}

func New(di *do.Injector) (*Store, error) {
	cfg := do.MustInvoke[*config.Config](di)

	return Open(cfg.Journal.Path)
}

func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		_ = os.MkdirAll(dir, 0755)
	}

	file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create journal file: %w", err)
	}
	defer file.Close()

	return &Store{
		path: path,
	}, nil
}

func (s *Store) Insert(_ context.Context, collection string, document map[string]any) error {
	data, err := json.Marshal(line{
		Collection: collection,
		At:         time.Now().UTC(),
		Document:   document,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := os.OpenFile(s.path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open journal file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	if _, err = writer.WriteString(string(data) + "\n"); err != nil {
		return fmt.Errorf("failed to write document: %w", err)
	}

	if err = writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush writer: %w", err)
	}

	return nil
}

// Documents reads back every document of a collection in write order.
func (s *Store) Documents(collection string) ([]map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := os.OpenFile(s.path, os.O_RDONLY|os.O_CREATE, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal file: %w", err)
	}
	defer file.Close()

	var result []map[string]any

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		var item line
		if err = json.Unmarshal([]byte(text), &item); err != nil {
			return nil, fmt.Errorf("failed to parse JSON line: %w", err)
		}

		if item.Collection == collection {
			result = append(result, item.Document)
		}
	}

	if err = scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading journal file: %w", err)
	}

	return result, nil
}
