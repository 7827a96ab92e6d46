package service

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/bytedance/sonic"

	"trend_bot/internal/models"
)

// File: журнал в JSON Lines, одна сделка на строку.
type File struct {
	path string
	mu   sync.Mutex
}

const defaultPath = "data/trades.jsonl"

func NewFile(path string) *File {
	if path == "" {
		path = defaultPath
	}
	return &File{path: path}
}

func (f *File) Record(ctx context.Context, rec models.TradeRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	line, err := sonic.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode trade: %w", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
		return err
	}
	fh, err := os.OpenFile(f.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open %s: %w", f.path, err)
	}
	defer fh.Close()

	if _, err := fh.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("write %s: %w", f.path, err)
	}
	return nil
}

// Recent: последние limit сделок, новые первыми.
func (f *File) Recent(ctx context.Context, limit int) ([]models.TradeRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	b, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", f.path, err)
	}

	var all []models.TradeRecord
	sc := bufio.NewScanner(bytes.NewReader(b))
	for sc.Scan() {
		line := bytes.TrimSpace(sc.Bytes())
		if len(line) == 0 {
			continue
		}
		var rec models.TradeRecord
		if err := sonic.Unmarshal(line, &rec); err != nil {
			return nil, fmt.Errorf("decode %s: %w", f.path, err)
		}
		all = append(all, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return newestFirst(all, limit), nil
}

func (f *File) Close() error { return nil }

func newestFirst(all []models.TradeRecord, limit int) []models.TradeRecord {
	if limit <= 0 || limit > len(all) {
		limit = len(all)
	}
	out := make([]models.TradeRecord, 0, limit)
	for i := len(all) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, all[i])
	}
	return out
}
