// Package history keeps an append-only daily log of resolved signals as
// JSON lines, one file per local day.
package history

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"
)

var mu sync.Mutex

// Entry records one resolved signal.
type Entry struct {
	Time       string  `json:"time"`
	Pair       string  `json:"pair"`
	Direction  string  `json:"direction"`
	Entry      float64 `json:"entry"`
	Exit       float64 `json:"exit"`
	TakeProfit float64 `json:"tp"`
	StopLoss   float64 `json:"sl"`
	Outcome    string  `json:"outcome"`
}

func historyDir() string {
	if v := os.Getenv("HISTORY_DIR"); v != "" {
		return v
	}
	return filepath.Join("data", "history")
}

func dailyFilepath(t time.Time, loc *time.Location) string {
	return filepath.Join(historyDir(), t.In(loc).Format("2006-01-02")+".txt")
}

// Append writes the entry to today's file, stamping it in the given
// location.
func Append(e Entry, loc *time.Location) error {
	mu.Lock()
	defer mu.Unlock()
	now := time.Now().In(loc)
	e.Time = now.Format("2006-01-02 15:04:05")
	p := dailyFilepath(now, loc)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(p, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	b, _ := json.Marshal(e)
	_, err = fmt.Fprintln(f, string(b))
	return err
}

// CompressOlder gzips history files older than retentionDays and removes
// the originals. A zero or negative retention disables compression.
func CompressOlder(retentionDays int) error {
	if retentionDays <= 0 {
		return nil
	}
	root := historyDir()
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	return filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil || d.IsDir() || filepath.Ext(p) != ".txt" {
			return nil
		}
		info, er := os.Stat(p)
		if er != nil || !info.ModTime().Before(cutoff) {
			return nil
		}
		gz := p + ".gz"
		if _, e2 := os.Stat(gz); e2 == nil {
			_ = os.Remove(p)
			return nil
		}
		in, e3 := os.Open(p)
		if e3 != nil {
			return nil
		}
		defer in.Close()
		out, e4 := os.OpenFile(gz, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
		if e4 != nil {
			return nil
		}
		gw := gzip.NewWriter(out)
		if _, e5 := io.Copy(gw, in); e5 == nil {
			_ = gw.Close()
			_ = out.Close()
			_ = os.Remove(p)
		} else {
			_ = gw.Close()
			_ = out.Close()
		}
		return nil
	})
}
