package history

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestAppendWritesJSONLines(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HISTORY_DIR", dir)

	loc := time.UTC
	entries := []Entry{
		{Pair: "EUR/USD", Direction: "BUY", Entry: 1.1000, Exit: 1.1025, TakeProfit: 1.1020, StopLoss: 1.0985, Outcome: "WON"},
		{Pair: "USD/JPY", Direction: "SELL", Entry: 155.10, Exit: 155.30, TakeProfit: 154.90, StopLoss: 155.25, Outcome: "LOST"},
	}
	for _, e := range entries {
		if err := Append(e, loc); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	p := filepath.Join(dir, time.Now().In(loc).Format("2006-01-02")+".txt")
	f, err := os.Open(p)
	if err != nil {
		t.Fatalf("open daily file: %v", err)
	}
	defer f.Close()

	var got []Entry
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var e Entry
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			t.Fatalf("bad line %q: %v", sc.Text(), err)
		}
		got = append(got, e)
	}
	if len(got) != 2 {
		t.Fatalf("got %d entries, want 2", len(got))
	}
	if got[0].Pair != "EUR/USD" || got[0].Outcome != "WON" {
		t.Errorf("first entry = %+v", got[0])
	}
	if got[1].Pair != "USD/JPY" || got[1].Outcome != "LOST" {
		t.Errorf("second entry = %+v", got[1])
	}
	if got[0].Time == "" {
		t.Error("entry time should be stamped")
	}
}

func TestCompressOlder(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HISTORY_DIR", dir)

	old := filepath.Join(dir, "2020-01-01.txt")
	if err := os.WriteFile(old, []byte(`{"pair":"EUR/USD"}`+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	past := time.Now().AddDate(0, 0, -30)
	if err := os.Chtimes(old, past, past); err != nil {
		t.Fatal(err)
	}

	if err := CompressOlder(7); err != nil {
		t.Fatalf("CompressOlder: %v", err)
	}
	if _, err := os.Stat(old); !os.IsNotExist(err) {
		t.Error("original file should be removed after compression")
	}
	if _, err := os.Stat(old + ".gz"); err != nil {
		t.Errorf("gz file should exist: %v", err)
	}
}

func TestCompressOlderDisabled(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HISTORY_DIR", dir)
	recent := filepath.Join(dir, "recent.txt")
	if err := os.WriteFile(recent, []byte("{}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := CompressOlder(0); err != nil {
		t.Fatalf("CompressOlder(0): %v", err)
	}
	if _, err := os.Stat(recent); err != nil {
		t.Errorf("file should be untouched: %v", err)
	}
}
