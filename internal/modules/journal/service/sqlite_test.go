package service

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"trend_bot/internal/models"
)

func TestSQLiteRecordAndRecent(t *testing.T) {
	ctx := context.Background()
	j, err := NewSQLite(ctx, filepath.Join(t.TempDir(), "trades.db"))
	if err != nil {
		if strings.Contains(err.Error(), "cgo") {
			t.Skip("go-sqlite3 built without cgo")
		}
		t.Fatalf("NewSQLite: %v", err)
	}
	defer j.Close()

	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	if err := j.Record(ctx, models.TradeRecord{
		Time: at, FIGI: "BBG004730N88", Action: models.SideBuy, Price: 250.5, Lots: 2, Shares: 20, Reason: "uptrend", OrderID: "o-1",
	}); err != nil {
		t.Fatalf("Record: %v", err)
	}

	got, err := j.Recent(ctx, 5)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 1 || got[0].Price != 250.5 || got[0].Shares != 20 || got[0].Action != models.SideBuy || !got[0].Time.Equal(at) {
		t.Fatalf("rows: %+v", got)
	}
}
