package storage

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/wellmate-ai/wellmate/pkg/common/logger"
	"github.com/wellmate-ai/wellmate/pkg/common/models"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

func marshalRecord(t *testing.T, rec *models.ResultRecord) []byte {
	t.Helper()
	payload, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return payload
}

func TestSupersedesCached(t *testing.T) {
	cached := marshalRecord(t, record("u1", 300))

	cases := []struct {
		name      string
		cached    []byte
		timestamp int64
		want      bool
	}{
		{"newer replaces", cached, 400, true},
		{"equal replaces", cached, 300, true},
		{"older kept out", cached, 200, false},
		{"corrupt payload replaced", []byte("{not json"), 100, true},
	}
	for _, tc := range cases {
		if got := supersedesCached(tc.cached, tc.timestamp); got != tc.want {
			t.Fatalf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}

// unreachableRedis returns a client whose every command fails immediately, so
// the cached store must fall back to its inner store.
func unreachableRedis() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
}

func TestCachedStoreDegradesToInnerStore(t *testing.T) {
	ctx := context.Background()
	client := unreachableRedis()
	defer client.Close()
	store := NewCachedStore(NewMemoryStore(), client, time.Minute)

	for _, ts := range []int64{100, 300, 200} {
		if err := store.Insert(ctx, record("u1", ts)); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	latest, err := store.LatestFor(ctx, "u1")
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if latest.Timestamp != 300 {
		t.Fatalf("expected timestamp 300, got %d", latest.Timestamp)
	}

	records, err := store.RecentFor(ctx, "u1", 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
}
