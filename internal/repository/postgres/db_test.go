package postgres

import (
	"testing"

	"github.com/senoni-research/vn2inventory/internal/config"
)

func TestNewDB_FailedConnectIsNotCached(t *testing.T) {
	// Port 1 on loopback refuses immediately; no server required.
	cfg := &config.DatabaseConfig{
		Host:    "127.0.0.1",
		Port:    "1",
		User:    "nobody",
		DBName:  "nope",
		SSLMode: "disable",
	}

	db, err := NewDB(cfg)
	if err == nil {
		t.Fatal("NewDB against a closed port: err = nil, want connect error")
	}
	if db != nil {
		t.Fatalf("NewDB against a closed port: db = %v, want nil", db)
	}

	// The second call must report the failure again, not hand back a nil
	// pool without an error.
	db, err = NewDB(cfg)
	if err == nil {
		t.Fatal("second NewDB after failed connect: err = nil, want connect error")
	}
	if db != nil {
		t.Fatalf("second NewDB after failed connect: db = %v, want nil", db)
	}
}
