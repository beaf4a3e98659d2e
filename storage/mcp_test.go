package storage

import (
	"errors"
	"reflect"
	"testing"
)

type failingKV struct{}

func (failingKV) Get(string) (string, bool, error) { return "", false, errors.New("disk on fire") }
func (failingKV) Set(string, string) error         { return errors.New("quota exceeded") }
func (failingKV) Remove(string) error              { return errors.New("read-only") }

func sampleServers() []StoredServer {
	return []StoredServer{
		{URL: "http://localhost:3000", Status: "disconnected"},
		{URL: "http://tools.internal:8080", Status: "error", Error: "refused"},
		{URL: "https://search.example.com/mcp", Status: "connected", LastConnected: "2026-10-19T08:30:00Z"},
	}
}

func TestMCPServersRoundTrip(t *testing.T) {
	dir := t.TempDir()

	kv, err := NewSQLiteKV(dir)
	if err != nil {
		t.Fatalf("NewSQLiteKV: %v", err)
	}
	NewMCPStorage(kv).SaveMCPServers(sampleServers())
	if err := kv.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// Reopen to simulate a restart.
	kv, err = NewSQLiteKV(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer kv.Close()

	got := NewMCPStorage(kv).MCPServers()
	if !reflect.DeepEqual(got, sampleServers()) {
		t.Errorf("round trip mismatch:\n got %#v\nwant %#v", got, sampleServers())
	}
}

func TestMCPSessionRoundTrip(t *testing.T) {
	s := NewMCPStorage(NewMemoryKV())

	want := StoredSession{
		SessionID:    "s1",
		Success:      false,
		FallbackMode: true,
		Timestamp:    "2026-10-19T08:30:00Z",
	}
	s.SaveMCPSession(want)

	got := s.MCPSession()
	if got == nil {
		t.Fatal("expected stored session, got nil")
	}
	if *got != want {
		t.Errorf("got %#v, want %#v", *got, want)
	}
}

func TestMissingKeys(t *testing.T) {
	s := NewMCPStorage(NewMemoryKV())

	servers := s.MCPServers()
	if servers == nil || len(servers) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", servers)
	}
	if session := s.MCPSession(); session != nil {
		t.Errorf("expected nil session, got %#v", session)
	}
}

func TestMalformedValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"servers garbage", KeyMCPServers, "{not json"},
		{"servers wrong shape", KeyMCPServers, `{"url":"x"}`},
		{"servers null", KeyMCPServers, "null"},
		{"session garbage", KeyMCPSession, "]]"},
		{"session wrong shape", KeyMCPSession, `[1,2,3]`},
		{"session null", KeyMCPSession, "null"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := NewMemoryKV()
			kv.Set(tt.key, tt.value)
			s := NewMCPStorage(kv)

			if servers := s.MCPServers(); len(servers) != 0 {
				t.Errorf("expected no servers, got %#v", servers)
			}
			if session := s.MCPSession(); session != nil {
				t.Errorf("expected nil session, got %#v", session)
			}
		})
	}
}

func TestUnavailableStorageIsNoop(t *testing.T) {
	s := NewMCPStorage(nil)

	if s.Available() {
		t.Fatal("storage without a KVStore must report unavailable")
	}

	s.SaveMCPServers(sampleServers())
	s.SaveMCPSession(StoredSession{SessionID: "s1"})
	s.ClearMCPSession()
	s.ClearAllMCPData()

	if servers := s.MCPServers(); len(servers) != 0 {
		t.Errorf("expected no servers, got %#v", servers)
	}
	if session := s.MCPSession(); session != nil {
		t.Errorf("expected nil session, got %#v", session)
	}

	var nilStorage *MCPStorage
	if nilStorage.Available() {
		t.Error("nil *MCPStorage must report unavailable")
	}
}

func TestFailingStoreNeverSurfaces(t *testing.T) {
	s := NewMCPStorage(failingKV{})

	s.SaveMCPServers(sampleServers())
	s.SaveMCPSession(StoredSession{SessionID: "s1"})
	s.ClearMCPSession()
	s.ClearAllMCPData()

	if servers := s.MCPServers(); len(servers) != 0 {
		t.Errorf("expected no servers, got %#v", servers)
	}
	if session := s.MCPSession(); session != nil {
		t.Errorf("expected nil session, got %#v", session)
	}
}

func TestClear(t *testing.T) {
	kv := NewMemoryKV()
	s := NewMCPStorage(kv)

	s.SaveMCPServers(sampleServers())
	s.SaveMCPSession(StoredSession{SessionID: "s1", Success: true})

	s.ClearMCPSession()
	if s.MCPSession() != nil {
		t.Error("session should be cleared")
	}
	if len(s.MCPServers()) != 3 {
		t.Error("ClearMCPSession must not touch the registry")
	}

	s.SaveMCPSession(StoredSession{SessionID: "s2"})
	s.ClearAllMCPData()
	if s.MCPSession() != nil || len(s.MCPServers()) != 0 {
		t.Error("ClearAllMCPData should remove both keys")
	}
}

func TestSaveNilServersWritesEmptyArray(t *testing.T) {
	kv := NewMemoryKV()
	NewMCPStorage(kv).SaveMCPServers(nil)

	raw, ok, _ := kv.Get(KeyMCPServers)
	if !ok || raw != "[]" {
		t.Errorf("expected [] to be stored, got %q (ok=%v)", raw, ok)
	}
}
