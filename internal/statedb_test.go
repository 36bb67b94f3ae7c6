package internal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/powperpay/reportctl/testutil"
)

func openTestDB(t *testing.T) *StateDB {
	t.Helper()
	dir := testutil.CreateTempDir(t)
	db, err := OpenStateDB(filepath.Join(dir, "state.db"))
	if err != nil {
		t.Fatalf("OpenStateDB() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestOpenStateDBCreatesDirectory(t *testing.T) {
	dir := testutil.CreateTempDir(t)
	path := filepath.Join(dir, "nested", "deeper", "state.db")

	db, err := OpenStateDB(path)
	if err != nil {
		t.Fatalf("OpenStateDB() error = %v", err)
	}
	defer func() { _ = db.Close() }()

	if _, err := os.Stat(filepath.Dir(path)); err != nil {
		t.Errorf("state directory was not created: %v", err)
	}
}

func TestStoreStateRoundTrip(t *testing.T) {
	db := openTestDB(t)

	store := NewReportStore(nil)
	store.Add(CreateTestReport("r1"))
	store.AdoptSession("conv-r1", "msg-1")

	if err := db.SaveStoreState(store.Snapshot()); err != nil {
		t.Fatalf("SaveStoreState() error = %v", err)
	}

	state, err := db.LoadStoreState()
	if err != nil {
		t.Fatalf("LoadStoreState() error = %v", err)
	}
	if state == nil {
		t.Fatal("LoadStoreState() = nil after save")
	}
	if len(state.Reports) != 1 || state.Reports[0].ID != "r1" {
		t.Errorf("reports = %+v", state.Reports)
	}
	if state.CurrentID != "r1" {
		t.Errorf("current id = %q, want r1", state.CurrentID)
	}
	if state.Session.ConversationID != "conv-r1" {
		t.Errorf("session = %+v", state.Session)
	}
}

func TestStoreStateOverwrite(t *testing.T) {
	db := openTestDB(t)

	first := NewReportStore(nil)
	first.Add(CreateTestReport("r1"))
	if err := db.SaveStoreState(first.Snapshot()); err != nil {
		t.Fatalf("first save error = %v", err)
	}

	second := NewReportStore(nil)
	second.Add(CreateTestReport("r2"))
	if err := db.SaveStoreState(second.Snapshot()); err != nil {
		t.Fatalf("second save error = %v", err)
	}

	state, err := db.LoadStoreState()
	if err != nil {
		t.Fatalf("LoadStoreState() error = %v", err)
	}
	if len(state.Reports) != 1 || state.Reports[0].ID != "r2" {
		t.Errorf("reports = %+v, want only r2", state.Reports)
	}
}

func TestLoadStoreStateEmpty(t *testing.T) {
	db := openTestDB(t)

	state, err := db.LoadStoreState()
	if err != nil {
		t.Errorf("LoadStoreState() error = %v", err)
	}
	if state != nil {
		t.Errorf("state = %+v, want nil when nothing saved", state)
	}
}

func TestLoadStoreStateCorrupt(t *testing.T) {
	dir := testutil.CreateTempDir(t)
	path := filepath.Join(dir, "state.db")
	testutil.CreateStateFixture(t, path, "{not json", "")

	db, err := OpenStateDB(path)
	if err != nil {
		t.Fatalf("OpenStateDB() error = %v", err)
	}
	defer func() { _ = db.Close() }()

	state, err := db.LoadStoreState()
	if err != nil {
		t.Errorf("corrupt state should be discarded, got error %v", err)
	}
	if state != nil {
		t.Errorf("state = %+v, want nil for corrupt snapshot", state)
	}
}

func TestHandoffConsumedExactlyOnce(t *testing.T) {
	db := openTestDB(t)

	payload := CreateTestHandoff("conv-1", 3)
	if err := db.WriteHandoff(payload); err != nil {
		t.Fatalf("WriteHandoff() error = %v", err)
	}

	got, err := db.ConsumeHandoff()
	if err != nil {
		t.Fatalf("ConsumeHandoff() error = %v", err)
	}
	if got == nil || got.ConversationID != "conv-1" || len(got.Messages) != 3 {
		t.Fatalf("payload = %+v", got)
	}

	again, err := db.ConsumeHandoff()
	if err != nil {
		t.Fatalf("second ConsumeHandoff() error = %v", err)
	}
	if again != nil {
		t.Errorf("second consume = %+v, want nil", again)
	}
}

func TestWriteHandoffReplacesPending(t *testing.T) {
	db := openTestDB(t)

	if err := db.WriteHandoff(CreateTestHandoff("conv-old", 1)); err != nil {
		t.Fatalf("WriteHandoff() error = %v", err)
	}
	if err := db.WriteHandoff(CreateTestHandoff("conv-new", 2)); err != nil {
		t.Fatalf("second WriteHandoff() error = %v", err)
	}

	got, err := db.ConsumeHandoff()
	if err != nil {
		t.Fatalf("ConsumeHandoff() error = %v", err)
	}
	if got.ConversationID != "conv-new" {
		t.Errorf("conversation = %q, want the replacement", got.ConversationID)
	}
}

func TestConsumeHandoffEmpty(t *testing.T) {
	db := openTestDB(t)

	payload, err := db.ConsumeHandoff()
	if err != nil {
		t.Errorf("ConsumeHandoff() error = %v", err)
	}
	if payload != nil {
		t.Errorf("payload = %+v, want nil", payload)
	}
}

func TestConsumeHandoffCorrupt(t *testing.T) {
	dir := testutil.CreateTempDir(t)
	path := filepath.Join(dir, "state.db")
	testutil.CreateStateFixture(t, path, "", "{broken")

	db, err := OpenStateDB(path)
	if err != nil {
		t.Fatalf("OpenStateDB() error = %v", err)
	}
	defer func() { _ = db.Close() }()

	payload, err := db.ConsumeHandoff()
	if err != nil {
		t.Errorf("corrupt payload should be discarded, got error %v", err)
	}
	if payload != nil {
		t.Errorf("payload = %+v, want nil", payload)
	}

	// The corrupt row is consumed too
	again, err := db.ConsumeHandoff()
	if err != nil || again != nil {
		t.Errorf("second consume = %+v, %v, want nil, nil", again, err)
	}
}
