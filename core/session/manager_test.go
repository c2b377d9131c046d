package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/edulearn/academy-go/storage/kv"
)

func setup(t *testing.T, expiry time.Duration) (*Manager, kv.Store) {
	t.Helper()
	store := kv.NewMemoryStore()
	t.Cleanup(func() { NowFunc = time.Now })
	return NewManager(store, expiry), store
}

func Test_Manager_SaveLoad(t *testing.T) {
	mgr, _ := setup(t, 24*time.Hour)

	issued := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	in := Session{Token: "tok-1", IssuedAt: issued, UserID: 7, Name: "Ada", Role: RoleAdmin}
	if err := mgr.Save(in); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	out := mgr.Load()
	assert.Equal(t, "tok-1", out.Token)
	assert.Equal(t, issued.UnixMilli(), out.IssuedAt.UnixMilli())
	assert.Equal(t, 7, out.UserID)
	assert.Equal(t, "Ada", out.Name)
	assert.Equal(t, RoleAdmin, out.Role)
	assert.True(t, out.IsAdmin())
}

func Test_Manager_Load_missingToken(t *testing.T) {
	mgr, _ := setup(t, 24*time.Hour)
	assert.Equal(t, Session{}, mgr.Load())
	assert.False(t, mgr.Active())
}

func Test_Manager_Save_stampsIssuedAt(t *testing.T) {
	mgr, store := setup(t, 24*time.Hour)

	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	NowFunc = func() time.Time { return now }

	if err := mgr.Save(Session{Token: "tok-2", UserID: 3}); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	raw, err := store.Get("tokenTime")
	if err != nil {
		t.Fatalf("tokenTime not persisted: %v", err)
	}
	assert.Equal(t, "1780315200000", raw)
	assert.Equal(t, now.UnixMilli(), mgr.Load().IssuedAt.UnixMilli())
}

func Test_Manager_Expired(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		age  time.Duration
		want bool
	}{
		{"fresh", time.Minute, false},
		{"just under ceiling", 24*time.Hour - time.Second, false},
		{"past ceiling", 24*time.Hour + time.Second, true},
		{"well past ceiling", 48 * time.Hour, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mgr, _ := setup(t, 24*time.Hour)
			NowFunc = func() time.Time { return now }
			if err := mgr.Save(Session{Token: "tok", IssuedAt: now.Add(-tt.age)}); err != nil {
				t.Fatalf("Save() failed: %v", err)
			}
			assert.Equal(t, tt.want, mgr.Expired())
		})
	}
}

func Test_Manager_Expired_noToken(t *testing.T) {
	mgr, _ := setup(t, 24*time.Hour)
	assert.True(t, mgr.Expired())
}

// A token stored without its issuance timestamp must be treated as freshly
// issued: judged valid and backfilled with a timestamp equal to now.
func Test_Manager_Expired_missingStampSelfHeals(t *testing.T) {
	mgr, store := setup(t, 24*time.Hour)

	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	NowFunc = func() time.Time { return now }

	if err := store.Set("token", "orphan"); err != nil {
		t.Fatalf("seeding store failed: %v", err)
	}

	assert.False(t, mgr.Expired())

	raw, err := store.Get("tokenTime")
	if err != nil {
		t.Fatalf("timestamp not backfilled: %v", err)
	}
	assert.Equal(t, "1780315200000", raw)

	// and the backfilled stamp makes later checks age normally
	NowFunc = func() time.Time { return now.Add(25 * time.Hour) }
	assert.True(t, mgr.Expired())
}

func Test_Manager_Expired_garbageStampFailsClosed(t *testing.T) {
	mgr, store := setup(t, 24*time.Hour)
	_ = store.Set("token", "tok")
	_ = store.Set("tokenTime", "not-a-number")
	assert.True(t, mgr.Expired())
}

func Test_Manager_Clear_idempotent(t *testing.T) {
	mgr, store := setup(t, 24*time.Hour)
	if err := mgr.Save(Session{Token: "tok", UserID: 1, Name: "x", Role: RoleStudent}); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	mgr.Clear()
	mgr.Clear() // second teardown must be a no-op, not a failure

	for _, key := range []string{"token", "tokenTime", "userId", "name", "role"} {
		_, err := store.Get(key)
		assert.ErrorIs(t, err, kv.ErrKeyNotFound, "key %q should be gone", key)
	}
	assert.False(t, mgr.Active())
}

func Test_Manager_RefreshStamp(t *testing.T) {
	mgr, store := setup(t, 24*time.Hour)

	issued := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	NowFunc = func() time.Time { return issued }
	if err := mgr.Save(Session{Token: "tok"}); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	later := issued.Add(23 * time.Hour)
	NowFunc = func() time.Time { return later }
	mgr.RefreshStamp()

	raw, _ := store.Get("tokenTime")
	assert.Equal(t, "1780354800000", raw)
	assert.False(t, mgr.Expired())
}

func Test_Manager_RefreshStamp_noSession(t *testing.T) {
	mgr, store := setup(t, 24*time.Hour)
	mgr.RefreshStamp()
	_, err := store.Get("tokenTime")
	assert.ErrorIs(t, err, kv.ErrKeyNotFound)
}

func Test_Session_roles(t *testing.T) {
	assert.True(t, Session{Role: RoleStudent}.IsStudent())
	assert.True(t, Session{Role: RoleInstructor}.IsInstructor())
	assert.True(t, Session{Role: RoleAdmin}.IsAdmin())
	assert.False(t, Session{}.IsAdmin())

	assert.True(t, ValidRole(RoleStudent))
	assert.False(t, ValidRole("SUPERUSER"))
}
