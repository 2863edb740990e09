package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/repair-service/internal/domain"
	"github.com/spec-kit/repair-service/internal/persistence"
)

func strPtr(s string) *string { return &s }

func TestLoadAllAbsentCollectionIsEmpty(t *testing.T) {
	backend := persistence.NewMemory()
	users, err := NewUserRepository(backend).LoadAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, users)
	assert.Empty(t, users)

	tickets, err := NewTicketRepository(backend).LoadAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, tickets)
}

func TestLoadAllToleratesUnknownAndMissingFields(t *testing.T) {
	ctx := context.Background()
	backend := persistence.NewMemory()
	require.NoError(t, backend.Put(ctx, UsersKey, []byte(`[
		{"id":"u1","name":"Ann","role":"tech","pin":"1111","nfcId":null,"colour":"blue"},
		{"id":"u2","name":"Ben"}
	]`)))

	users, err := NewUserRepository(backend).LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "Ann", users[0].Name)
	assert.Nil(t, users[0].NfcID)
	assert.Equal(t, domain.Role(""), users[1].Role)
	assert.Empty(t, users[1].PIN)
}

func TestLoadAllNullCollection(t *testing.T) {
	ctx := context.Background()
	backend := persistence.NewMemory()
	require.NoError(t, backend.Put(ctx, TicketsKey, []byte(`null`)))
	tickets, err := NewTicketRepository(backend).LoadAll(ctx)
	require.NoError(t, err)
	assert.NotNil(t, tickets)
	assert.Empty(t, tickets)
}

func TestLoadAllCorruptCollection(t *testing.T) {
	ctx := context.Background()
	backend := persistence.NewMemory()
	require.NoError(t, backend.Put(ctx, TicketsKey, []byte(`{not json`)))
	_, err := NewTicketRepository(backend).LoadAll(ctx)
	require.Error(t, err)
}

func TestSaveAllRoundTripPreservesOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewTicketRepository(persistence.NewMemory())
	created := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	in := []domain.Ticket{
		{ID: "t2", CreatedAt: created.Add(time.Hour), Status: domain.TicketStatusReady, VIN: "1HGCM82633A004352", Customer: "Alice"},
		{ID: "t1", CreatedAt: created, Status: domain.TicketStatusReceived, VIN: "JH4KA7561PC008269", Customer: "Bob"},
	}
	require.NoError(t, repo.SaveAll(ctx, in))

	out, err := repo.LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "t2", out[0].ID)
	assert.True(t, created.Equal(out[1].CreatedAt))
	assert.Equal(t, domain.TicketStatusReady, out[0].Status)
}

func TestSaveAllWritesCamelCaseKeys(t *testing.T) {
	ctx := context.Background()
	backend := persistence.NewMemory()
	require.NoError(t, NewUserRepository(backend).SaveAll(ctx, []domain.User{
		{ID: "u1", Name: "Ann", Role: domain.RoleTech, PIN: "1", NfcID: strPtr("u1")},
	}))
	raw, ok, err := backend.Get(ctx, UsersKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `[{"id":"u1","name":"Ann","role":"tech","pin":"1","nfcId":"u1"}]`, string(raw))
}

func TestSaveAllNilWritesEmptyArray(t *testing.T) {
	ctx := context.Background()
	backend := persistence.NewMemory()
	require.NoError(t, NewUserRepository(backend).SaveAll(ctx, nil))
	raw, _, _ := backend.Get(ctx, UsersKey)
	assert.Equal(t, "[]", string(raw))
}

func TestSessionRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewSessionRepository(persistence.NewMemory(), time.Hour)

	_, ok, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, ok)

	user := domain.User{ID: "u1", Name: "Ann", Role: domain.RoleAdmin}
	require.NoError(t, repo.Set(ctx, "s1", user))

	got, ok, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, user, *got)

	_, ok, _ = repo.Get(ctx, "s2")
	assert.False(t, ok, "slots are scoped per session")

	require.NoError(t, repo.Clear(ctx, "s1"))
	_, ok, _ = repo.Get(ctx, "s1")
	assert.False(t, ok)
}

func TestSessionRepositoryWithoutExpirer(t *testing.T) {
	ctx := context.Background()
	f, err := persistence.NewFile(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })

	repo := NewSessionRepository(f, time.Hour)
	require.NoError(t, repo.Set(ctx, "abc", domain.User{ID: "u1"}))
	got, ok, err := repo.Get(ctx, "abc")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "u1", got.ID)
}

func TestSeedIfEmpty(t *testing.T) {
	ctx := context.Background()
	backend := persistence.NewMemory()

	res, err := SeedIfEmpty(ctx, backend, "")
	require.NoError(t, err)
	require.True(t, res.Seeded())
	require.NotNil(t, res.Admin)
	assert.True(t, res.Tickets)

	users, err := NewUserRepository(backend).LoadAll(ctx)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, domain.RoleAdmin, users[0].Role)
	assert.Equal(t, DefaultAdminPIN, users[0].PIN)
	assert.Equal(t, "Administrator", users[0].Name)
	assert.Nil(t, users[0].NfcID)
	assert.NotEmpty(t, users[0].ID)

	_, ok, _ := backend.Get(ctx, TicketsKey)
	assert.True(t, ok, "ticket collection must be initialized")

	res, err = SeedIfEmpty(ctx, backend, "")
	require.NoError(t, err)
	assert.False(t, res.Seeded(), "second seed must be a no-op")

	users, _ = NewUserRepository(backend).LoadAll(ctx)
	assert.Len(t, users, 1)
}

func TestSeedIfEmptyKeepsEmptyExistingCollection(t *testing.T) {
	ctx := context.Background()
	backend := persistence.NewMemory()
	require.NoError(t, NewUserRepository(backend).SaveAll(ctx, []domain.User{}))

	res, err := SeedIfEmpty(ctx, backend, "9999")
	require.NoError(t, err)
	assert.Nil(t, res.Admin, "present-but-empty user collection is not reseeded")
	assert.True(t, res.Tickets)
}

func TestSeedIfEmptyCustomPIN(t *testing.T) {
	ctx := context.Background()
	backend := persistence.NewMemory()
	res, err := SeedIfEmpty(ctx, backend, "5678")
	require.NoError(t, err)
	assert.Equal(t, "5678", res.Admin.PIN)
}
