package sqlite_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/helpdesk/attendance-engine/ledger"
	"github.com/helpdesk/attendance-engine/store/sqlite"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	st, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestStore_EmptyDatabase_HeaderOnly(t *testing.T) {
	st := newTestStore(t)

	rows, err := st.ReadAll(context.Background())
	require.NoError(t, err)

	require.Len(t, rows, 1)
	assert.Equal(t, ledger.Header(), rows[0])
}

func TestStore_AppendAndReadBack(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	row := []string{"10/03/2025", "Alice", "OS-123", "Entrada", "08:00:00", ""}
	require.NoError(t, st.AppendRow(ctx, row))

	rows, err := st.ReadAll(ctx)
	require.NoError(t, err)

	require.Len(t, rows, 2)
	assert.Equal(t, row, rows[1])
}

func TestStore_InsertionOrderPreserved(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		row := []string{"10/03/2025", fmt.Sprintf("emp-%d", i), "OS-1", "Entrada", "08:00:00", ""}
		require.NoError(t, st.AppendRow(ctx, row))
	}

	rows, err := st.ReadAll(ctx)
	require.NoError(t, err)

	require.Len(t, rows, 11)
	for i := 0; i < 10; i++ {
		assert.Equal(t, fmt.Sprintf("emp-%d", i), rows[i+1][1])
	}
}

func TestStore_ShortRow_Padded(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.AppendRow(ctx, []string{"10/03/2025", "Alice", "OS-1", "Entrada"}))

	rows, err := st.ReadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"10/03/2025", "Alice", "OS-1", "Entrada", "", ""}, rows[1])
}

func TestStore_WorksAsServiceBackend(t *testing.T) {
	st := newTestStore(t)
	clock := ledger.SystemClock{}
	cache := ledger.NewTTLCache(clock, 0)
	svc := ledger.NewService(st, cache, clock, 0)
	ctx := context.Background()

	_, err := svc.RecordEvent(ctx, "Alice", "OS-123", ledger.EventEntrada, time.Time{}, "")
	require.NoError(t, err)

	_, err = svc.RecordEvent(ctx, "Alice", "OS-123", ledger.EventEntrada, time.Time{}, "")
	assert.ErrorIs(t, err, ledger.ErrInvalidSequence, "sequence state survives the sqlite round-trip")
}
