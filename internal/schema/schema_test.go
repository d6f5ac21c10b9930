package schema

import (
	"context"
	"testing"

	"github.com/koustreak/jobboard/internal/errs"
	"github.com/koustreak/jobboard/internal/repository"
	"github.com/koustreak/jobboard/internal/table"
	"github.com/koustreak/jobboard/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type note struct{ Body string }

func TestVerify_JobBoardSchema(t *testing.T) {
	store := testutil.NewJobBoardStore(t)

	err := Verify(context.Background(), store, repository.Descriptors()...)
	assert.NoError(t, err)
}

func TestCheck_ReportsMissingColumns(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewStore(t, `CREATE TABLE notes (id INTEGER PRIMARY KEY, body TEXT)`)

	good := table.MustNew("notes", "id",
		table.Col[note]("body", table.Text).Get(func(n *note) any { return n.Body }))
	badColumn := table.MustNew("notes", "id",
		table.Col[note]("content", table.Text).Get(func(n *note) any { return n.Body }))
	badTable := table.MustNew("memos", "id",
		table.Col[note]("body", table.Text).Get(func(n *note) any { return n.Body }))

	mismatches, err := Check(ctx, store, good, badColumn, badTable)
	require.NoError(t, err)
	require.Len(t, mismatches, 2)
	assert.Equal(t, "notes", mismatches[0].Table)
	assert.Equal(t, "memos", mismatches[1].Table)

	err = Verify(ctx, store, good, badTable)
	require.Error(t, err)
	assert.True(t, errs.IsConfig(err))
	assert.Contains(t, err.Error(), "memos")
}
