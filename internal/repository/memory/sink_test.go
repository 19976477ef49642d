package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BarkinBalci/event-dataset-generator/internal/domain"
	"github.com/BarkinBalci/event-dataset-generator/internal/repository"
)

var _ repository.Store = (*Sink)(nil)

func TestSink_StagingAndPromote(t *testing.T) {
	ctx := context.Background()
	s := NewSink()

	require.NoError(t, s.InitSchema(ctx))
	require.NoError(t, s.InsertUsers(ctx, []domain.User{{UserID: 1}, {UserID: 2}}))
	assert.Empty(t, s.Live().Users)
	assert.Len(t, s.Staged().Users, 2)

	require.NoError(t, s.Promote(ctx))
	assert.Len(t, s.Live().Users, 2)
	assert.Empty(t, s.Staged().Users)

	require.NoError(t, s.InitSchema(ctx))
	require.NoError(t, s.InsertUsers(ctx, []domain.User{{UserID: 9}}))
	assert.Len(t, s.Live().Users, 2)
}

func TestSink_ListVersionsNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := NewSink()

	for _, id := range []int64{1, 2, 3} {
		require.NoError(t, s.AppendVersion(ctx, domain.DatasetVersion{VersionID: id}))
	}

	maxID, err := s.MaxVersionID(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), maxID)

	versions, err := s.ListVersions(ctx, 2)
	require.NoError(t, err)
	require.Len(t, versions, 2)
	assert.Equal(t, int64(3), versions[0].VersionID)
	assert.Equal(t, int64(2), versions[1].VersionID)
}
