package database

import (
	"testing"

	"github.com/akarpov88/petkeeper/internal/server/models"
	"github.com/stretchr/testify/require"
)

func TestMergePage_InterleavesBySeq(t *testing.T) {
	records := []models.StoredRecord{{RecordName: "r1", Seq: 1}, {RecordName: "r3", Seq: 5}}
	tombstones := []models.Tombstone{{RecordName: "r2", Seq: 3}}

	page := mergePage(records, tombstones, 10)

	require.False(t, page.More)
	require.Equal(t, int64(5), page.NextSeq)
	require.Len(t, page.Records, 2)
	require.Len(t, page.Tombstones, 1)
}

func TestMergePage_CutsToLimit(t *testing.T) {
	records := []models.StoredRecord{{RecordName: "r1", Seq: 1}, {RecordName: "r2", Seq: 2}}
	tombstones := []models.Tombstone{{RecordName: "r3", Seq: 3}}

	page := mergePage(records, tombstones, 2)

	require.True(t, page.More)
	require.Equal(t, int64(2), page.NextSeq)
	require.Len(t, page.Records, 2)
	require.Empty(t, page.Tombstones)
}

func TestMergePage_Empty(t *testing.T) {
	page := mergePage(nil, nil, 10)

	require.False(t, page.More)
	require.Equal(t, int64(0), page.NextSeq)
	require.Empty(t, page.Records)
	require.Empty(t, page.Tombstones)
}
