package index

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tuannm99/gorelix/internal/types"
)

func newTestIndex(t *testing.T) *Index {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.idx")
	require.NoError(t, Create(path, 4))
	idx, err := Open(path, types.KindInt)
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })
	return idx
}

func TestIndex_CreateOpenPersistsFanout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.idx")
	require.NoError(t, Create(path, 7))

	idx, err := Open(path, types.KindString)
	require.NoError(t, err)
	defer idx.Close()

	require.Equal(t, uint32(7), idx.n)
	require.Equal(t, types.KindString, idx.GetKeyType())
}

func TestIndex_InsertFindDeleteKey(t *testing.T) {
	idx := newTestIndex(t)

	require.NoError(t, idx.Insert(types.IntValue(5), types.RID{Page: 1, Slot: 0}))
	require.NoError(t, idx.Insert(types.IntValue(3), types.RID{Page: 1, Slot: 1}))

	rid, err := idx.Find(types.IntValue(5))
	require.NoError(t, err)
	require.Equal(t, types.RID{Page: 1, Slot: 0}, rid)

	_, err = idx.Find(types.IntValue(99))
	require.ErrorIs(t, err, ErrKeyNotFound)

	err = idx.Insert(types.IntValue(5), types.RID{Page: 2, Slot: 0})
	require.ErrorIs(t, err, ErrKeyAlreadyExists)

	require.NoError(t, idx.DeleteKey(types.IntValue(5)))
	_, err = idx.Find(types.IntValue(5))
	require.ErrorIs(t, err, ErrKeyNotFound)

	err = idx.DeleteKey(types.IntValue(5))
	require.ErrorIs(t, err, ErrKeyNotFound)
}

func TestIndex_OrderedScan(t *testing.T) {
	idx := newTestIndex(t)
	keys := []int32{5, 1, 4, 2, 3}
	for i, k := range keys {
		require.NoError(t, idx.Insert(types.IntValue(k), types.RID{Page: uint32(i + 1), Slot: 0}))
	}

	s := idx.OpenScan()
	var seen []uint32
	for {
		rid, err := s.NextEntry()
		if err == ErrNoMoreEntries {
			break
		}
		require.NoError(t, err)
		seen = append(seen, rid.Page)
	}
	require.NoError(t, s.Close())

	// Keys 1..5 were inserted at pages matching their insertion order
	// (5->1, 1->2, 4->3, 2->4, 3->5); sorted by key ascending, the RID
	// pages should come out 2, 4, 5, 3, 1.
	require.Equal(t, []uint32{2, 4, 5, 3, 1}, seen)
}

func TestIndex_GetNumEntriesAndNumNodes(t *testing.T) {
	idx := newTestIndex(t)
	require.NoError(t, idx.Insert(types.IntValue(1), types.RID{Page: 1, Slot: 0}))
	require.NoError(t, idx.Insert(types.IntValue(2), types.RID{Page: 1, Slot: 1}))
	require.NoError(t, idx.Insert(types.IntValue(3), types.RID{Page: 2, Slot: 0}))

	require.Equal(t, 3, idx.GetNumEntries())
	// entries 0,1 share page 1 -> one duplicate pair (i=1,j=0).
	require.Equal(t, 2, idx.GetNumNodes())
}

func TestDeleteIndex(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.idx")
	require.NoError(t, Create(path, 4))
	require.NoError(t, Delete(path))

	_, err := Open(path, types.KindInt)
	require.Error(t, err)
}
