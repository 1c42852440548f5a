package scan

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tuannm99/gorelix/internal/record"
	"github.com/tuannm99/gorelix/internal/types"
)

func newScanTestTable(t *testing.T) *record.Table {
	t.Helper()
	schema := record.Schema{Attrs: []record.Attribute{
		{Name: "id", Kind: types.KindInt},
		{Name: "name", Kind: types.KindString, Len: 4},
	}}
	path := filepath.Join(t.TempDir(), "test.tbl")
	require.NoError(t, record.CreateTable(path, schema))
	tbl, err := record.OpenTable(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = tbl.Close() })
	return tbl
}

func TestScan_EmitsAllLiveRowsWithNilCond(t *testing.T) {
	tbl := newScanTestTable(t)
	for i := 1; i <= 3; i++ {
		_, err := tbl.Insert([]types.Value{types.IntValue(int32(i)), types.StringValue("x")})
		require.NoError(t, err)
	}

	s := StartScan(tbl, nil)
	var ids []int32
	for {
		_, values, err := s.Next()
		if err == ErrNoMoreTuples {
			break
		}
		require.NoError(t, err)
		ids = append(ids, values[0].I)
	}
	require.Equal(t, []int32{1, 2, 3}, ids)
}

func TestScan_FiltersByCondition(t *testing.T) {
	tbl := newScanTestTable(t)
	for i := 1; i <= 5; i++ {
		_, err := tbl.Insert([]types.Value{types.IntValue(int32(i)), types.StringValue("x")})
		require.NoError(t, err)
	}

	cond := Lt(AttrRef(0), Const(types.IntValue(3)))
	s := StartScan(tbl, cond)
	var ids []int32
	for {
		_, values, err := s.Next()
		if err == ErrNoMoreTuples {
			break
		}
		require.NoError(t, err)
		ids = append(ids, values[0].I)
	}
	require.Equal(t, []int32{1, 2}, ids)
}

func TestScan_DeleteHidesRowFromScan(t *testing.T) {
	tbl := newScanTestTable(t)
	var rids []types.RID
	for i := 1; i <= 3; i++ {
		rid, err := tbl.Insert([]types.Value{types.IntValue(int32(i)), types.StringValue("x")})
		require.NoError(t, err)
		rids = append(rids, rid)
	}

	require.NoError(t, tbl.Delete(rids[1]))

	s := StartScan(tbl, nil)
	var ids []int32
	for {
		_, values, err := s.Next()
		if err == ErrNoMoreTuples {
			break
		}
		require.NoError(t, err)
		ids = append(ids, values[0].I)
	}
	require.Equal(t, []int32{1, 3}, ids)
}

func TestScan_AndOrNot(t *testing.T) {
	tbl := newScanTestTable(t)
	for i := 1; i <= 4; i++ {
		_, err := tbl.Insert([]types.Value{types.IntValue(int32(i)), types.StringValue("x")})
		require.NoError(t, err)
	}

	// id = 1 OR id = 3
	cond := Or(Eq(AttrRef(0), Const(types.IntValue(1))), Eq(AttrRef(0), Const(types.IntValue(3))))
	s := StartScan(tbl, cond)
	var ids []int32
	for {
		_, values, err := s.Next()
		if err == ErrNoMoreTuples {
			break
		}
		require.NoError(t, err)
		ids = append(ids, values[0].I)
	}
	require.Equal(t, []int32{1, 3}, ids)

	notCond := Not(Eq(AttrRef(0), Const(types.IntValue(2))))
	s2 := StartScan(tbl, notCond)
	ids = nil
	for {
		_, values, err := s2.Next()
		if err == ErrNoMoreTuples {
			break
		}
		require.NoError(t, err)
		ids = append(ids, values[0].I)
	}
	require.Equal(t, []int32{1, 3, 4}, ids)
}

func TestScan_EmptyTableReturnsNoMoreTuplesImmediately(t *testing.T) {
	tbl := newScanTestTable(t)
	s := StartScan(tbl, nil)
	_, _, err := s.Next()
	require.ErrorIs(t, err, ErrNoMoreTuples)
}
