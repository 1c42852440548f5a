package bufferpool

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tuannm99/gorelix/internal/storage"
)

func newTestFile(t *testing.T, pages int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.tbl")
	require.NoError(t, storage.CreatePageFile(path))
	f, err := storage.OpenPageFile(path)
	require.NoError(t, err)
	require.NoError(t, f.EnsureCapacity(pages))
	require.NoError(t, f.Close())
	return path
}

func TestPool_FIFOEviction(t *testing.T) {
	path := newTestFile(t, 10)
	pool, err := NewPool(path, 3, FIFO)
	require.NoError(t, err)

	h1, err := pool.Pin(1)
	require.NoError(t, err)
	_, err = pool.Pin(2)
	require.NoError(t, err)
	_, err = pool.Pin(3)
	require.NoError(t, err)

	require.NoError(t, pool.Unpin(h1))

	h4, err := pool.Pin(4)
	require.NoError(t, err)

	require.Equal(t, []int{4, 2, 3}, pool.FramePages())
	require.Equal(t, 4, pool.Reads())
	require.Equal(t, 0, pool.Writes())
	require.Equal(t, h4.Page, 4)

	// No frame was evicted while pinned: pages 2 and 3 are untouched.
	fix := pool.FrameFixCount()
	require.Equal(t, 1, fix[1])
	require.Equal(t, 1, fix[2])
}

func TestPool_LRUReorderOnHit(t *testing.T) {
	path := newTestFile(t, 10)
	pool, err := NewPool(path, 3, LRU)
	require.NoError(t, err)

	h1, err := pool.Pin(1)
	require.NoError(t, err)
	h2, err := pool.Pin(2)
	require.NoError(t, err)
	h3, err := pool.Pin(3)
	require.NoError(t, err)

	// Make every frame eligible for eviction, then re-pin 1 so it
	// becomes the most recently used; 2 is now the least recently
	// used of the three.
	require.NoError(t, pool.Unpin(h1))
	require.NoError(t, pool.Unpin(h2))
	require.NoError(t, pool.Unpin(h3))

	h1b, err := pool.Pin(1)
	require.NoError(t, err)
	require.NoError(t, pool.Unpin(h1b))

	_, err = pool.Pin(4)
	require.NoError(t, err)

	pages := pool.FramePages()
	require.NotContains(t, pages, 2, "page 2 should have been evicted as least-recently-used")
	require.Contains(t, pages, 3)
	require.Contains(t, pages, 1)
	require.Contains(t, pages, 4)
}

func TestPool_NoUnpinnedFrame(t *testing.T) {
	path := newTestFile(t, 10)
	pool, err := NewPool(path, 1, FIFO)
	require.NoError(t, err)

	_, err = pool.Pin(0)
	require.NoError(t, err)

	_, err = pool.Pin(1)
	require.ErrorIs(t, err, ErrNoUnpinnedFrame)
}

func TestPool_ForceFlush(t *testing.T) {
	path := newTestFile(t, 10)
	pool, err := NewPool(path, 3, FIFO)
	require.NoError(t, err)

	h, err := pool.Pin(2)
	require.NoError(t, err)
	h.Data[0] = 0x42
	require.NoError(t, pool.MarkDirty(h))
	require.NoError(t, pool.Unpin(h))

	require.NoError(t, pool.ForceFlushPool())
	require.False(t, pool.FrameDirty()[0])
	require.Equal(t, 1, pool.Writes())

	// Reopen the file outside the pool and verify the flush landed.
	f, err := storage.OpenPageFile(path)
	require.NoError(t, err)
	defer f.Close()

	buf := make([]byte, storage.PageSize)
	require.NoError(t, f.ReadBlock(2, buf))
	require.Equal(t, byte(0x42), buf[0])
}

func TestPool_ForceFlush_SkipsPinnedDirtyFrames(t *testing.T) {
	path := newTestFile(t, 10)
	pool, err := NewPool(path, 2, FIFO)
	require.NoError(t, err)

	h, err := pool.Pin(0)
	require.NoError(t, err)
	require.NoError(t, pool.MarkDirty(h))

	require.NoError(t, pool.ForceFlushPool())
	require.True(t, pool.FrameDirty()[0], "a pinned dirty frame must remain dirty across a flush")
}

func TestPool_UnpinUnknownPage(t *testing.T) {
	path := newTestFile(t, 10)
	pool, err := NewPool(path, 1, FIFO)
	require.NoError(t, err)

	err = pool.Unpin(PageHandle{Page: 5})
	require.ErrorIs(t, err, ErrPageNotInCache)
}

func TestPool_ShutdownFailsWithPinnedPages(t *testing.T) {
	path := newTestFile(t, 10)
	pool, err := NewPool(path, 1, FIFO)
	require.NoError(t, err)

	_, err = pool.Pin(0)
	require.NoError(t, err)

	err = pool.Shutdown()
	require.ErrorIs(t, err, ErrShutdownPinnedPages)
}

func TestPool_ShutdownFlushesAndCloses(t *testing.T) {
	path := newTestFile(t, 10)
	pool, err := NewPool(path, 1, FIFO)
	require.NoError(t, err)

	h, err := pool.Pin(0)
	require.NoError(t, err)
	h.Data[3] = 9
	require.NoError(t, pool.MarkDirty(h))
	require.NoError(t, pool.Unpin(h))

	require.NoError(t, pool.Shutdown())

	f, err := storage.OpenPageFile(path)
	require.NoError(t, err)
	defer f.Close()
	buf := make([]byte, storage.PageSize)
	require.NoError(t, f.ReadBlock(0, buf))
	require.Equal(t, byte(9), buf[3])
}

func TestPool_PinGrowsFileOnDemand(t *testing.T) {
	path := newTestFile(t, 1)
	pool, err := NewPool(path, 2, FIFO)
	require.NoError(t, err)

	h, err := pool.Pin(5)
	require.NoError(t, err)
	require.Equal(t, storage.PageSize, len(h.Data))
	for _, b := range h.Data {
		require.Equal(t, byte(0), b)
	}
}
