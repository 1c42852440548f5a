// Package storage implements the bottom layer of the engine: a
// fixed-size paged file on disk. It knows nothing about records,
// schemas, or caching — just how to create, open, grow, and read or
// write a single PageSize-byte block by index.
package storage

import (
	"io"
	"os"
)

// PageSize is the compile-time page size used throughout the engine.
// Every file grows in units of PageSize bytes.
const PageSize = 4096

// PageFile is an open page file plus the bookkeeping spec.md's data
// model calls a "file handle": the file name, the total page count,
// and a current-page cursor used only by the sequential convenience
// readers below (ReadFirstBlock, ReadNextBlock, ...).
type PageFile struct {
	name          string
	file          *os.File
	totalNumPages int
	curPagePos    int
}

// CreatePageFile creates a fresh page file containing exactly one
// zero-filled page. It fails if the file already exists.
func CreatePageFile(name string) error {
	f, err := os.OpenFile(name, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return ErrWriteFailed
	}
	defer f.Close()

	zero := make([]byte, PageSize)
	if _, err := f.Write(zero); err != nil {
		return ErrWriteFailed
	}
	return nil
}

// OpenPageFile opens an existing page file and computes its current
// page count from the file size.
func OpenPageFile(name string) (*PageFile, error) {
	f, err := os.OpenFile(name, os.O_RDWR, 0o644)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrFileNotFound
		}
		return nil, ErrFileNotFound
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, ErrFileNotFound
	}

	return &PageFile{
		name:          name,
		file:          f,
		totalNumPages: int(info.Size() / PageSize),
		curPagePos:    0,
	}, nil
}

// DestroyPageFile removes a page file from disk. The file must not be
// open via a PageFile handle when this is called.
func DestroyPageFile(name string) error {
	if err := os.Remove(name); err != nil {
		if os.IsNotExist(err) {
			return ErrFileNotFound
		}
		return ErrFileNotFound
	}
	return nil
}

// Close closes the underlying OS file. Further operations on f return
// ErrFileHandleNotInitialized.
func (f *PageFile) Close() error {
	if f.file == nil {
		return ErrFileHandleNotInitialized
	}
	err := f.file.Close()
	f.file = nil
	if err != nil {
		return ErrWriteFailed
	}
	return nil
}

// Name returns the page file's path.
func (f *PageFile) Name() string { return f.name }

// TotalNumPages returns the current page count.
func (f *PageFile) TotalNumPages() int { return f.totalNumPages }

// ReadBlock reads page pageNum into buf, which must be exactly
// PageSize bytes. Reading a page index at or beyond the current file
// length fails with ErrReadFailed; callers that want the file grown
// first should go through EnsureCapacity (the buffer pool's Pin does
// this automatically).
func (f *PageFile) ReadBlock(pageNum int, buf []byte) error {
	if f.file == nil {
		return ErrFileHandleNotInitialized
	}
	if len(buf) != PageSize {
		return ErrReadFailed
	}
	if pageNum < 0 || pageNum >= f.totalNumPages {
		return ErrReadFailed
	}

	off := int64(pageNum) * PageSize
	if _, err := f.file.Seek(off, io.SeekStart); err != nil {
		return ErrReadFailed
	}
	if _, err := io.ReadFull(f.file, buf); err != nil {
		return ErrReadFailed
	}
	f.curPagePos = pageNum
	return nil
}

// WriteBlock writes buf (exactly PageSize bytes) to page pageNum.
// pageNum must already exist; use AppendEmptyBlock/EnsureCapacity to
// grow the file first.
func (f *PageFile) WriteBlock(pageNum int, buf []byte) error {
	if f.file == nil {
		return ErrFileHandleNotInitialized
	}
	if len(buf) != PageSize {
		return ErrWriteFailed
	}
	if pageNum < 0 || pageNum >= f.totalNumPages {
		return ErrWriteFailed
	}

	off := int64(pageNum) * PageSize
	if _, err := f.file.Seek(off, io.SeekStart); err != nil {
		return ErrWriteFailed
	}
	n, err := f.file.Write(buf)
	if err != nil || n != PageSize {
		return ErrWriteFailed
	}
	f.curPagePos = pageNum
	return nil
}

// AppendEmptyBlock appends one zero-filled page to the end of the
// file and increments the page count.
func (f *PageFile) AppendEmptyBlock() error {
	if f.file == nil {
		return ErrFileHandleNotInitialized
	}
	if _, err := f.file.Seek(0, io.SeekEnd); err != nil {
		return ErrWriteFailed
	}
	zero := make([]byte, PageSize)
	n, err := f.file.Write(zero)
	if err != nil || n != PageSize {
		return ErrWriteFailed
	}
	f.totalNumPages++
	return nil
}

// EnsureCapacity grows the file with zero-filled pages, if needed,
// until it has at least numPages pages.
func (f *PageFile) EnsureCapacity(numPages int) error {
	for f.totalNumPages < numPages {
		if err := f.AppendEmptyBlock(); err != nil {
			return err
		}
	}
	return nil
}

// ---- sequential convenience readers, driven by the cursor ----
//
// These mirror the original storage manager's readFirstBlock /
// readNextBlock family. Nothing else in the engine uses them; they
// exist because spec.md's data model calls out the cursor as part of
// the file handle and the original system exposes this surface.

// ReadCurrentBlock reads the page at the current cursor position.
func (f *PageFile) ReadCurrentBlock(buf []byte) error {
	return f.ReadBlock(f.curPagePos, buf)
}

// ReadFirstBlock reads page 0 and resets the cursor to it.
func (f *PageFile) ReadFirstBlock(buf []byte) error {
	return f.ReadBlock(0, buf)
}

// ReadLastBlock reads the last page in the file.
func (f *PageFile) ReadLastBlock(buf []byte) error {
	return f.ReadBlock(f.totalNumPages-1, buf)
}

// ReadNextBlock reads the page after the cursor.
func (f *PageFile) ReadNextBlock(buf []byte) error {
	return f.ReadBlock(f.curPagePos+1, buf)
}

// ReadPreviousBlock reads the page before the cursor.
func (f *PageFile) ReadPreviousBlock(buf []byte) error {
	return f.ReadBlock(f.curPagePos-1, buf)
}

// WriteCurrentBlock writes to the page at the current cursor position.
func (f *PageFile) WriteCurrentBlock(buf []byte) error {
	return f.WriteBlock(f.curPagePos, buf)
}
