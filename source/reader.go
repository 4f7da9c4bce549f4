// Package source implements the filesystem collaborators the
// assembler session depends on: reading source and binary include
// files, and writing the final assembled program.
package source

import (
	"bufio"
	"os"

	"github.com/pkg/errors"
)

// ReadLines reads path as a plain-text source file and returns its
// lines without trailing newlines. I/O failures are wrapped so callers
// can present them as CantOpenFile without losing the underlying cause.
func ReadLines(path string) ([]string, error) {
	fd, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open source file %q", path)
	}
	defer fd.Close()

	var lines []string
	scanner := bufio.NewScanner(fd)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(err, "failed to read source file %q", path)
	}

	return lines, nil
}

// ReadBinarySlice reads size bytes starting at offset from path, for
// INCBIN. size < 0 means "read to end of file".
func ReadBinarySlice(path string, offset, size int64) ([]byte, error) {
	fd, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open binary file %q", path)
	}
	defer fd.Close()

	info, err := fd.Stat()
	if err != nil {
		return nil, errors.Wrapf(err, "unable to stat binary file %q", path)
	}

	if offset < 0 || offset > info.Size() {
		return nil, errors.Errorf("seek offset %d out of range for %q (size %d)", offset, path, info.Size())
	}

	if size < 0 {
		size = info.Size() - offset
	}
	if offset+size > info.Size() {
		return nil, errors.Errorf("requested %d bytes at offset %d exceeds size of %q (%d)", size, offset, path, info.Size())
	}

	buf := make([]byte, size)
	if _, err := fd.ReadAt(buf, offset); err != nil {
		return nil, errors.Wrapf(err, "failed to read binary file %q", path)
	}

	return buf, nil
}
