// Package mmap maps files read-only into memory.
//
//	m, err := mmap.Open("filters/users.bfs")
//	if err != nil { ... }
//	defer m.Close()
//	data := m.Bytes()
//
// On Unix the mapping uses mmap(2) and Advise forwards to madvise(2); on
// Windows it uses MapViewOfFile and Advise is a no-op.
//
// A Mapping is safe for concurrent readers. Close is idempotent; slices
// returned by Bytes must not be used after Close.
package mmap
