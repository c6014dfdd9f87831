// Package hash provides the CRC32-Castagnoli checksum used to detect
// corrupted persisted filters. The standard library selects hardware
// instructions (SSE4.2, ARM CRC) when available.
package hash
