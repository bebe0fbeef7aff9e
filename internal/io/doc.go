// Package ioutils provides file system utilities.
//
// This package contains functions for:
//   - File writing
//   - Filename sanitization for FAT32 devices
//   - Directory creation
//   - Measuring the space a directory tree occupies
//
// # File Operations
//
//	// Write data to file
//	err := ioutils.WriteFile(ctx, "/path/to/file.txt", []byte("content"))
//
//	// Ensure directory exists
//	err := ioutils.EnsureDir("/path/to/new/directory")
//
//	// Bytes that would be freed by wiping the device folder
//	size, err := ioutils.DirSize(ctx, "/media/phone/Music")
//
// # Filename Sanitization
//
// Use SanitizeFileName to make playlist names safe on memory cards:
//
//	safe := ioutils.SanitizeFileName("My:Mix*?") // Returns "My_Mix__"
package ioutils
