// Copyright (c) 2026 Longbox. All rights reserved.
// Author: dev@longbox.app

package archive

import (
	stdzip "archive/zip"
	"fmt"
	"io"

	"github.com/longboxhq/longbox/internal/platform/apperr"
)

// zipHandle reads CBZ containers through the standard library zip reader.
//
// The central directory gives random access, so each page read opens exactly
// one entry stream.
type zipHandle struct {
	path    string
	reader  *stdzip.ReadCloser
	pages   []Page
	entries []*stdzip.File // parallel to pages
	sidecar *stdzip.File
}

// openZip parses the central directory and indexes page entries.
func openZip(filePath string) (Handle, error) {
	reader, err := stdzip.OpenReader(filePath)
	if err != nil {
		return nil, apperr.CorruptArchive(filePath, err)
	}

	byName := make(map[string]*stdzip.File, len(reader.File))
	names := make([]string, 0, len(reader.File))
	var sidecar *stdzip.File

	for _, entry := range reader.File {
		if entry.FileInfo().IsDir() {
			continue
		}
		if isSidecarEntry(entry.Name) {
			sidecar = entry
			continue
		}
		byName[entry.Name] = entry
		names = append(names, entry.Name)
	}

	handle := &zipHandle{
		path:    filePath,
		reader:  reader,
		sidecar: sidecar,
	}

	for index, name := range orderEntries(names) {
		entry := byName[name]
		handle.pages = append(handle.pages, Page{
			Index: index,
			Name:  name,
			Size:  int64(entry.UncompressedSize64),
		})
		handle.entries = append(handle.entries, entry)
	}

	return handle, nil
}

func (handle *zipHandle) Path() string    { return handle.path }
func (handle *zipHandle) Kind() Container { return ContainerZip }
func (handle *zipHandle) Pages() []Page   { return handle.pages }

func (handle *zipHandle) ReadPage(index int) ([]byte, error) {
	if index < 0 || index >= len(handle.entries) {
		return nil, apperr.PageUnreadable(index, fmt.Errorf("index out of range (0-%d)", len(handle.entries)-1))
	}

	stream, err := handle.entries[index].Open()
	if err != nil {
		return nil, apperr.PageUnreadable(index, err)
	}
	defer stream.Close()

	data, err := io.ReadAll(stream)
	if err != nil {
		return nil, apperr.PageUnreadable(index, err)
	}

	return data, nil
}

func (handle *zipHandle) Sidecar() ([]byte, bool) {
	if handle.sidecar == nil {
		return nil, false
	}

	stream, err := handle.sidecar.Open()
	if err != nil {
		return nil, false
	}
	defer stream.Close()

	data, err := io.ReadAll(stream)
	if err != nil {
		return nil, false
	}

	return data, true
}

func (handle *zipHandle) Close() error { return handle.reader.Close() }
