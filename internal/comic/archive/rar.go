// Copyright (c) 2026 Longbox. All rights reserved.
// Author: dev@longbox.app

package archive

import (
	"errors"
	"fmt"
	"io"

	"github.com/nwaples/rardecode"

	"github.com/longboxhq/longbox/internal/platform/apperr"
)

// rarHandle reads CBR containers via the pure-Go rardecode package.
//
// RAR has no random-access directory equivalent to zip's, so the entry list
// is built with one full header pass at open time and each page read scans
// forward to its entry. Solid archives make this unavoidable; for the
// page-at-a-time reading pattern the rescan cost is acceptable and keeps
// memory flat.
type rarHandle struct {
	path    string
	pages   []Page
	sidecar []byte
}

// openRar lists entry headers and captures the sidecar in a single pass.
func openRar(filePath string) (Handle, error) {
	listing, err := rardecode.OpenReader(filePath, "")
	if err != nil {
		return nil, apperr.CorruptArchive(filePath, err)
	}
	defer listing.Close()

	names := make([]string, 0, 64)
	sizes := make(map[string]int64)
	var sidecar []byte

	for {
		header, err := listing.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// A header that cannot be parsed poisons everything after it.
			return nil, apperr.CorruptArchive(filePath, err)
		}
		if header.IsDir {
			continue
		}

		if isSidecarEntry(header.Name) {
			// The sidecar is tiny; reading it during the listing pass saves
			// a full rescan later.
			if data, readErr := io.ReadAll(listing); readErr == nil {
				sidecar = data
			}
			continue
		}

		names = append(names, header.Name)
		sizes[header.Name] = header.UnPackedSize
	}

	handle := &rarHandle{
		path:    filePath,
		sidecar: sidecar,
	}

	for index, name := range orderEntries(names) {
		handle.pages = append(handle.pages, Page{
			Index: index,
			Name:  name,
			Size:  sizes[name],
		})
	}

	return handle, nil
}

func (handle *rarHandle) Path() string    { return handle.path }
func (handle *rarHandle) Kind() Container { return ContainerRar }
func (handle *rarHandle) Pages() []Page   { return handle.pages }

func (handle *rarHandle) ReadPage(index int) ([]byte, error) {
	if index < 0 || index >= len(handle.pages) {
		return nil, apperr.PageUnreadable(index, fmt.Errorf("index out of range (0-%d)", len(handle.pages)-1))
	}

	wanted := handle.pages[index].Name

	reader, err := rardecode.OpenReader(handle.path, "")
	if err != nil {
		return nil, apperr.PageUnreadable(index, err)
	}
	defer reader.Close()

	for {
		header, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return nil, apperr.PageUnreadable(index, fmt.Errorf("entry %q vanished from archive", wanted))
		}
		if err != nil {
			return nil, apperr.PageUnreadable(index, err)
		}
		if header.Name != wanted {
			continue
		}

		data, err := io.ReadAll(reader)
		if err != nil {
			return nil, apperr.PageUnreadable(index, err)
		}
		return data, nil
	}
}

func (handle *rarHandle) Sidecar() ([]byte, bool) {
	if handle.sidecar == nil {
		return nil, false
	}
	return handle.sidecar, true
}

func (handle *rarHandle) Close() error { return nil }
