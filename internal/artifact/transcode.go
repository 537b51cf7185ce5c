// Copyright (c) 2026 Longbox. All rights reserved.
// Author: dev@longbox.app

package artifact

import (
	"bytes"
	"image"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"

	// Source pages arrive in whatever format the archive holds; register
	// every decoder the pipeline accepts.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/longboxhq/longbox/internal/platform/apperr"
	"github.com/longboxhq/longbox/internal/platform/constants"
)

// Transcoder derives reader-facing images from raw archive pages.
//
// Every derivation is deterministic: the same source bytes and transform
// spec always produce the same output bytes, which is what makes artifacts
// safe to cache forever under their key.
type Transcoder struct{}

// NewTranscoder constructs a [Transcoder].
func NewTranscoder() *Transcoder {
	return &Transcoder{}
}

/*
Derive produces the artifact bytes for a transform spec.

Parameters:
  - spec: string (A transform spec from constants, part of the artifact key)
  - source: []byte (The raw page image from the archive)

Returns:
  - []byte: Encoded WebP artifact
  - error: TranscodeFailed for undecodable sources or unknown specs
*/
func (transcoder *Transcoder) Derive(spec string, source []byte) ([]byte, error) {
	switch spec {
	case constants.TransformCoverThumb:
		return transcoder.encode(source, constants.ThumbMaxDimension)
	case constants.TransformPageWebP:
		return transcoder.encode(source, constants.PageMaxDimension)
	default:
		return nil, apperr.TranscodeFailed(errUnknownSpec(spec))
	}
}

// encode decodes the source, fits it into a bounding box, and encodes WebP.
//
// Fit never upscales: a source smaller than the box is re-encoded at its
// native size.
func (transcoder *Transcoder) encode(source []byte, maxDimension int) ([]byte, error) {
	decoded, _, err := image.Decode(bytes.NewReader(source))
	if err != nil {
		return nil, apperr.TranscodeFailed(err)
	}

	fitted := imaging.Fit(decoded, maxDimension, maxDimension, imaging.Lanczos)

	var buffer bytes.Buffer
	options := &webp.Options{Quality: constants.WebPQuality}
	if err := webp.Encode(&buffer, fitted, options); err != nil {
		return nil, apperr.TranscodeFailed(err)
	}

	return buffer.Bytes(), nil
}

// errUnknownSpec reports a transform spec no derivation exists for.
type errUnknownSpec string

func (spec errUnknownSpec) Error() string {
	return "unknown transform spec: " + string(spec)
}
