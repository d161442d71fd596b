package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/joshuapare/heapkit/cmd/heapexplorer/logger"
	"github.com/joshuapare/heapkit/heap/alloc"
	"github.com/joshuapare/heapkit/heap/verify"
	"github.com/joshuapare/heapkit/internal/buf"
	"github.com/joshuapare/heapkit/internal/format"
	"github.com/joshuapare/heapkit/internal/region"
)

// heapImage is an in-memory snapshot of a heap file. The mapping is closed
// as soon as the snapshot is taken so the explorer never holds the file.
type heapImage struct {
	path    string
	data    []byte
	summary verify.Summary
	blocks  []alloc.BlockInfo
}

func loadImage(path string) (*heapImage, error) {
	st, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	r, err := region.OpenFile(path, int(max(st.Size(), 1)))
	if err != nil {
		return nil, fmt.Errorf("map %s: %w", path, err)
	}
	defer r.Close()

	summary, err := verify.Summarize(r.Bytes())
	if err != nil {
		return nil, fmt.Errorf("invalid heap image: %w", err)
	}
	a, err := alloc.Open(r, &alloc.Options{Logger: logger.L})
	if err != nil {
		return nil, err
	}
	return &heapImage{
		path:    path,
		data:    bytes.Clone(r.Bytes()),
		summary: summary,
		blocks:  a.Blocks(),
	}, nil
}

// payload returns the payload bytes of b, or nil if b lies outside the image.
func (img *heapImage) payload(b alloc.BlockInfo) []byte {
	p, ok := buf.Slice(img.data, int(b.Offset)+format.HeaderSize, int(b.Size))
	if !ok {
		return nil
	}
	return p
}
