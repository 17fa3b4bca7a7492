// Package collage turns a job's per-worker image payloads into a tallied
// attribution line and one composite image tiled on a fixed-column grid.
package collage

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/draw"
	"sort"
	"strings"

	// Decoders for the payload formats the generation APIs return.
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"hordebot/pkg/textutil"
)

// maxWorkerNameLen caps a worker identity in the attribution line.
const maxWorkerNameLen = 64

// Item is one worker's contribution: identity plus a base64-encoded image.
type Item struct {
	Worker string
	Image  string
}

// Layout fixes the grid geometry of the composite.
type Layout struct {
	Columns int // tiles per row
	Padding int // pixels between tiles
	Edge    int // square cell edge length
}

// Aggregate tallies attribution, decodes the payloads and tiles the decoded
// images into a grid. Payloads that fail to decode are dropped; the job is
// not failed over one corrupt image. An empty input still yields a blank
// composite and an empty attribution string.
func Aggregate(items []Item, layout Layout) (image.Image, string) {
	credits := newTally()
	var images []image.Image
	for _, item := range items {
		credits.add(item.Worker)
		img, err := decode(item.Image)
		if err != nil {
			continue
		}
		images = append(images, img)
	}
	return tile(images, layout), credits.render()
}

func decode(payload string) (image.Image, error) {
	// Some backends wrap base64 payloads across lines.
	raw, err := base64.StdEncoding.DecodeString(strings.ReplaceAll(payload, "\n", ""))
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	return img, err
}

// tile lays images out left-to-right, top-to-bottom in encounter order.
// Trailing cells of the last row stay blank; an empty input produces one
// blank row.
func tile(images []image.Image, layout Layout) image.Image {
	cols := layout.Columns
	if cols < 1 {
		cols = 1
	}
	rows := (len(images) + cols - 1) / cols
	if rows < 1 {
		rows = 1
	}

	width := cols*layout.Edge + (cols-1)*layout.Padding
	height := rows*layout.Edge + (rows-1)*layout.Padding
	dst := image.NewRGBA(image.Rect(0, 0, width, height))

	for i, img := range images {
		x := (i % cols) * (layout.Edge + layout.Padding)
		y := (i / cols) * (layout.Edge + layout.Padding)
		cell := image.Rect(x, y, x+layout.Edge, y+layout.Edge)
		draw.Draw(dst, cell, img, img.Bounds().Min, draw.Src)
	}
	return dst
}

// tally counts contributions per worker, remembering first-seen order so
// ties render deterministically.
type tally struct {
	order  []string
	counts map[string]int
}

func newTally() *tally {
	return &tally{counts: make(map[string]int)}
}

func (t *tally) add(worker string) {
	if _, seen := t.counts[worker]; !seen {
		t.order = append(t.order, worker)
	}
	t.counts[worker]++
}

// render lists workers by descending count, first-seen order breaking
// ties, as `name (count)` with the count omitted for single contributions.
func (t *tally) render() string {
	names := append([]string(nil), t.order...)
	sort.SliceStable(names, func(i, j int) bool {
		return t.counts[names[i]] > t.counts[names[j]]
	})

	parts := make([]string, 0, len(names))
	for _, name := range names {
		part := textutil.TruncateWithEllipsis(name, maxWorkerNameLen)
		if n := t.counts[name]; n > 1 {
			part = fmt.Sprintf("%s (%d)", part, n)
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, ", ")
}
