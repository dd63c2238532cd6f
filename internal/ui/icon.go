package ui

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"sync"
)

const iconSize = 32

var iconBlue = color.RGBA{R: 0x1e, G: 0x6f, B: 0xd9, A: 0xff}

// Icon returns the application icon as PNG bytes: a plain blue square.
var Icon = sync.OnceValue(func() []byte {
	img := image.NewRGBA(image.Rect(0, 0, iconSize, iconSize))
	for y := range iconSize {
		for x := range iconSize {
			img.Set(x, y, iconBlue)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		// Encoding an in-memory RGBA image cannot fail.
		panic(err)
	}
	return buf.Bytes()
})
