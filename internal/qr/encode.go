package qr

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"

	qrcode "github.com/skip2/go-qrcode"
)

const pngContentType = "image/png"

// renderPNG encodes content at the given size with the given recovery
// level and composites it onto a white canvas with quietZone pixels of
// padding on each side. The library's own border is disabled so the quiet
// zone is controlled here.
func renderPNG(content string, sizePx int, level qrcode.RecoveryLevel, quietZone int) (*Image, error) {
	if content == "" {
		return nil, fmt.Errorf("empty qr content")
	}
	if quietZone < 0 || sizePx <= 2*quietZone {
		return nil, fmt.Errorf("quiet zone %dpx does not fit size %dpx", quietZone, sizePx)
	}

	code, err := qrcode.New(content, level)
	if err != nil {
		return nil, fmt.Errorf("encode qr content: %w", err)
	}
	code.DisableBorder = true

	inner := sizePx - 2*quietZone
	canvas := image.NewRGBA(image.Rect(0, 0, sizePx, sizePx))
	draw.Draw(canvas, canvas.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(canvas, image.Rect(quietZone, quietZone, quietZone+inner, quietZone+inner),
		code.Image(inner), image.Point{}, draw.Src)

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}

	return &Image{
		Bytes:       buf.Bytes(),
		ContentType: pngContentType,
		SizePx:      sizePx,
	}, nil
}
