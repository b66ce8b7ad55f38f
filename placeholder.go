package main

import (
	"bytes"
	"encoding/xml"
	"fmt"
)

const svgContentType = "image/svg+xml"

// placeholderSVG renders a 512x512 vector image carrying an error caption.
// The image endpoint always answers with something displayable, so failures
// show up inside the map's image slot instead of breaking it.
func placeholderSVG(title, detail string) []byte {
	var b bytes.Buffer
	fmt.Fprintf(&b, `<svg width="%d" height="%d" xmlns="http://www.w3.org/2000/svg">`, outputWidth, outputHeight)
	fmt.Fprintf(&b, `<text x="%d" y="%d" font-family="Arial" font-size="24" text-anchor="middle" fill="white" stroke="#000000" stroke-width="0.5">`, outputWidth/2, outputHeight/2)
	_ = xml.EscapeText(&b, []byte(title))
	b.WriteString(`</text>`)
	if detail != "" {
		fmt.Fprintf(&b, `<text x="%d" y="%d" font-family="Arial" font-size="16" text-anchor="middle" fill="#ff6666" stroke="#000000" stroke-width="0.3">`, outputWidth/2, outputHeight/2+34)
		_ = xml.EscapeText(&b, []byte(detail))
		b.WriteString(`</text>`)
	}
	b.WriteString(`</svg>`)
	return b.Bytes()
}
