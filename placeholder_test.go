package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlaceholderSVG(t *testing.T) {
	out := string(placeholderSVG("API Connection Error", "dial tcp: timeout"))

	assert.True(t, strings.HasPrefix(out, `<svg width="512" height="512"`))
	assert.True(t, strings.HasSuffix(out, "</svg>"))
	assert.Contains(t, out, "API Connection Error")
	assert.Contains(t, out, "dial tcp: timeout")
}

func TestPlaceholderSVGEscapesMarkup(t *testing.T) {
	out := string(placeholderSVG("oops", `<script>alert("x")</script>`))

	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "&lt;script&gt;")
}

func TestPlaceholderSVGNoDetail(t *testing.T) {
	out := string(placeholderSVG("Error generating NDVI image", ""))
	assert.Equal(t, 1, strings.Count(out, "<text"))
}
