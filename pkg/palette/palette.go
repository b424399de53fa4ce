// Package palette assigns evenly spaced, perceptually distinct colors to
// category labels.
//
// Hues are distributed uniformly around the full color wheel and combined
// with a fixed saturation and lightness in the HPLuv color space. HPLuv is
// a human-friendly HSL variant in which equal lightness values actually
// look equally light, so every assigned color reads with the same weight -
// exactly what a cluster fill palette needs.
//
// Saturation and lightness use HPLuv's native 0-100 scale.
package palette

import (
	"github.com/lucasb-eyer/go-colorful"
)

// Assign maps each label to a hex color string ("#rrggbb", lowercase).
//
// The i-th label receives hue 360*i/n (n = len(labels)) at the given
// saturation and lightness, so hues are evenly spaced over the full circle
// in label order. An empty label slice yields an empty map; a single label
// gets hue 0. Labels are expected to be distinct - a repeated label keeps
// the color of its last occurrence.
func Assign(labels []string, saturation, lightness float64) map[string]string {
	colors := make(map[string]string, len(labels))
	n := len(labels)
	for i, label := range labels {
		hue := 360 * float64(i) / float64(n)
		colors[label] = hex(hue, saturation, lightness)
	}
	return colors
}

// hex converts an HPLuv triple (hue 0-360, saturation and lightness 0-100)
// to a hex color string. go-colorful takes saturation and lightness in
// 0-1, hence the division.
func hex(hue, saturation, lightness float64) string {
	return colorful.HPLuv(hue, saturation/100, lightness/100).Hex()
}
