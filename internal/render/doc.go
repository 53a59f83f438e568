// Package render draws a scene through a pluggable software backend.
//
// The renderer owns the projection pipeline and the shading model; a
// [Backend] only rasterises points and lines into its drawing buffer.
// Backends shipped here:
//
//   - Raster: RGBA pixmap backed by gogpu/gg, used by the window and
//     headless hosts and for PNG snapshots
//   - Braille: 2x4 dot terminal canvas, used by the terminal host
//
// The SVG backend lives in the export package.
package render
