// Package annotate renders the auditable outcome of a group-photo match:
// a copy of the photo with a box around every detected face and a label
// naming the matched student.
package annotate

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/saturnino-fabrica-de-software/chamada/internal/domain"
	"github.com/saturnino-fabrica-de-software/chamada/internal/provider"
)

var (
	matchColor   = color.NRGBA{R: 0, G: 190, B: 0, A: 255}
	noMatchColor = color.NRGBA{R: 220, G: 20, B: 20, A: 255}
	labelText    = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
)

const (
	matchBorder   = 3
	noMatchBorder = 2
	labelPadding  = 3
)

// GroupPhoto annotates the photo at srcPath and writes the result next to
// it as "<name>_annotated<ext>". Matched faces get a green box labeled
// "Name (0.973)"; every other detected face gets a red box labeled
// "Face N (0.412)" with its best below-threshold score. scores is parallel
// to faces and may be nil when no comparison happened at all. Returns the
// output path.
func GroupPhoto(srcPath string, faces []provider.DetectedFace, matches []domain.FaceMatch, scores []float64) (string, error) {
	src, err := imaging.Open(srcPath)
	if err != nil {
		return "", fmt.Errorf("open group photo: %w", err)
	}

	annotated := Render(src, faces, matches, scores)

	dir := filepath.Dir(srcPath)
	base := filepath.Base(srcPath)
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext)
	outPath := filepath.Join(dir, name+"_annotated"+ext)

	if err := imaging.Save(annotated, outPath); err != nil {
		return "", fmt.Errorf("save annotated photo: %w", err)
	}

	return outPath, nil
}

// Render draws boxes and labels onto a copy of the image. scores carries
// the best similarity found for each face, positionally; it may be nil.
func Render(src image.Image, faces []provider.DetectedFace, matches []domain.FaceMatch, scores []float64) *image.NRGBA {
	img := imaging.Clone(src)

	matchByFace := make(map[int]domain.FaceMatch, len(matches))
	for _, m := range matches {
		// keep the first attribution when a face somehow appears twice
		if _, ok := matchByFace[m.FaceIndex]; !ok {
			matchByFace[m.FaceIndex] = m
		}
	}

	for i, f := range faces {
		rect := image.Rect(f.Box.X1, f.Box.Y1, f.Box.X2, f.Box.Y2)

		if m, ok := matchByFace[f.Index]; ok {
			drawBorder(img, rect, matchColor, matchBorder)
			drawLabel(img, rect, fmt.Sprintf("%s (%.3f)", m.StudentName, m.Similarity), matchColor)
		} else {
			drawBorder(img, rect, noMatchColor, noMatchBorder)
			drawLabel(img, rect, unmatchedLabel(f.Index, i, scores), noMatchColor)
		}
	}

	return img
}

// unmatchedLabel names a face that stayed below the match threshold. When
// a score is known it is shown so a teacher can tell a near miss from a
// stranger; without one (empty roster, no comparison) only the index shows.
func unmatchedLabel(faceIndex, pos int, scores []float64) string {
	if pos < len(scores) && scores[pos] > 0 {
		return fmt.Sprintf("Face %d (%.3f)", faceIndex+1, scores[pos])
	}
	return fmt.Sprintf("Face %d", faceIndex+1)
}

// drawBorder paints a rectangular frame of the given thickness, clipped to
// the image bounds.
func drawBorder(img *image.NRGBA, rect image.Rectangle, c color.NRGBA, thickness int) {
	bounds := img.Bounds()
	for t := 0; t < thickness; t++ {
		r := rect.Inset(-t).Intersect(bounds)
		if r.Empty() {
			continue
		}
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetNRGBA(x, r.Min.Y, c)
			img.SetNRGBA(x, r.Max.Y-1, c)
		}
		for y := r.Min.Y; y < r.Max.Y; y++ {
			img.SetNRGBA(r.Min.X, y, c)
			img.SetNRGBA(r.Max.X-1, y, c)
		}
	}
}

// drawLabel writes text on a filled background just above the box, or
// inside its top edge when there is no room above.
func drawLabel(img *image.NRGBA, rect image.Rectangle, text string, bg color.NRGBA) {
	face := basicfont.Face7x13
	metrics := face.Metrics()

	textWidth := font.MeasureString(face, text).Ceil()
	textHeight := metrics.Ascent.Ceil() + metrics.Descent.Ceil()

	labelRect := image.Rect(
		rect.Min.X,
		rect.Min.Y-textHeight-2*labelPadding,
		rect.Min.X+textWidth+2*labelPadding,
		rect.Min.Y,
	)
	if labelRect.Min.Y < img.Bounds().Min.Y {
		labelRect = labelRect.Add(image.Pt(0, labelRect.Dy()))
	}
	labelRect = labelRect.Intersect(img.Bounds())
	if labelRect.Empty() {
		return
	}

	draw.Draw(img, labelRect, &image.Uniform{C: bg}, image.Point{}, draw.Src)

	d := font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(labelText),
		Face: face,
		Dot: fixed.P(
			labelRect.Min.X+labelPadding,
			labelRect.Min.Y+labelPadding+metrics.Ascent.Ceil(),
		),
	}
	d.DrawString(text)
}
