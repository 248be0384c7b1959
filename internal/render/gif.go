// Package render writes GIF animations of the spin grid, the headless
// counterpart of the live terminal view.
package render

import (
	"errors"
	"image"
	"image/color"
	"image/gif"
	"os"

	"github.com/san-kum/isinglab/internal/lattice"
)

// ErrNoFrames indicates a save attempt with nothing recorded.
var ErrNoFrames = errors.New("render: no frames captured")

// Palette indices for the two spin orientations.
const (
	downIdx = 0
	upIdx   = 1
)

var spinPalette = color.Palette{
	color.RGBA{R: 0x20, G: 0x2a, B: 0x4a, A: 0xff}, // down
	color.RGBA{R: 0xff, G: 0xb0, B: 0x30, A: 0xff}, // up
}

// Recorder accumulates paletted frames of a lattice over time.
type Recorder struct {
	scale  int
	delay  int // per frame, in 10ms units
	frames []*image.Paletted
}

// NewRecorder creates a recorder drawing each spin as a scale×scale pixel
// block, with the given frame delay in milliseconds.
func NewRecorder(scale, delayMillis int) *Recorder {
	if scale < 1 {
		scale = 1
	}
	if delayMillis < 10 {
		delayMillis = 10
	}
	return &Recorder{scale: scale, delay: delayMillis / 10}
}

// Frames reports the number of captured frames.
func (r *Recorder) Frames() int { return len(r.frames) }

// Capture appends the lattice's current configuration as one frame.
func (r *Recorder) Capture(lat *lattice.Lattice) {
	r.frames = append(r.frames, Frame(lat, r.scale))
}

// Save encodes the captured frames as a looping GIF at path.
func (r *Recorder) Save(path string) error {
	if len(r.frames) == 0 {
		return ErrNoFrames
	}

	anim := gif.GIF{LoopCount: 0}
	for _, frame := range r.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, r.delay)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return gif.EncodeAll(f, &anim)
}

// Frame renders the lattice as a single paletted image, one scale×scale block
// per spin.
func Frame(lat *lattice.Lattice, scale int) *image.Paletted {
	if scale < 1 {
		scale = 1
	}

	rows, cols := lat.Rows(), lat.Cols()
	img := image.NewPaletted(image.Rect(0, 0, cols*scale, rows*scale), spinPalette)

	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			idx := uint8(downIdx)
			if lat.At(i, j) > 0 {
				idx = upIdx
			}
			for dy := 0; dy < scale; dy++ {
				for dx := 0; dx < scale; dx++ {
					img.SetColorIndex(j*scale+dx, i*scale+dy, idx)
				}
			}
		}
	}

	return img
}
