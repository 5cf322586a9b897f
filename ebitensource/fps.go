package ebitensource

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// fpsOverlay shows FPS, TPS and the number of raw events delivered per
// second in the top-left corner. The text refreshes about twice a second.
type fpsOverlay struct {
	img     *ebiten.Image
	elapsed float64
	events  int
}

func newFPSOverlay() *fpsOverlay {
	// 140x48 fits three DebugPrint lines.
	return &fpsOverlay{img: ebiten.NewImage(140, 48)}
}

// update advances the refresh timer by one tick during which n raw events
// were delivered.
func (o *fpsOverlay) update(n int) {
	o.events += n
	o.elapsed += 1 / float64(ebiten.TPS())
	if o.elapsed < 0.5 {
		return
	}
	rate := float64(o.events) / o.elapsed
	o.elapsed, o.events = 0, 0

	o.img.Clear()
	o.img.Fill(color.RGBA{0, 0, 0, 128})
	ebitenutil.DebugPrint(o.img, fmt.Sprintf("FPS: %.1f\nTPS: %.1f\nEvents/s: %.0f",
		ebiten.ActualFPS(), ebiten.ActualTPS(), rate))
}

func (o *fpsOverlay) draw(screen *ebiten.Image) {
	screen.DrawImage(o.img, nil)
}
