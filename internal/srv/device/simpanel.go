package device

import (
	"github.com/sirupsen/logrus"
	"image"
	"image/color"
	"image/draw"
	"time"
)

// Virtual tile geometry, matching the physical panels.
const (
	simTileWidth  = 128
	simTileHeight = 32
	simTileCount  = 9
	simGridCols   = 3
	simGutter     = 8
)

// SimPanel replaces the whole multiplexed display chain on a
// workstation: nine virtual tiles composited into one window. Channel
// selection is a no-op beyond range checking, since there is no shared
// bus to route.
func NewSimPanel() *SimPanel {
	rows := (simTileCount + simGridCols - 1) / simGridCols
	w := simGridCols*simTileWidth + (simGridCols+1)*simGutter
	h := rows*simTileHeight + (rows+1)*simGutter

	p := newSimPanel()
	p.composite = image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(p.composite, p.composite.Bounds(), &image.Uniform{color.RGBA{32, 32, 32, 255}}, image.Point{}, draw.Src)

	for i := range p.screens {
		p.screens[i] = &SimScreen{panel: p, index: i}
	}
	return p
}

func (p *SimPanel) Start() {
	logrus.Infof("Start simulation panel")
	p.startWindow()
}

func (p *SimPanel) Stop() {
	logrus.Infof("Stop simulation panel")
	p.closeWindow()
}

// Screen returns the virtual tile for one slot index, in slot order.
func (p *SimPanel) Screen(index int) *SimScreen {
	return p.screens[index]
}

// SelectDisplay mirrors the hardware coordinator's contract so the
// orchestrator runs unchanged against the virtual panel.
func (p *SimPanel) SelectDisplay(index int) bool {
	if index < 1 || index > 7 {
		logrus.Errorf("SimPanel: display channel %d out of range", index)
		return false
	}
	return true
}

func (p *SimPanel) SelectDevice(index int) bool {
	if index < 0 || index > 2 {
		logrus.Errorf("SimPanel: device channel %d out of range", index)
		return false
	}
	return true
}

// snapshotComposite returns an independent copy of the composite for
// the render goroutine. Pushes keep mutating the live pixel buffer, so
// handing out the original would race with the window drawing it.
func (p *SimPanel) snapshotComposite() *image.RGBA {
	p.lock.RLock()
	defer p.lock.RUnlock()
	frame := *p.composite
	frame.Pix = append([]uint8(nil), p.composite.Pix...)
	return &frame
}

func simTileRect(index int) image.Rectangle {
	col := index % simGridCols
	row := index / simGridCols
	x := simGutter + col*(simTileWidth+simGutter)
	y := simGutter + row*(simTileHeight+simGutter)
	return image.Rect(x, y, x+simTileWidth, y+simTileHeight)
}

// SimScreen is one virtual tile. It satisfies the orchestrator's screen
// contract and draws into the shared composite.
type SimScreen struct {
	panel *SimPanel
	index int
}

func (s *SimScreen) Probe(timeout time.Duration) bool {
	return true
}

func (s *SimScreen) Push(img image.Image) bool {
	s.panel.lock.Lock()
	draw.Draw(s.panel.composite, simTileRect(s.index), img, img.Bounds().Min, draw.Src)
	s.panel.lock.Unlock()
	s.panel.invalidateWindow()
	return true
}
