package device

import (
	"image"
	"sync"
)

type SimPanel struct {
	lock      sync.RWMutex
	composite *image.RGBA
	screens   [simTileCount]*SimScreen
}

func newSimPanel() *SimPanel {
	return &SimPanel{}
}

func (p *SimPanel) startWindow() {
}

func (p *SimPanel) invalidateWindow() {
}

func (p *SimPanel) closeWindow() {
}
