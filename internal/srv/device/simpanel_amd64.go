package device

import (
	"gioui.org/app"
	"gioui.org/io/system"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget"
	"image"
	"log"
	"sync"
)

type SimPanel struct {
	lock      sync.RWMutex
	composite *image.RGBA
	screens   [simTileCount]*SimScreen

	window *app.Window
}

func newSimPanel() *SimPanel {
	return &SimPanel{}
}

func (p *SimPanel) startWindow() {
	p.window = app.NewWindow(
		app.Title("Control panel"),
		app.Size(unit.Px(832), unit.Px(288)),
		app.MinSize(unit.Px(416), unit.Px(144)))
	go func() {
		if err := p.gioloop(); err != nil {
			log.Fatal(err)
		}
	}()
	go app.Main()
}

func (p *SimPanel) invalidateWindow() {
	if p.window == nil {
		return
	}
	p.window.Invalidate()
}

func (p *SimPanel) closeWindow() {
	p.window.Close()
}

func (p *SimPanel) gioloop() error {
	var ops op.Ops
	for {
		e := <-p.window.Events()
		switch e := e.(type) {
		case system.DestroyEvent:
			return e.Err
		case system.FrameEvent:
			gtx := layout.NewContext(&ops, e)

			frame := p.snapshotComposite()

			img := widget.Image{Src: paint.NewImageOp(frame), Fit: widget.Contain}
			img.Layout(gtx)
			e.Frame(gtx.Ops)
		}
	}
}
