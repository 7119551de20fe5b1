//go:build !headless

package display

import (
	"fmt"
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// EbitengineBackend presents frames through a real OS window, the
// genuine third-party dependency this core carries for display.
type EbitengineBackend struct {
	game *ebitengineGame
}

// NewEbitengineBackend returns an uninitialized windowed backend.
func NewEbitengineBackend() Backend {
	return &EbitengineBackend{}
}

// CreateWindow configures the ebiten window and returns the Window that
// drives its game loop.
func (b *EbitengineBackend) CreateWindow(title string, width, height int) (Window, error) {
	game := &ebitengineGame{
		frameImage:  ebiten.NewImage(256, 240),
		imageBuffer: image.NewRGBA(image.Rect(0, 0, 256, 240)),
		width:       width,
		height:      height,
		running:     true,
	}
	b.game = game

	ebiten.SetWindowTitle(title)
	ebiten.SetWindowSize(width, height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	return &ebitengineWindow{game: game}, nil
}

func (b *EbitengineBackend) Cleanup() error  { return nil }
func (b *EbitengineBackend) IsHeadless() bool { return false }
func (b *EbitengineBackend) Name() string     { return "ebitengine" }

// ebitengineWindow is the Window the scheduler drives each frame.
type ebitengineWindow struct {
	game *ebitengineGame
}

func (w *ebitengineWindow) RenderFrame(frameBuffer [256 * 240]uint32) error {
	if w.game == nil {
		return fmt.Errorf("display: window not initialized")
	}
	w.game.setFrame(frameBuffer)
	return nil
}

func (w *ebitengineWindow) ShouldClose() bool {
	return w.game == nil || !w.game.running
}

func (w *ebitengineWindow) Cleanup() error {
	w.game.running = false
	return nil
}

// Run hands control to ebiten's blocking game loop; the CLI calls this
// once the window is created, since ebiten owns the OS event loop.
func (w *ebitengineWindow) Run() error {
	return ebiten.RunGame(w.game)
}

// ebitengineGame implements ebiten.Game. It only owns presentation:
// converting the NES pixel buffer into a drawable image and detecting
// the window-close/Escape quit gesture. Button-level input mapping is a
// host concern outside this core's scope.
type ebitengineGame struct {
	frameImage  *ebiten.Image
	imageBuffer *image.RGBA
	width       int
	height      int
	running     bool
}

func (g *ebitengineGame) setFrame(frameBuffer [256 * 240]uint32) {
	for y := 0; y < 240; y++ {
		for x := 0; x < 256; x++ {
			pixel := frameBuffer[y*256+x]
			g.imageBuffer.SetRGBA(x, y, color.RGBA{
				R: uint8(pixel >> 16),
				G: uint8(pixel >> 8),
				B: uint8(pixel),
				A: 255,
			})
		}
	}
	g.frameImage.WritePixels(g.imageBuffer.Pix)
}

func (g *ebitengineGame) Update() error {
	if ebiten.IsKeyPressed(ebiten.KeyEscape) {
		g.running = false
	}
	return nil
}

func (g *ebitengineGame) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{A: 255})

	op := &ebiten.DrawImageOptions{}
	scaleX := float64(g.width) / 256
	scaleY := float64(g.height) / 240
	scale := scaleX
	if scaleY < scaleX {
		scale = scaleY
	}
	op.GeoM.Scale(scale, scale)
	op.GeoM.Translate((float64(g.width)-256*scale)/2, (float64(g.height)-240*scale)/2)
	screen.DrawImage(g.frameImage, op)
}

func (g *ebitengineGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.width, g.height = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}
