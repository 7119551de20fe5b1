// Package display decouples the frame scheduler's 256x240 pixel buffer
// from the concrete presentation surface: a windowed backend for normal
// play and a headless one for tests and environments with no window
// system.
package display

// Backend creates the single Window a scheduler run presents frames
// through.
type Backend interface {
	CreateWindow(title string, width, height int) (Window, error)
	Cleanup() error
	IsHeadless() bool
	Name() string
}

// Window is the presentation surface: push a frame, find out if the
// host wants to quit.
type Window interface {
	RenderFrame(frameBuffer [256 * 240]uint32) error
	ShouldClose() bool
	Cleanup() error
}

// Config carries the window/backend options the CLI's flags fill in.
type Config struct {
	Title      string
	Width      int
	Height     int
	Fullscreen bool
	VSync      bool
	Headless   bool
}

// New returns the windowed backend, or the headless one when
// cfg.Headless is set (the CLI's -headless flag).
func New(cfg Config) Backend {
	if cfg.Headless {
		return NewHeadlessBackend()
	}
	return NewEbitengineBackend()
}
