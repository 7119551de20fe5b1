package display

// HeadlessBackend retains only the last frame buffer; used by the
// CLI's -headless flag and by any scenario test that wants to assert
// against a completed frame without a window system.
type HeadlessBackend struct{}

// NewHeadlessBackend returns the no-window backend.
func NewHeadlessBackend() Backend {
	return &HeadlessBackend{}
}

func (b *HeadlessBackend) CreateWindow(title string, width, height int) (Window, error) {
	return &HeadlessWindow{width: width, height: height, running: true}, nil
}
func (b *HeadlessBackend) Cleanup() error   { return nil }
func (b *HeadlessBackend) IsHeadless() bool { return true }
func (b *HeadlessBackend) Name() string     { return "headless" }

// HeadlessWindow discards presentation but keeps the most recent frame
// so tests can assert against it.
type HeadlessWindow struct {
	width, height int
	running       bool
	frameCount    int
	lastFrame     [256 * 240]uint32
}

func (w *HeadlessWindow) RenderFrame(frameBuffer [256 * 240]uint32) error {
	w.lastFrame = frameBuffer
	w.frameCount++
	return nil
}

func (w *HeadlessWindow) ShouldClose() bool { return !w.running }
func (w *HeadlessWindow) Cleanup() error    { w.running = false; return nil }

// LastFrame returns the most recently rendered frame buffer.
func (w *HeadlessWindow) LastFrame() [256 * 240]uint32 { return w.lastFrame }

// FrameCount returns the number of frames rendered so far.
func (w *HeadlessWindow) FrameCount() int { return w.frameCount }
