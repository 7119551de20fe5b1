package display

import "testing"

func TestNewSelectsHeadlessBackend(t *testing.T) {
	b := New(Config{Headless: true})
	if !b.IsHeadless() {
		t.Fatal("New(Headless: true) did not select a headless backend")
	}
}

func TestHeadlessWindowRetainsLastFrame(t *testing.T) {
	b := NewHeadlessBackend()
	win, err := b.CreateWindow("test", 256, 240)
	if err != nil {
		t.Fatalf("CreateWindow: %v", err)
	}
	hw := win.(*HeadlessWindow)

	var frame [256 * 240]uint32
	frame[0] = 0xFF0000
	if err := win.RenderFrame(frame); err != nil {
		t.Fatalf("RenderFrame: %v", err)
	}

	if got := hw.LastFrame()[0]; got != 0xFF0000 {
		t.Errorf("LastFrame()[0] = %#x, want 0xff0000", got)
	}
	if hw.FrameCount() != 1 {
		t.Errorf("FrameCount() = %d, want 1", hw.FrameCount())
	}
}

func TestHeadlessWindowCleanupClosesWindow(t *testing.T) {
	b := NewHeadlessBackend()
	win, _ := b.CreateWindow("test", 256, 240)
	if win.ShouldClose() {
		t.Fatal("new window reports ShouldClose before Cleanup")
	}
	win.Cleanup()
	if !win.ShouldClose() {
		t.Fatal("window does not report ShouldClose after Cleanup")
	}
}
