//go:build headless

package display

import "fmt"

// EbitengineBackend is a stub under the headless build tag: a build
// that must run without CGO/windowing support (CI, containers with no
// X server) excludes the real implementation entirely rather than
// failing at runtime.
type EbitengineBackend struct{}

func NewEbitengineBackend() Backend { return &EbitengineBackend{} }

func (b *EbitengineBackend) CreateWindow(title string, width, height int) (Window, error) {
	return nil, fmt.Errorf("display: ebitengine backend excluded by the headless build tag")
}
func (b *EbitengineBackend) Cleanup() error   { return nil }
func (b *EbitengineBackend) IsHeadless() bool { return true }
func (b *EbitengineBackend) Name() string     { return "ebitengine-stub" }
