package xrsession

type fakeRenderTarget struct {
	glName  uint32
	isDepth bool
	width   int
	height  int
}

// fakeDriver is a GraphicsDriver that never touches a real GL context,
// used by every test in this package in place of a host engine.
type fakeDriver struct {
	grabs, drops int
	added        []any
	removed      []any
	finishes     int
}

func newFakeDriver() *fakeDriver { return &fakeDriver{} }

func (d *fakeDriver) Grab() { d.grabs++ }
func (d *fakeDriver) Drop() { d.drops++ }

func (d *fakeDriver) UseDeviceDependentTexture(glName uint32, isDepth bool, width, height int) (any, error) {
	return &fakeRenderTarget{glName: glName, isDepth: isDepth, width: width, height: height}, nil
}

func (d *fakeDriver) AddRenderTarget(target any)    { d.added = append(d.added, target) }
func (d *fakeDriver) RemoveRenderTarget(target any) { d.removed = append(d.removed, target) }

func (d *fakeDriver) ScreenSize() (int, int) { return 1280, 720 }

func (d *fakeDriver) GLFinish() { d.finishes++ }
