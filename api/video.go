package emucore

// ProcAddressFunc resolves a GPU entry point by name. It is supplied by the
// host once a rendering context exists.
type ProcAddressFunc func(symbol string) uintptr

// BlendingMode selects how console quads are composited.
type BlendingMode int

const (
	BlendingAlpha BlendingMode = iota
	BlendingAdd
	BlendingSubtract
)

// Quad is one textured rectangle queued by the console GPU.
type Quad struct {
	Vertices  [4][2]float32
	TexCoords [4][2]float32
}

// Color is a packed RGBA color.
type Color struct {
	R, G, B, A uint8
}

// Renderer receives draw operations from the console. Operations are queued
// and only reach the framebuffer on VideoBackend.RenderQuadQueue.
type Renderer interface {
	ClearScreen(c Color)
	DrawQuad(q Quad)
	SetMultiplyColor(c Color)
	SetBlendingMode(m BlendingMode)
	SelectTexture(id int)
	LoadTexture(id int, pixels []byte)
	UnloadCartridgeTextures()
	UnloadBiosTexture()
}

// VideoBackend is the GPU rendering backend shared with the console.
type VideoBackend interface {
	Renderer

	// ResolveSymbols loads GPU entry points through getProcAddress.
	ResolveSymbols(getProcAddress ProcAddressFunc) error

	// InitRendering creates GPU-side resources (shaders, buffers, textures).
	InitRendering() error

	// BeginFrame prepares the backend for a new frame.
	BeginFrame()

	// RenderQuadQueue flushes all queued draw operations.
	RenderQuadQueue()

	// Destroy releases GPU-side resources. Safe to call more than once.
	Destroy()
}
