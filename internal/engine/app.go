package engine

import (
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
	"go.uber.org/zap"

	"Chisel3D/internal/logger"
	"Chisel3D/internal/renderer"
	"Chisel3D/internal/telemetry"
)

// Initialize to the center of the window
var lastX, lastY float64
var firstMouse bool = true

// App owns the window, the GL context and the frame loop. The voxel session
// hooks in through the per-frame callback; everything GL-facing stays on the
// locked main thread.
type App struct {
	Width  int32
	Height int32
	Title  string

	Camera   *renderer.Camera
	Renderer *renderer.ChunkRenderer

	window *glfw.Window
	fps    float64
}

func NewApp(width, height int32, title string, metrics *telemetry.Metrics) *App {
	logger.Init()
	logger.Log.Info("Chisel3D initializing...")
	return &App{
		Width:    width,
		Height:   height,
		Title:    title,
		Renderer: renderer.NewChunkRenderer(metrics),
	}
}

// FPS is the smoothed frame rate of the last few frames.
func (app *App) FPS() float64 { return app.fps }

func (app *App) Window() *glfw.Window { return app.window }

// Run opens the window and drives the frame loop until it closes. onFrame is
// called once per frame before the draw with the frame delta in seconds.
func (app *App) Run(onFrame func(deltaTime float64)) error {
	lastX, lastY = float64(app.Width/2), float64(app.Height/2)
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		logger.Log.Error("Could not initialize glfw", zap.Error(err))
		return err
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.Decorated, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.DepthBits, 32)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	window, err := glfw.CreateWindow(int(app.Width), int(app.Height), app.Title, nil, nil)
	if err != nil {
		logger.Log.Error("Could not create glfw window", zap.Error(err))
		return err
	}
	app.window = window
	window.MakeContextCurrent()
	SetDarkTitleBar(window)
	sky := app.Renderer.SkyColor
	SetWindowBorderColor(sky.X(), sky.Y(), sky.Z())

	app.Renderer.Init(app.Width, app.Height)
	app.Camera = renderer.NewDefaultCamera(app.Width, app.Height)

	window.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
	window.SetCursorPosCallback(app.mouseCallback)

	app.renderLoop(onFrame)
	return nil
}

func (app *App) renderLoop(onFrame func(deltaTime float64)) {
	var lastTime = glfw.GetTime()
	var lastWidth, lastHeight int32 = app.Width, app.Height

	for !app.window.ShouldClose() {
		currentTime := glfw.GetTime()
		deltaTime := currentTime - lastTime
		lastTime = currentTime

		if deltaTime > 0 {
			// Exponential moving average keeps the upload budgeter from
			// flapping between tiers on single slow frames.
			instant := 1.0 / deltaTime
			if app.fps == 0 {
				app.fps = instant
			} else {
				app.fps = app.fps*0.9 + instant*0.1
			}
		}

		actualWidth, actualHeight := app.window.GetSize()
		if int32(actualWidth) != app.Width || int32(actualHeight) != app.Height {
			app.Width = int32(actualWidth)
			app.Height = int32(actualHeight)
		}
		if app.Width != lastWidth || app.Height != lastHeight {
			app.Renderer.UpdateViewport(app.Width, app.Height)
			app.Camera.SetAspectRatio(float32(app.Width) / float32(app.Height))
			lastWidth, lastHeight = app.Width, app.Height
		}

		app.Camera.ProcessKeyboard(app.window, float32(deltaTime))

		if onFrame != nil {
			onFrame(deltaTime)
		}

		app.Renderer.Render(app.Camera)

		app.window.SwapBuffers()
		glfw.PollEvents()
	}
	app.Renderer.Cleanup()
}

// Mouse callback function
func (app *App) mouseCallback(w *glfw.Window, xpos, ypos float64) {
	// Look around only while the right mouse button is held, so left clicks
	// stay free for block picking.
	if w.GetAttrib(glfw.Focused) == glfw.True && w.GetMouseButton(glfw.MouseButtonRight) == glfw.Press {
		if firstMouse {
			lastX = xpos
			lastY = ypos
			firstMouse = false
			return
		}

		xoffset := xpos - lastX
		yoffset := lastY - ypos // Reversed since y-coordinates go from bottom to top
		lastX = xpos
		lastY = ypos

		app.Camera.ProcessMouseMovement(float32(xoffset), float32(yoffset), true)
	} else {
		firstMouse = true
	}
}

func (app *App) GetMousePosition() (float64, float64) {
	return app.window.GetCursorPos()
}

func (app *App) IsMouseButtonPressed(button glfw.MouseButton) bool {
	return app.window.GetMouseButton(button) == glfw.Press
}
