//go:build windows

package engine

import (
	"syscall"
	"unsafe"

	"github.com/go-gl/glfw/v3.3/glfw"
)

var (
	dwmapi             = syscall.NewLazyDLL("dwmapi.dll")
	setWindowAttribute = dwmapi.NewProc("DwmSetWindowAttribute")
	currentWindow      *glfw.Window
)

const (
	dwmaUseImmersiveDarkMode = 20
	dwmaBorderColor          = 34
	dwmaCaptionColor         = 35

	darkChrome uint32 = 0x00202020
)

// SetDarkTitleBar switches the window chrome to dark mode so the frame does
// not glare against the 3D view. Harmless on Windows versions without the
// DWM attributes.
func SetDarkTitleBar(window *glfw.Window) {
	currentWindow = window
	hwnd := window.GetWin32Window()
	if hwnd == nil {
		return
	}
	applyDwmAttr(uintptr(unsafe.Pointer(hwnd)), dwmaUseImmersiveDarkMode, 1)
	applyDwmAttr(uintptr(unsafe.Pointer(hwnd)), dwmaCaptionColor, darkChrome)
	applyDwmAttr(uintptr(unsafe.Pointer(hwnd)), dwmaBorderColor, darkChrome)
}

// SetWindowBorderColor tints the caption and border, used to match the sky.
func SetWindowBorderColor(r, g, b float32) {
	if currentWindow == nil {
		return
	}
	hwnd := currentWindow.GetWin32Window()
	if hwnd == nil {
		return
	}
	bgr := uint32(uint8(b*255)) | uint32(uint8(g*255))<<8 | uint32(uint8(r*255))<<16
	applyDwmAttr(uintptr(unsafe.Pointer(hwnd)), dwmaBorderColor, bgr)
	applyDwmAttr(uintptr(unsafe.Pointer(hwnd)), dwmaCaptionColor, bgr)
}

func applyDwmAttr(hwnd uintptr, attr uintptr, value uint32) {
	setWindowAttribute.Call(
		hwnd,
		attr,
		uintptr(unsafe.Pointer(&value)),
		unsafe.Sizeof(value),
	)
}
