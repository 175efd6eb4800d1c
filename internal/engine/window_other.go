//go:build !windows

package engine

import "github.com/go-gl/glfw/v3.3/glfw"

// SetDarkTitleBar is a no-op outside Windows; the DWM attributes it sets have
// no equivalent elsewhere.
func SetDarkTitleBar(_ *glfw.Window) {}

func SetWindowBorderColor(_, _, _ float32) {}
