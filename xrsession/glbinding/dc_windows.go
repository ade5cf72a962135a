//go:build windows

package glbinding

import (
	"syscall"

	"golang.org/x/sys/windows"
)

var (
	user32  = windows.NewLazySystemDLL("user32.dll")
	getDCProc = user32.NewProc("GetDC")
)

// getDC retrieves the device context for hwnd via the real user32 GetDC
// entry point, the same way SDL/GLFW obtain it internally for WGL.
func getDC(hwnd uintptr) uintptr {
	ret, _, _ := syscall.SyscallN(getDCProc.Addr(), hwnd)
	return ret
}
