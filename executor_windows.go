//go:build windows

package hardwareid

import (
	"os/exec"
	"syscall"

	"golang.org/x/sys/windows"
)

// configureCommand keeps wmic and powershell from opening a console window
// when the resolver runs inside a GUI process.
func configureCommand(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		HideWindow:    true,
		CreationFlags: windows.CREATE_NO_WINDOW,
	}
}
