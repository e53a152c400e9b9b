//go:build !unix

package converter

import "os/exec"

func setProcessGroup(*exec.Cmd) {}
