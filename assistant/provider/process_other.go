//go:build !unix

package provider

import "os/exec"

// killProcessGroup keeps the default CommandContext kill; WaitDelay then
// bounds the wait on pipes held by surviving children.
func killProcessGroup(*exec.Cmd) {}
