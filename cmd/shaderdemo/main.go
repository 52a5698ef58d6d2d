package main

import (
	"os"
	"runtime"

	"github.com/gekko3d/shaderlab/shaderdemo"
)

func init() {
	// glfw and the GPU surface must stay on the main thread
	runtime.LockOSThread()
}

func main() {
	if err := shaderdemo.NewCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
