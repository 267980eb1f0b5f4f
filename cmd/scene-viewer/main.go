package main

import (
	"os"
	"runtime"
	"syscall"

	"github.com/xlab/closer"
)

// GLFW and OpenGL calls must all happen on the main thread.
func init() {
	runtime.LockOSThread()
}

func main() {
	closer.Init(closer.Config{
		ExitCodeOK:  0,
		ExitCodeErr: 1,
		ExitSignals: []os.Signal{syscall.SIGINT, syscall.SIGTERM},
	})

	if err := newRootCommand(runViewer).Execute(); err != nil {
		closer.Fatalln(err)
	}
	closer.Close()
}
