package main

import (
	"os"
	"runtime"

	"inputcommands/cmd"
)

func main() {
	if runtime.GOOS == "linux" && os.Getenv("DISPLAY") == "" {
		// robotgo talks to X; assume the local display when unset
		os.Setenv("DISPLAY", ":0")
	}
	cmd.Execute()
}
