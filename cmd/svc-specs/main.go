package main

import "github.com/architeacher/specargs/internal/runtime"

func main() {
	runtime.New().Run()
}
