//go:build tinygo

package main

import (
	"zeitgeber/app"
	"zeitgeber/hal"
)

func main() {
	app.Run(hal.New())
}
