//go:build !tinygo || !rp2040 || !bootdebug

package app

import "zeitgeber/hal"

func bootStep(hal.HAL, string) {}
