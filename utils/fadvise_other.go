//go:build !linux

package utils

import "os"

func adviseSequential(f *os.File) {}
