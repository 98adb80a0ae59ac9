//go:build !rp2040

package main

import (
	"io"
	"os"
)

func console() io.Writer { return os.Stdout }
