//go:build tools

package main

// Pins code generation tools in go.mod so go:generate works after a
// fresh clone.
import (
	_ "github.com/dmarkham/enumer"
)
