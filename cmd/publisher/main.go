// Copyright © 2025 CoReason, Inc.

package main

import (
	"github.com/coreason-ai/publisher/cmd/publisher/cmd"
)

func main() {
	cmd.Execute()
}
