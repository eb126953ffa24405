package main

import (
	"github.com/docwarp/docwarp/cmd/docwarp/cmd"
	"github.com/docwarp/docwarp/internal/version"
)

func main() {
	cmd.SetVersionInfo(version.Info())
	cmd.Execute()
}
