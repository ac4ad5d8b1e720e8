package main

import (
	"github.com/gitquill/gitquill/quillpkg/quillcmds"
)

func main() {
	quillcmds.Execute()
}
