package web

import (
	"embed"
	"io/fs"
)

//go:embed static templates
var assets embed.FS

// subtree returns the embedded directory dir rooted at its own top level.
func subtree(dir string) fs.FS {
	sub, err := fs.Sub(assets, dir)
	if err != nil {
		panic("web: embedded directory " + dir + ": " + err.Error())
	}

	return sub
}
