package literature

import (
	"embed"
	"io/fs"
)

//go:embed data/*.csv
var embedded embed.FS

// Embedded returns the default literature data set.
func Embedded() fs.FS {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		panic(err)
	}
	return sub
}
