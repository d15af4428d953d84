// domcol - dominant colour estimation for sprites and colour series
//
// domcol clusters the RGB samples of an image or colour series and reports
// the centroid of the most populous cluster.
//
// Copyright (c) 2025 John Mylchreest
// Licensed under the MIT License
package main

import (
	"github.com/jmylchreest/domcol/internal/cli"
)

func main() {
	cli.Execute()
}
