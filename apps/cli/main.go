package main

import (
	"github.com/alecthomas/kong"
)

const desc = `Splits a sheet of emoji laid out on a regular grid into one image per cell.`

var cli struct {
	Detect detectCmd `cmd:"" help:"Detect the grid layout of a sheet."`
	Split  splitCmd  `cmd:"" help:"Split a sheet into one file per cell."`
}

func main() {
	ctx := kong.Parse(
		&cli,
		kong.Name("emojisplit"),
		kong.Description(desc),
		kong.UsageOnError(),
	)
	ctx.FatalIfErrorf(ctx.Run())
}
