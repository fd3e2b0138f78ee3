package cmd

import (
	"github.com/OpenTraceLab/magwrap/pkg/source"
	"github.com/spf13/pflag"
)

// sourceFlags are the board-reading flags shared by convert and board
type sourceFlags struct {
	thickness         float64
	innerLayers       []string
	nets              []string
	keepY             bool
	useBoardThickness bool
}

func (f *sourceFlags) register(fs *pflag.FlagSet) {
	fs.Float64Var(&f.thickness, "thickness", source.DefaultThickness,
		"board thickness in mm, the depth of inner-layer traces")
	fs.StringSliceVar(&f.innerLayers, "inner-layer", nil,
		"layer facing the cylinder (repeatable; default Eagle 1, KiCad F.Cu)")
	fs.StringSliceVar(&f.nets, "net", nil,
		"only convert this net (repeatable)")
	fs.BoolVar(&f.keepY, "keep-y", false,
		"keep KiCad y coordinates instead of flipping them")
	fs.BoolVar(&f.useBoardThickness, "board-thickness", false,
		"use the thickness stored in a KiCad board file")
}

func (f *sourceFlags) options() source.Options {
	opts := source.DefaultOptions()
	opts.Thickness = f.thickness
	opts.InnerLayers = f.innerLayers
	opts.Nets = f.nets
	opts.KeepY = f.keepY
	opts.UseBoardThickness = f.useBoardThickness
	return opts
}
