package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/boxesandglue/luatextshape/hb"
	"github.com/boxesandglue/luatextshape/hbshape"
)

// runShape implements "luahb shape": hb-shape options in, glyph string out.
// Positional arguments are joined into the text unless --text or
// --unicodes is given.
func runShape(args []string, stdout, stderr io.Writer) int {
	log := newLogger(false, stderr)
	defer log.Sync()

	out, err := shapeCommand(args, log)
	if err != nil {
		fmt.Fprintf(stderr, "luahb shape: %v\n", err)
		return 1
	}
	fmt.Fprintln(stdout, out)
	return 0
}

func shapeCommand(args []string, log *zap.Logger) (string, error) {
	opts, rest, err := hbshape.ParseOptions(args)
	if err != nil {
		return "", err
	}
	for _, opt := range opts.Ignored {
		log.Warn("ignoring unsupported option", zap.String("option", opt))
	}
	if opts.FontFile == "" {
		return "", errors.New("--font-file is required")
	}
	if opts.Text == "" && opts.Unicodes == nil {
		opts.Text = strings.Join(rest, " ")
	}

	face, err := hb.NewFaceFromFile(opts.FontFile, opts.FaceIndex)
	if err != nil {
		return "", err
	}
	font, err := hb.NewFont(face)
	if err != nil {
		return "", err
	}
	buf, err := hbshape.Shape(font, &opts)
	if err != nil {
		return "", err
	}
	return hbshape.Serialize(font, buf, &opts), nil
}
