package pipeline

import (
	"bytes"
	"context"
	"fmt"

	serrors "github.com/matzehuels/snowball/pkg/errors"
	"github.com/matzehuels/snowball/pkg/render/lottie"
	"github.com/matzehuels/snowball/pkg/render/nodelink"
	"github.com/matzehuels/snowball/pkg/scene"
)

// Render encodes a finished simulation in every requested format. A
// simulation restored from a cached scene only carries the scene, so only
// vector formats can be rendered from it.
func Render(ctx context.Context, run *Simulation, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))

	var dot string
	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatLottie, FormatScene:
			data, err = EncodeScene(run.Scene, format)
		case FormatPNG:
			if run.raster == nil {
				return nil, serrors.New(serrors.ErrCodeInternal, "png requested without a rasterised run")
			}
			var buf bytes.Buffer
			err = run.raster.EncodePNG(&buf)
			data = buf.Bytes()
		case FormatGIF:
			if run.gif == nil {
				return nil, serrors.New(serrors.ErrCodeInternal, "gif requested without recorded frames")
			}
			var buf bytes.Buffer
			err = run.gif.Encode(&buf)
			data = buf.Bytes()
		case FormatDOT, FormatSVG:
			if run.Snapshot == nil {
				return nil, serrors.New(serrors.ErrCodeInternal, "%s requested without a final layout", format)
			}
			if dot == "" {
				dot = nodelink.ToDOT(*run.Snapshot, nodelink.Options{Labels: opts.Labels})
			}
			if format == FormatDOT {
				data = []byte(dot)
			} else {
				data, err = nodelink.RenderSVG(ctx, dot)
			}
		default:
			return nil, serrors.New(serrors.ErrCodeUnsupported, "unsupported format: %s", format)
		}

		if err != nil {
			return nil, serrors.Wrap(serrors.ErrCodeInternal, err, "render %s", format)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

// EncodeScene encodes a scene document as a lottie animation or as the
// neutral scene JSON.
func EncodeScene(doc scene.Document, format string) ([]byte, error) {
	switch format {
	case FormatLottie:
		return lottie.Encode(doc)
	case FormatScene:
		var buf bytes.Buffer
		if err := scene.Write(&buf, doc); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	return nil, serrors.New(serrors.ErrCodeUnsupported, "%s cannot be encoded from a scene", format)
}

// Filename returns the output file name for a scenario and format.
func Filename(name, format string) string {
	ext, ok := Extensions[format]
	if !ok {
		ext = "." + format
	}
	return fmt.Sprintf("%s%s", name, ext)
}
