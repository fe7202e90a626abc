package main

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/gogpu/pixhist/resources"
)

// frame is one decoded image file.
type frame struct {
	path   string
	width  uint32
	height uint32
	pixels []byte
}

// loadFrames decodes paths in parallel and returns them in argument order.
// The first decode error cancels the remaining work.
func loadFrames(ctx context.Context, paths []string) ([]frame, error) {
	frames := make([]frame, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			w, h, px, err := resources.LoadImage(path)
			if err != nil {
				return err
			}
			frames[i] = frame{path: path, width: w, height: h, pixels: px}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return frames, nil
}
