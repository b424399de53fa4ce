package render_test

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/matzehuels/flowviz/pkg/render"
)

func ExampleFlowImage_SVGText() {
	// Backend output stands in for a rendered drawing here: a one-pixel
	// PNG plus minimal markup.
	var raster bytes.Buffer
	_ = png.Encode(&raster, image.NewRGBA(image.Rect(0, 0, 1, 1)))

	img, err := render.NewFlowImage(raster.Bytes(), []byte(`<svg width="1" height="1"/>`))
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	fmt.Println(img.SVGText())
	bounds := img.Raster().Bounds()
	fmt.Println("raster:", bounds.Dx(), "x", bounds.Dy())
	// Output:
	// <svg width="1" height="1"/>
	// raster: 1 x 1
}
