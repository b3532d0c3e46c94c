// Package mandel holds the escape-time math of the renderer: complex
// arithmetic, the divergence test and the pixel to complex-plane mapping.
package mandel

import (
	"fmt"
	"sort"
)

// Region within the complex plane
type Region struct {
	Xmin, Xmax float64
	Ymin, Ymax float64
}

// Classic is the square view [-1.5, 1.5] x [-1.5, 1.5] showing the whole set.
var Classic = Region{
	Xmin: -1.5,
	Xmax: 1.5,
	Ymin: -1.5,
	Ymax: 1.5,
}

// Classic regions / landmarks in the Mandelbrot set
var (
	// Seahorse Valley – dense filaments and repeating “seahorse” curls
	SeahorseValley = Region{
		Xmin: -0.8,
		Xmax: -0.7,
		Ymin: 0.05,
		Ymax: 0.15,
	}

	// Elephant Valley – large bulb with trunk-like tendrils
	ElephantValley = Region{
		Xmin: -1.85,
		Xmax: -1.75,
		Ymin: -0.10,
		Ymax: -0.02,
	}

	// Spiral Minibrot – small Mandelbrot copy with tight spiral arms
	SpiralMinibrot = Region{
		Xmin: -0.7435,
		Xmax: -0.7420,
		Ymin: 0.1310,
		Ymax: 0.1325,
	}

	// Triple Spiral – threefold symmetric spiral structure
	TripleSpiral = Region{
		Xmin: -0.7480,
		Xmax: -0.7450,
		Ymin: 0.0950,
		Ymax: 0.0980,
	}

	// Valley of the Dragon – deep, highly detailed spiral filaments
	ValleyOfTheDragon = Region{
		Xmin: -0.7400,
		Xmax: -0.7350,
		Ymin: 0.1800,
		Ymax: 0.1850,
	}

	// Minibrot in a Mini-Spiral – self-similar Mandelbrot copy inside a spiral arm
	MinibrotInMiniSpiral = Region{
		Xmin: -1.7390,
		Xmax: -1.7375,
		Ymin: -0.0235,
		Ymax: -0.0220,
	}
)

var regionsByName = map[string]Region{
	"classic":       Classic,
	"seahorse":      SeahorseValley,
	"elephant":      ElephantValley,
	"spiral":        SpiralMinibrot,
	"triple-spiral": TripleSpiral,
	"dragon":        ValleyOfTheDragon,
	"mini-spiral":   MinibrotInMiniSpiral,
}

// RegionByName looks up one of the predefined regions.
func RegionByName(name string) (Region, error) {
	r, ok := regionsByName[name]
	if !ok {
		return Region{}, fmt.Errorf("unknown region %q", name)
	}
	return r, nil
}

// RegionNames returns the names accepted by RegionByName, sorted.
func RegionNames() []string {
	names := make([]string, 0, len(regionsByName))
	for n := range regionsByName {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// PointAt maps pixel (row, col) of a width x height image onto the region.
// The transform does not preserve aspect ratio.
func (r Region) PointAt(row, col, height, width int) Complex {
	return Complex{
		Re: (r.Xmax-r.Xmin)/float64(width)*float64(col) + r.Xmin,
		Im: (r.Ymax-r.Ymin)/float64(height)*float64(row) + r.Ymin,
	}
}
