package postprocess

import "image"

// components is an 8-connected labelling of the opaque pixels of an image.
type components struct {
	labels []int // per pixel, -1 for transparent
	sizes  []int // per component
	total  int   // opaque pixels
}

func labelComponents(img *image.NRGBA) components {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	c := components{labels: make([]int, w*h)}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c.labels[y*w+x] = -1
			if img.Pix[y*img.Stride+x*4+3] > 0 {
				c.labels[y*w+x] = -2
				c.total++
			}
		}
	}

	dx := [8]int{-1, 0, 1, -1, 1, -1, 0, 1}
	dy := [8]int{-1, -1, -1, 0, 0, 1, 1, 1}
	queue := make([]int, 0, 1024)

	for start := range c.labels {
		if c.labels[start] != -2 {
			continue
		}
		id := len(c.sizes)
		queue = append(queue[:0], start)
		c.labels[start] = id
		size := 0
		for len(queue) > 0 {
			curr := queue[len(queue)-1]
			queue = queue[:len(queue)-1]
			size++
			cx, cy := curr%w, curr/w
			for d := 0; d < 8; d++ {
				nx, ny := cx+dx[d], cy+dy[d]
				if nx < 0 || nx >= w || ny < 0 || ny >= h {
					continue
				}
				if ni := ny*w + nx; c.labels[ni] == -2 {
					c.labels[ni] = id
					queue = append(queue, ni)
				}
			}
		}
		c.sizes = append(c.sizes, size)
	}
	return c
}

// clear returns a copy of img with every pixel whose component fails keep
// set to transparent black.
func (c components) clear(img *image.NRGBA, keep func(id int) bool) *image.NRGBA {
	b := img.Bounds()
	w := b.Dx()
	out := image.NewNRGBA(b)
	copy(out.Pix, img.Pix)
	for idx, id := range c.labels {
		if id < 0 || keep(id) {
			continue
		}
		i := (idx/w)*out.Stride + (idx%w)*4
		out.Pix[i], out.Pix[i+1], out.Pix[i+2], out.Pix[i+3] = 0, 0, 0, 0
	}
	return out
}

// RemoveSmallClusters zeroes out small disconnected pixel groups.
// minRatio is the minimum fraction of total non-transparent pixels to keep.
func RemoveSmallClusters(img *image.NRGBA, minRatio float64) *image.NRGBA {
	c := labelComponents(img)
	if len(c.sizes) <= 1 {
		return img
	}
	minSize := int(float64(c.total) * minRatio)
	return c.clear(img, func(id int) bool { return c.sizes[id] >= minSize })
}

// KeepLargestComponent zeroes out everything except the largest connected
// group of opaque pixels.
func KeepLargestComponent(img *image.NRGBA) *image.NRGBA {
	c := labelComponents(img)
	if len(c.sizes) <= 1 {
		return img
	}
	best := 0
	for id, size := range c.sizes {
		if size > c.sizes[best] {
			best = id
		}
	}
	return c.clear(img, func(id int) bool { return id == best })
}
