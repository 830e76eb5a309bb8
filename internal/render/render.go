// Package render presents software-rendered frames in an OpenGL window.
//
// Frames are drawn on the CPU (see the viewport and scene packages), then:
// 1. Converted to tightly packed RGBA.
// 2. Uploaded to a texture, reallocated only when the size changes.
// 3. Drawn as one textured quad covering the framebuffer.
package render

import (
	"image"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"golang.org/x/image/draw"

	"github.com/irfansharif/panzoom/internal/geom"
)

// Presenter owns the GL objects used to show frames.
type Presenter struct {
	shaderManager *ShaderManager
	vao, vbo      uint32
	texture       uint32
	texW, texH    int

	rgba  *image.RGBA // staging buffer, reused across uploads
	stats Stats
}

// Stats tracks presentation performance metrics.
type Stats struct {
	LastUploadTimeUs float64 // time spent in last Upload() call in microseconds
	LastDrawTimeUs   float64 // time spent in last Draw() call in microseconds
	Uploads          int
	Reallocations    int // uploads that had to resize the texture
}

// Unit quad as two triangles: position (x, y) then texture coordinate (s, t).
// Row 0 of the texture is the top row of the frame, matching device space.
var quadVertices = []float32{
	0, 0, 0, 0,
	1, 0, 1, 0,
	1, 1, 1, 1,
	0, 0, 0, 0,
	1, 1, 1, 1,
	0, 1, 0, 1,
}

// NewPresenter compiles the shaders and allocates the quad and texture. A GL
// context must be current.
func NewPresenter() (*Presenter, error) {
	sm, err := NewShaderManager()
	if err != nil {
		return nil, err
	}
	p := &Presenter{shaderManager: sm}

	gl.GenVertexArrays(1, &p.vao)
	gl.BindVertexArray(p.vao)
	gl.GenBuffers(1, &p.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, p.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(quadVertices)*4 /* sizeof(float32) */, gl.Ptr(quadVertices), gl.STATIC_DRAW)

	const stride = 4 * 4
	gl.VertexAttribPointerWithOffset(0, 2, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(1, 2, gl.FLOAT, false, stride, 2*4)
	gl.EnableVertexAttribArray(1)

	gl.GenTextures(1, &p.texture)
	gl.BindTexture(gl.TEXTURE_2D, p.texture)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	return p, nil
}

// Upload copies img into the texture.
func (p *Presenter) Upload(img image.Image) {
	startTime := time.Now()

	p.rgba = toRGBA(img, p.rgba)
	w, h := p.rgba.Rect.Dx(), p.rgba.Rect.Dy()
	if w == 0 || h == 0 {
		return // nothing to do
	}

	gl.BindTexture(gl.TEXTURE_2D, p.texture)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	if w != p.texW || h != p.texH {
		gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(w), int32(h), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(p.rgba.Pix))
		p.texW, p.texH = w, h
		p.stats.Reallocations++
	} else {
		gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(p.rgba.Pix))
	}

	p.stats.Uploads++
	p.stats.LastUploadTimeUs = float64(time.Since(startTime).Microseconds())
}

// Draw stretches the last uploaded frame over a w by h framebuffer.
func (p *Presenter) Draw(w, h int) {
	startTime := time.Now()
	if w <= 0 || h <= 0 || p.texW == 0 {
		return // nothing to do
	}

	p.shaderManager.Use()
	p.shaderManager.SetTransform(affineToMatrix4(quadToNDC(w, h)))
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, p.texture)
	gl.BindVertexArray(p.vao)
	gl.DrawArrays(gl.TRIANGLES, 0, int32(len(quadVertices)/4))

	p.stats.LastDrawTimeUs = float64(time.Since(startTime).Microseconds())
}

// Delete releases the GL objects.
func (p *Presenter) Delete() {
	gl.DeleteTextures(1, &p.texture)
	gl.DeleteBuffers(1, &p.vbo)
	gl.DeleteVertexArrays(1, &p.vao)
	p.shaderManager.Delete()
}

// Stats returns the current performance statistics
func (p *Presenter) Stats() Stats {
	return p.stats
}

// toRGBA returns img as a tightly packed *image.RGBA with origin (0, 0),
// reusing buf when it has the right size.
func toRGBA(img image.Image, buf *image.RGBA) *image.RGBA {
	b := img.Bounds()
	if rgba, ok := img.(*image.RGBA); ok && b.Min == (image.Point{}) && rgba.Stride == 4*b.Dx() {
		return rgba
	}
	if buf == nil || buf.Rect.Dx() != b.Dx() || buf.Rect.Dy() != b.Dy() {
		buf = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	}
	draw.Draw(buf, buf.Rect, img, b.Min, draw.Src)
	return buf
}

// quadToNDC maps the unit quad to the full framebuffer: first to device
// pixels (origin top-left, y down), then to OpenGL NDC.
func quadToNDC(w, h int) geom.Affine {
	quadToScreen := geom.Scaling(float64(w), float64(h))
	screenToNDC := geom.MakeAffine(
		2.0/float64(w), 0, -1,
		0, -2.0/float64(h), 1,
	)
	return screenToNDC.Mul(quadToScreen)
}

// affineToMatrix4 converts an affine transform to OpenGL 4x4 matrix format.
func affineToMatrix4(transform geom.Affine) [16]float32 {
	return [16]float32{
		float32(transform.A), float32(transform.D), 0, 0,
		float32(transform.B), float32(transform.E), 0, 0,
		0, 0, 1, 0,
		float32(transform.C), float32(transform.F), 0, 1,
	}
}
