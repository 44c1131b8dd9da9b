// Package imagex builds ImageKit transformation URLs for images the backend
// hosts on ik.imagekit.io. Other URLs pass through unchanged.
package imagex

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const imageKitHost = "ik.imagekit.io"

type Format string

const (
	FormatAuto Format = "auto"
	FormatWebP Format = "webp"
	FormatJPG  Format = "jpg"
	FormatPNG  Format = "png"
)

type Focus string

const (
	FocusCenter Focus = "center"
	FocusTop    Focus = "top"
	FocusLeft   Focus = "left"
	FocusBottom Focus = "bottom"
	FocusRight  Focus = "right"
)

type Crop string

const (
	CropMaintainRatio Crop = "maintain_ratio"
	CropForce         Crop = "force"
)

// Transforms lists the ImageKit parameters to apply. Zero fields are left
// out of the tr= value.
type Transforms struct {
	Height  int
	Width   int
	Quality int
	Format  Format
	Focus   Focus
	Crop    Crop
}

func (t Transforms) params() []string {
	var out []string
	if t.Height > 0 {
		out = append(out, "h-"+strconv.Itoa(t.Height))
	}
	if t.Width > 0 {
		out = append(out, "w-"+strconv.Itoa(t.Width))
	}
	if t.Quality > 0 {
		out = append(out, "q-"+strconv.Itoa(t.Quality))
	}
	if t.Format != "" {
		out = append(out, "f-"+string(t.Format))
	}
	if t.Focus != "" {
		out = append(out, "fo-"+string(t.Focus))
	}
	if t.Crop != "" {
		out = append(out, "c-"+string(t.Crop))
	}
	return out
}

// Transform returns imageURL with its tr= query parameter set from t. An
// existing tr= is replaced; other query parameters are kept.
func Transform(imageURL string, t Transforms) string {
	if imageURL == "" || !strings.Contains(imageURL, imageKitHost) {
		return imageURL
	}

	base, rawQuery, _ := strings.Cut(imageURL, "?")
	q, err := url.ParseQuery(rawQuery)
	if err != nil {
		return imageURL
	}
	if p := t.params(); len(p) > 0 {
		q.Set("tr", strings.Join(p, ","))
	}

	if enc := q.Encode(); enc != "" {
		return base + "?" + enc
	}
	return base
}

func ProfileThumbnail(u string) string {
	return Transform(u, Transforms{Width: 150, Height: 150, Crop: CropMaintainRatio})
}

func ProfileAvatar(u string) string {
	return Transform(u, Transforms{Width: 50, Height: 50, Crop: CropMaintainRatio})
}

func ProfileBanner(u string) string {
	return Transform(u, Transforms{Width: 1200, Height: 300, Crop: CropMaintainRatio})
}

func ProfileCover(u string) string {
	return Transform(u, Transforms{Width: 1920, Height: 480, Crop: CropMaintainRatio})
}

func ProductThumbnail(u string) string {
	return Transform(u, Transforms{Width: 300, Height: 300, Crop: CropMaintainRatio})
}

func ProductDetail(u string) string {
	return Transform(u, Transforms{Width: 800, Height: 800, Crop: CropMaintainRatio})
}

// DefaultResponsiveSizes are the widths Responsive uses when none are given.
var DefaultResponsiveSizes = []int{320, 640, 1024, 1600}

// Responsive returns one URL per width.
func Responsive(u string, widths ...int) []string {
	if len(widths) == 0 {
		widths = DefaultResponsiveSizes
	}
	out := make([]string, len(widths))
	for i, w := range widths {
		out[i] = Transform(u, Transforms{Width: w})
	}
	return out
}

// SrcSet formats Responsive(u, widths...) as an HTML srcset value.
func SrcSet(u string, widths ...int) string {
	if len(widths) == 0 {
		widths = DefaultResponsiveSizes
	}
	urls := Responsive(u, widths...)
	parts := make([]string, len(urls))
	for i := range urls {
		parts[i] = fmt.Sprintf("%s %dw", urls[i], widths[i])
	}
	return strings.Join(parts, ", ")
}

// WebP converts to WebP at quality (85 when quality <= 0).
func WebP(u string, quality int) string {
	if quality <= 0 {
		quality = 85
	}
	return Transform(u, Transforms{Format: FormatWebP, Quality: quality})
}
