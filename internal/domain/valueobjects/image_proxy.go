package valueobjects

import (
	"fmt"
	"net/url"
	"strconv"
)

// ImageProxy rewrites catalog image URLs to go through a resizing proxy that
// also normalizes the output to JPEG. A zero ImageProxy leaves URLs unchanged.
type ImageProxy struct {
	base string
}

func NewImageProxy(base string) (ImageProxy, error) {
	if base == "" {
		return ImageProxy{}, nil
	}
	u, err := url.Parse(base)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return ImageProxy{}, fmt.Errorf("image proxy must be an absolute http(s) URL, got %q", base)
	}
	return ImageProxy{base: base}, nil
}

func (p ImageProxy) Enabled() bool {
	return p.base != ""
}

func (p ImageProxy) URL(source string, width int) string {
	if p.base == "" {
		return source
	}

	u, err := url.Parse(p.base)
	if err != nil {
		return source
	}

	q := u.Query()
	q.Set("url", source)
	if width > 0 {
		q.Set("w", strconv.Itoa(width))
	}
	q.Set("output", "jpg")
	u.RawQuery = q.Encode()

	return u.String()
}
