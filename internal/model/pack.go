package model

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrPackingFailed is returned when the packing service reports failure.
var ErrPackingFailed = errors.New("packing failed")

// PackRequest is the body sent to the external packing service.
type PackRequest struct {
	ContainerWidth  float64    `json:"container_width"`
	ContainerHeight float64    `json:"container_height"`
	Rectangles      []RectSize `json:"rectangles"`
}

// NewPackRequest builds a request for the given bin and rectangle sizes.
func NewPackRequest(bin Bin, sizes []RectSize) PackRequest {
	rects := make([]RectSize, len(sizes))
	copy(rects, sizes)
	return PackRequest{
		ContainerWidth:  bin.Width,
		ContainerHeight: bin.Height,
		Rectangles:      rects,
	}
}

// PackedRect is a placed rectangle as the service encodes it.
type PackedRect struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Rotated bool    `json:"rotated"`
}

// Visualization is the drawing payload of a PackResponse.
type Visualization struct {
	Container     RectSize     `json:"container"`
	PackedRects   []PackedRect `json:"packed_rects"`
	AllInputRects []RectSize   `json:"all_input_rects"`
	UnpackedRects []RectSize   `json:"unpacked_rects"`
}

// PackResponse is the reply of the external packing service.
type PackResponse struct {
	Success          bool           `json:"success"`
	Density          float64        `json:"density"`
	Message          string         `json:"message"`
	PackedRectangles []PackedRect   `json:"packed_rectangles"`
	Visualization    *Visualization `json:"visualization"`

	// Echo of the request, used when no visualization block is present.
	ContainerWidth  float64 `json:"container_width,omitempty"`
	ContainerHeight float64 `json:"container_height,omitempty"`
}

// Layout converts the response to a Layout. Rectangle IDs are their
// 1-based position in the packed list.
func (p PackResponse) Layout() (Layout, error) {
	if !p.Success {
		if p.Message != "" {
			return Layout{}, fmt.Errorf("%w: %s", ErrPackingFailed, p.Message)
		}
		return Layout{}, ErrPackingFailed
	}

	bin := Bin{Width: p.ContainerWidth, Height: p.ContainerHeight}
	packed := p.PackedRectangles
	var unplaced []RectSize
	if v := p.Visualization; v != nil {
		if v.Container.Width != 0 || v.Container.Height != 0 {
			bin = Bin{Width: v.Container.Width, Height: v.Container.Height}
		}
		if len(v.PackedRects) > 0 {
			packed = v.PackedRects
		}
		unplaced = append(unplaced, v.UnpackedRects...)
	}
	if err := bin.Validate(); err != nil {
		return Layout{}, err
	}

	layout := NewLayout(bin)
	layout.Density = p.Density
	layout.Unplaced = unplaced
	for i, r := range packed {
		layout.Rectangles = append(layout.Rectangles, PlacedRectangle{
			ID:      strconv.Itoa(i + 1),
			X:       r.X,
			Y:       r.Y,
			W:       r.Width,
			H:       r.Height,
			Rotated: r.Rotated,
		})
	}
	return layout, nil
}

// ValidateInput checks a packing request before it is sent. It returns one
// message per problem; an empty slice means the input is valid.
func ValidateInput(bin Bin, sizes []RectSize) []string {
	var errs []string
	binOK := true
	if !isPositiveFinite(bin.Width) {
		errs = append(errs, "container width must be greater than 0")
		binOK = false
	}
	if !isPositiveFinite(bin.Height) {
		errs = append(errs, "container height must be greater than 0")
		binOK = false
	}

	if len(sizes) == 0 {
		errs = append(errs, "at least one rectangle is required")
		return errs
	}

	for i, s := range sizes {
		n := i + 1
		if !isPositiveFinite(s.Width) {
			errs = append(errs, fmt.Sprintf("rectangle %d: width must be greater than 0", n))
		}
		if !isPositiveFinite(s.Height) {
			errs = append(errs, fmt.Sprintf("rectangle %d: height must be greater than 0", n))
		}
		if !binOK {
			continue
		}
		if s.Width > bin.Width {
			errs = append(errs, fmt.Sprintf("rectangle %d: width (%s) exceeds container width (%s)",
				n, FormatNumber(s.Width), FormatNumber(bin.Width)))
		}
		if s.Height > bin.Height {
			errs = append(errs, fmt.Sprintf("rectangle %d: height (%s) exceeds container height (%s)",
				n, FormatNumber(s.Height), FormatNumber(bin.Height)))
		}
	}
	return errs
}
