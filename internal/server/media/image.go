package media

import (
	"fmt"

	"github.com/disintegration/imaging"
)

// Bounding boxes for uploaded pictures.
const (
	AvatarMaxSide      = 512
	CoverMaxWidth      = 1920
	CoverMaxHeight     = 1080
	ThumbnailMaxWidth  = 1280
	ThumbnailMaxHeight = 720
)

// FitImage shrinks the image at path in place so it fits within maxW x maxH,
// keeping its aspect ratio. Files that are not decodable images are rejected;
// images already within bounds are left untouched.
func FitImage(path string, maxW, maxH int) error {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return fmt.Errorf("decode image: %w", err)
	}

	b := img.Bounds()
	if b.Dx() <= maxW && b.Dy() <= maxH {
		return nil
	}

	fitted := imaging.Fit(img, maxW, maxH, imaging.Lanczos)
	if err := imaging.Save(fitted, path); err != nil {
		return fmt.Errorf("save image: %w", err)
	}
	return nil
}
