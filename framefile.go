package monopanel

import (
	"image"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// SaveFrame stores a raw frame as name on fs.
func SaveFrame(fs afero.Fs, name string, frame []byte) error {
	if err := afero.WriteFile(fs, name, frame, 0o644); err != nil {
		return errors.Wrap(err, "monopanel: save frame")
	}
	return nil
}

// LoadFrame reads a raw frame stored by SaveFrame. The frame must match p
// exactly.
func LoadFrame(fs afero.Fs, name string, p *Profile) ([]byte, error) {
	b, err := afero.ReadFile(fs, name)
	if err != nil {
		return nil, errors.Wrap(err, "monopanel: load frame")
	}
	if len(b) != p.FrameLen() {
		return nil, errors.Wrapf(ErrFrameSize, "%s is %d bytes, %s needs %d", name, len(b), p.Name, p.FrameLen())
	}
	return b, nil
}

// LoadImage decodes an image file from fs, honouring EXIF orientation.
func LoadImage(fs afero.Fs, name string) (image.Image, error) {
	f, err := fs.Open(name)
	if err != nil {
		return nil, errors.Wrap(err, "monopanel: open image")
	}
	defer f.Close()
	img, err := imaging.Decode(f, imaging.AutoOrientation(true))
	if err != nil {
		return nil, errors.Wrapf(err, "monopanel: decode %s", name)
	}
	return img, nil
}
