package storage

import (
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"log"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
)

const (
	photoSize    = 300
	photoQuality = 80
)

// CompressProfilePhoto re-encodes a stored staff photo as a 300x300 cover
// crop JPEG and deletes the original. On any failure the original file stays
// in place and its name is returned unchanged.
func (s *FileStore) CompressProfilePhoto(name string) string {
	src, err := decodeImage(s.Path(CategoryStaff, name))
	if err != nil {
		log.Printf("⚠️  Could not decode photo %s, keeping original: %v", name, err)
		return name
	}

	dst := image.NewRGBA(image.Rect(0, 0, photoSize, photoSize))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, coverRect(src.Bounds()), draw.Over, nil)

	compressed := "c-" + strings.TrimSuffix(name, filepath.Ext(name)) + ".jpg"
	out, err := os.Create(s.Path(CategoryStaff, compressed))
	if err != nil {
		log.Printf("⚠️  Could not create compressed photo, keeping original: %v", err)
		return name
	}
	defer out.Close()

	if err := jpeg.Encode(out, dst, &jpeg.Options{Quality: photoQuality}); err != nil {
		log.Printf("⚠️  Could not encode compressed photo, keeping original: %v", err)
		os.Remove(s.Path(CategoryStaff, compressed))
		return name
	}

	s.Delete(CategoryStaff, name)
	return compressed
}

func decodeImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	return img, err
}

// coverRect returns the largest centered square inside b, so scaling it to
// the square target crops instead of distorting.
func coverRect(b image.Rectangle) image.Rectangle {
	w, h := b.Dx(), b.Dy()
	if w == h {
		return b
	}
	if w > h {
		off := (w - h) / 2
		return image.Rect(b.Min.X+off, b.Min.Y, b.Min.X+off+h, b.Max.Y)
	}
	off := (h - w) / 2
	return image.Rect(b.Min.X, b.Min.Y+off, b.Max.X, b.Min.Y+off+w)
}
