package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"chirp/internal/models"

	"github.com/chai2010/webp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register WebP decoder
)

const (
	DefaultAvatarDir        = "/tmp/chirp/avatars"
	AvatarSizePx            = 256
	AvatarWebPQuality       = 70
	maxAvatarUploadSizeByte = 5 * 1024 * 1024
)

// AvatarService turns uploaded images into fixed-size WebP avatars on disk.
type AvatarService struct {
	dir string
}

func NewAvatarService(dir string) *AvatarService {
	if dir == "" {
		dir = DefaultAvatarDir
	}
	return &AvatarService{dir: dir}
}

// Dir returns the directory avatars are written to, for static serving.
func (s *AvatarService) Dir() string {
	return s.dir
}

// Process validates and normalizes an uploaded image: decode, center-crop
// to a square, scale to 256px and re-encode as WebP. It returns the URL
// path the stored avatar is served under.
func (s *AvatarService) Process(ctx context.Context, userID uint, content []byte) (string, error) {
	if len(content) == 0 {
		return "", models.NewValidationError("No file uploaded")
	}
	if len(content) > maxAvatarUploadSizeByte {
		return "", models.NewValidationError(fmt.Sprintf("File too large (max %dMB)", maxAvatarUploadSizeByte/(1024*1024)))
	}
	if !isAllowedAvatarMIME(http.DetectContentType(content)) {
		return "", models.NewValidationError("Invalid image type")
	}

	decoded, _, err := image.Decode(bytes.NewReader(content))
	if err != nil {
		return "", models.NewValidationError("Invalid image file")
	}

	square := cropCenterSquare(decoded)
	scaled := scaleTo(square, AvatarSizePx)

	buf := bytes.NewBuffer(nil)
	if err := webp.Encode(buf, scaled, &webp.Options{Quality: AvatarWebPQuality}); err != nil {
		return "", models.NewInternalError(err)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", models.NewInternalError(err)
	}
	filename := fmt.Sprintf("%d.webp", userID)
	if err := os.WriteFile(filepath.Join(s.dir, filename), buf.Bytes(), 0o644); err != nil {
		return "", models.NewInternalError(err)
	}

	return "/media/avatars/" + filename, nil
}

func cropCenterSquare(src image.Image) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == h {
		return src
	}
	side := w
	if h < side {
		side = h
	}
	x := b.Min.X + (w-side)/2
	y := b.Min.Y + (h-side)/2
	dst := image.NewRGBA(image.Rect(0, 0, side, side))
	xdraw.Copy(dst, image.Point{}, src, image.Rect(x, y, x+side, y+side), xdraw.Src, nil)
	return dst
}

func scaleTo(src image.Image, size int) image.Image {
	b := src.Bounds()
	if b.Dx() == size && b.Dy() == size {
		return src
	}
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, b, xdraw.Over, nil)
	return dst
}

func isAllowedAvatarMIME(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		mediaType = strings.ToLower(strings.TrimSpace(contentType))
	}
	switch strings.ToLower(mediaType) {
	case "image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp":
		return true
	default:
		return false
	}
}
