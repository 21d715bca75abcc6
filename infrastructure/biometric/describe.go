package biometric

import (
	"fmt"
	"net/url"
	"path"
	"strings"

	"biointake.io/infrastructure/biometric/types"
)

const (
	describeSelfieMinRatio  = 0.1
	describeSelfieMaxCenter = 0.25
)

// Describe renders the English summary of an analysed image.
func Describe(width, height int, faces []types.DetectedFace) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Image of %dx%d pixels. ", width, height)

	if len(faces) == 0 {
		b.WriteString("No human faces were detected in this image.")
		return b.String()
	}

	fmt.Fprintf(&b, "Detected %d %s in the image. ", len(faces), plural(len(faces), "face", "faces"))

	frontal, profile, withEyes := 0, 0, 0
	for _, f := range faces {
		if f.IsFrontal {
			frontal++
		} else {
			profile++
		}
		if f.HasEyes {
			withEyes++
		}
	}
	switch {
	case frontal > 0 && profile > 0:
		fmt.Fprintf(&b, "%d %s and %d %s. ", frontal, plural(frontal, "frontal face", "frontal faces"), profile, plural(profile, "profile face", "profile faces"))
	case frontal > 0:
		fmt.Fprintf(&b, "%d %s. ", frontal, plural(frontal, "frontal face", "frontal faces"))
	default:
		fmt.Fprintf(&b, "%d %s. ", profile, plural(profile, "profile face", "profile faces"))
	}
	if withEyes > 0 {
		fmt.Fprintf(&b, "Eyes are clearly visible in %d %s. ", withEyes, plural(withEyes, "face", "faces"))
	}

	if len(faces) == 1 && faces[0].IsFrontal {
		face := faces[0]
		ratio := 0.0
		if width*height > 0 {
			ratio = float64(face.Area()) / float64(width*height)
		}
		if ratio > describeSelfieMinRatio && face.CenterDistance(width, height) < describeSelfieMaxCenter && face.HasEyes {
			b.WriteString("This image appears to be a selfie, with the face centred and filling a significant part of the frame.")
		}
	} else if len(faces) > 1 {
		b.WriteString("This image appears to be a group photo with several people.")
	}
	return strings.TrimSpace(b.String())
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// ImageTypeFromReference guesses the image type from a data URL prefix or
// the extension of a URL path.
func ImageTypeFromReference(reference string) types.ImageFormat {
	ref := strings.ToLower(strings.TrimSpace(reference))
	if strings.HasPrefix(ref, "data:image/") {
		mime := strings.TrimPrefix(ref, "data:image/")
		if i := strings.IndexAny(mime, ";,"); i >= 0 {
			mime = mime[:i]
		}
		return formatFromName(mime)
	}
	if u, err := url.Parse(ref); err == nil && u.Path != "" {
		ref = u.Path
	}
	return formatFromName(strings.TrimPrefix(path.Ext(ref), "."))
}

func formatFromName(name string) types.ImageFormat {
	switch name {
	case "jpg", "jpeg":
		return types.FormatJPEG
	case "png":
		return types.FormatPNG
	case "gif":
		return types.FormatGIF
	case "bmp":
		return types.FormatBMP
	case "webp":
		return types.FormatWEBP
	}
	return types.FormatUnknown
}
