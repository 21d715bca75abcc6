package biometric

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	"image/color"
	"math"
	"strconv"
	"strings"

	"biointake.io/application/utils"
	"biointake.io/infrastructure/biometric/types"
	"gocv.io/x/gocv"
)

const (
	fingerprintMinDimension = 100
	fingerprintMaxDimension = 5000
	blackRatioMin           = 0.2
	blackRatioMax           = 0.7
	cannyLow                = 50
	cannyHigh               = 150
	houghThreshold          = 50
	houghMinLineLength      = 10
	houghMaxLineGap         = 5
	minSegments             = 10
	lineMaskThickness       = 3
	lineDensityMin          = 0.1
	lineDensityMax          = 0.7
	minAngleVariance        = 0.1

	digestCanvas = 200
	digestGrid   = 5
)

type FingerprintValidator struct{}

func NewFingerprintValidator() *FingerprintValidator {
	return &FingerprintValidator{}
}

// Validate decides whether the bytes look like a ridge-pattern scan. Each
// stage runs only when the previous one passed.
func (v *FingerprintValidator) Validate(raw []byte) (types.FingerprintValidation, error) {
	decoded, err := Decode(raw, DecodeGrayscale)
	if err != nil {
		return types.FingerprintValidation{}, err
	}
	defer decoded.Close()
	return validateRidges(decoded.Mat), nil
}

func validateRidges(gray gocv.Mat) types.FingerprintValidation {
	result := types.FingerprintValidation{Width: gray.Cols(), Height: gray.Rows()}
	if result.Width < fingerprintMinDimension || result.Height < fingerprintMinDimension {
		result.Rejection = types.FingerprintTooSmall
		return result
	}
	if result.Width > fingerprintMaxDimension || result.Height > fingerprintMaxDimension {
		result.Rejection = types.FingerprintTooLarge
		return result
	}

	equalized := gocv.NewMat()
	defer equalized.Close()
	gocv.EqualizeHist(gray, &equalized)

	binary := gocv.NewMat()
	defer binary.Close()
	gocv.Threshold(equalized, &binary, 0, 255, gocv.ThresholdBinary+gocv.ThresholdOtsu)

	total := binary.Rows() * binary.Cols()
	result.BlackRatio = float64(total-gocv.CountNonZero(binary)) / float64(total)
	if result.BlackRatio < blackRatioMin || result.BlackRatio > blackRatioMax {
		result.Rejection = types.FingerprintBlackRatio
		return result
	}

	edges := gocv.NewMat()
	defer edges.Close()
	gocv.Canny(binary, &edges, cannyLow, cannyHigh)

	lines := gocv.NewMat()
	defer lines.Close()
	gocv.HoughLinesPWithParams(edges, &lines, 1, math.Pi/180, houghThreshold, houghMinLineLength, houghMaxLineGap)

	segments := make([][4]int, 0, lines.Rows())
	for i := 0; i < lines.Rows(); i++ {
		l := lines.GetVeciAt(i, 0)
		segments = append(segments, [4]int{int(l[0]), int(l[1]), int(l[2]), int(l[3])})
	}
	result.SegmentCount = len(segments)
	if result.SegmentCount < minSegments {
		result.Rejection = types.FingerprintTooFewLines
		return result
	}

	result.LineDensity = lineDensity(segments, binary.Rows(), binary.Cols())
	if result.LineDensity <= lineDensityMin || result.LineDensity >= lineDensityMax {
		result.Rejection = types.FingerprintLineDensity
		return result
	}

	result.AngleVariance = angleVariance(segments)
	if result.AngleVariance < minAngleVariance {
		result.Rejection = types.FingerprintUniformAngles
		return result
	}

	result.Valid = true
	return result
}

// lineDensity rasterises the segments on a blank mask and returns the
// fraction of covered pixels.
func lineDensity(segments [][4]int, rows, cols int) float64 {
	mask := gocv.Zeros(rows, cols, gocv.MatTypeCV8UC1)
	defer mask.Close()
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	for _, s := range segments {
		gocv.Line(&mask, image.Pt(s[0], s[1]), image.Pt(s[2], s[3]), white, lineMaskThickness)
	}
	return float64(gocv.CountNonZero(mask)) / float64(rows*cols)
}

// angleVariance is the population variance of segment orientations in
// radians.
func angleVariance(segments [][4]int) float64 {
	if len(segments) == 0 {
		return 0
	}
	angles := make([]float64, len(segments))
	sum := 0.0
	for i, s := range segments {
		angles[i] = math.Atan2(float64(s[3]-s[1]), float64(s[2]-s[0]))
		sum += angles[i]
	}
	mean := sum / float64(len(angles))
	squared := 0.0
	for _, a := range angles {
		squared += (a - mean) * (a - mean)
	}
	return squared / float64(len(angles))
}

// Digest resizes to a fixed canvas and hashes the block statistics.
func (v *FingerprintValidator) Digest(raw []byte) (types.FingerprintDigest, error) {
	decoded, err := Decode(raw, DecodeGrayscale)
	if err != nil {
		return types.FingerprintDigest{}, err
	}
	defer decoded.Close()
	return digestGray(decoded.Mat), nil
}

func digestGray(gray gocv.Mat) types.FingerprintDigest {
	resized := gocv.NewMat()
	defer resized.Close()
	gocv.Resize(gray, &resized, image.Pt(digestCanvas, digestCanvas), 0, 0, gocv.InterpolationLinear)

	features := make([]float64, 0, types.FingerprintFeatureCount)
	cellW, cellH := resized.Cols()/digestGrid, resized.Rows()/digestGrid
	for y := 0; y < digestGrid; y++ {
		for x := 0; x < digestGrid; x++ {
			cell := resized.Region(image.Rect(x*cellW, y*cellH, (x+1)*cellW, (y+1)*cellH))
			mean, stddev := meanStdDev(cell)
			cell.Close()
			features = append(features, utils.Round(mean, 2), utils.Round(stddev, 2))
		}
	}
	mean, stddev := meanStdDev(resized)
	features = append(features, utils.Round(mean, 2), utils.Round(stddev, 2))

	sum := sha256.Sum256([]byte(serializeFeatures(features)))
	return types.FingerprintDigest{Features: features, Hash: hex.EncodeToString(sum[:])}
}

// serializeFeatures writes region_x_y_mean/stddev pairs in row-major order
// followed by the global pair.
func serializeFeatures(features []float64) string {
	var b strings.Builder
	for i := 0; i+1 < len(features); i += 2 {
		cell := i / 2
		var key string
		if cell < digestGrid*digestGrid {
			key = fmt.Sprintf("region_%d_%d", cell%digestGrid, cell/digestGrid)
		} else {
			key = "global"
		}
		fmt.Fprintf(&b, "%s_mean=%s;%s_stddev=%s;", key, strconv.FormatFloat(features[i], 'f', 2, 64), key, strconv.FormatFloat(features[i+1], 'f', 2, 64))
	}
	return b.String()
}

// MatchDigest compares a candidate with the stored digest. A zero tolerance
// means exact hash equality; otherwise the mean absolute difference of the
// feature vectors must not exceed tolerance.
func MatchDigest(stored, candidate types.FingerprintDigest, tolerance float64) bool {
	if tolerance <= 0 {
		return stored.Hash != "" && stored.Hash == candidate.Hash
	}
	if len(stored.Features) != types.FingerprintFeatureCount || len(candidate.Features) != types.FingerprintFeatureCount {
		return false
	}
	diff := 0.0
	for i := range stored.Features {
		diff += math.Abs(stored.Features[i] - candidate.Features[i])
	}
	return diff/float64(types.FingerprintFeatureCount) <= tolerance
}
