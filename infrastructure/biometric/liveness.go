package biometric

import (
	"image"

	"biointake.io/infrastructure/biometric/types"
	"gocv.io/x/gocv"
)

const (
	textureMeanMin   = 10.0
	textureMeanMax   = 40.0
	textureStdDevMin = 15.0
	textureStdDevMax = 45.0

	brightnessPeakFloor = 0.05
	brightnessMaxPeaks  = 10

	eyeAreaMin = 0.01
	eyeAreaMax = 0.10

	aspectRatioMin       = 0.6
	aspectRatioMax       = 0.95
	livenessMaxCenterDst = 0.25
)

// LivenessScorer scores the largest face with four independent checks and
// calls it live when at least three pass.
type LivenessScorer struct {
	eye Cascade
}

func NewLivenessScorer(models *Models) *LivenessScorer {
	return &LivenessScorer{eye: models.Eye}
}

func (s *LivenessScorer) Score(img gocv.Mat, faces []types.DetectedFace) types.LivenessVerdict {
	largest := types.LargestFace(faces)
	if largest < 0 {
		return types.NewLivenessVerdict(false, false, false, false)
	}
	face := faces[largest].Rectangle

	gray := toGray(img)
	defer gray.Close()
	gocv.EqualizeHist(gray, &gray)
	roi := gray.Region(face.Image())
	defer roi.Close()

	mean, stddev := gradientMagnitudeStats(roi)
	texture := mean > textureMeanMin && mean < textureMeanMax && stddev > textureStdDevMin && stddev < textureStdDevMax
	brightness := histogramPeaks(roi) < brightnessMaxPeaks
	eyes := plausibleEyeCount(detectEyes(s.eye, gray, face), face.Area()) >= 2
	proportions := proportionsPlausible(face, img.Cols(), img.Rows())

	return types.NewLivenessVerdict(texture, brightness, eyes, proportions)
}

// gradientMagnitudeStats returns the mean and standard deviation of the
// Sobel gradient magnitude.
func gradientMagnitudeStats(gray gocv.Mat) (float64, float64) {
	gradX := gocv.NewMat()
	defer gradX.Close()
	gradY := gocv.NewMat()
	defer gradY.Close()
	gocv.Sobel(gray, &gradX, gocv.MatTypeCV32F, 1, 0, 3, 1, 0, gocv.BorderDefault)
	gocv.Sobel(gray, &gradY, gocv.MatTypeCV32F, 0, 1, 3, 1, 0, gocv.BorderDefault)

	magnitude := gocv.NewMat()
	defer magnitude.Close()
	angle := gocv.NewMat()
	defer angle.Close()
	gocv.CartToPolar(gradX, gradY, &magnitude, &angle, false)

	return meanStdDev(magnitude)
}

// histogramPeaks counts interior bins of the min-max normalised 256-bin
// histogram that beat both neighbours and the peak floor.
func histogramPeaks(gray gocv.Mat) int {
	hist := normalizedHistogram(gray, 256, 256)
	defer hist.Close()
	peaks := 0
	bins := hist.Rows()
	for i := 1; i < bins-1; i++ {
		v := hist.GetFloatAt(i, 0)
		if v > hist.GetFloatAt(i-1, 0) && v > hist.GetFloatAt(i+1, 0) && v > brightnessPeakFloor {
			peaks++
		}
	}
	return peaks
}

// plausibleEyeCount counts eyes whose area is strictly between 1% and 10% of
// the face area.
func plausibleEyeCount(eyes []image.Rectangle, faceArea int) int {
	if faceArea <= 0 {
		return 0
	}
	count := 0
	for _, e := range eyes {
		ratio := float64(e.Dx()*e.Dy()) / float64(faceArea)
		if ratio > eyeAreaMin && ratio < eyeAreaMax {
			count++
		}
	}
	return count
}

func proportionsPlausible(face types.Rectangle, width, height int) bool {
	if face.Height == 0 {
		return false
	}
	aspect := float64(face.Width) / float64(face.Height)
	if aspect < aspectRatioMin || aspect > aspectRatioMax {
		return false
	}
	return face.CenterDistance(width, height) < livenessMaxCenterDst
}

func meanStdDev(src gocv.Mat) (float64, float64) {
	mean := gocv.NewMat()
	defer mean.Close()
	stddev := gocv.NewMat()
	defer stddev.Close()
	gocv.MeanStdDev(src, &mean, &stddev)
	return mean.GetDoubleAt(0, 0), stddev.GetDoubleAt(0, 0)
}

// normalizedHistogram computes a single-channel histogram over [0, upper)
// scaled to [0, 1].
func normalizedHistogram(src gocv.Mat, bins int, upper float64) gocv.Mat {
	hist := gocv.NewMat()
	mask := gocv.NewMat()
	defer mask.Close()
	gocv.CalcHist([]gocv.Mat{src}, []int{0}, mask, &hist, []int{bins}, []float64{0, upper}, false)
	gocv.Normalize(hist, &hist, 0, 1, gocv.NormMinMax)
	return hist
}
