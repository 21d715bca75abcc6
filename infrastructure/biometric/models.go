package biometric

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sync"

	"biointake.io/infrastructure/biometric/types"
	"biointake.io/infrastructure/logger"
	"gocv.io/x/gocv"
)

// Cascade is the subset of a trained cascade classifier the detectors use.
// *gocv.CascadeClassifier satisfies it.
type Cascade interface {
	DetectMultiScaleWithParams(img gocv.Mat, scale float64, minNeighbors, flags int, minSize, maxSize image.Point) []image.Rectangle
}

// Models is the read-only detector handle shared by every request. Profile
// may be nil when no profile cascade is installed.
type Models struct {
	Frontal Cascade
	Profile Cascade
	Eye     Cascade

	closers []*gocv.CascadeClassifier
}

func (m *Models) Close() {
	for _, c := range m.closers {
		c.Close()
	}
	m.closers = nil
}

var cascadeSearchDirs = []string{
	"",
	"/usr/local/share/opencv4/haarcascades",
	"/usr/share/opencv4/haarcascades",
	"/opt/homebrew/share/opencv4/haarcascades",
}

// ModelLoader loads the cascades once. Every call to Load after the first
// returns the same handle or the same error.
type ModelLoader struct {
	CascadePath string

	once   sync.Once
	models *Models
	err    error
}

func NewModelLoader(cascadePath string) *ModelLoader {
	return &ModelLoader{CascadePath: cascadePath}
}

func (l *ModelLoader) Load() (*Models, error) {
	l.once.Do(func() {
		l.models, l.err = l.load()
	})
	return l.models, l.err
}

func (l *ModelLoader) load() (*Models, error) {
	models := &Models{}

	frontal, err := l.loadCascade("haarcascade_frontalface_default.xml", "haarcascade_frontalface_alt.xml")
	if err != nil {
		return nil, err
	}
	models.Frontal = frontal
	models.closers = append(models.closers, frontal)

	eye, err := l.loadCascade("haarcascade_eye.xml")
	if err != nil {
		models.Close()
		return nil, err
	}
	models.Eye = eye
	models.closers = append(models.closers, eye)

	profile, err := l.loadCascade("haarcascade_profileface.xml")
	if err != nil {
		logger.Warning("profile cascade unavailable, profile detection disabled", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		})
	} else {
		models.Profile = profile
		models.closers = append(models.closers, profile)
	}

	logger.Info("cascade models loaded", logger.LoggerOptions{
		Key:  "profileEnabled",
		Data: models.Profile != nil,
	})
	return models, nil
}

// loadCascade tries each file name under the configured path and then the
// usual OpenCV install locations.
func (l *ModelLoader) loadCascade(names ...string) (*gocv.CascadeClassifier, error) {
	dirs := append([]string{l.CascadePath}, cascadeSearchDirs...)
	for _, name := range names {
		for _, dir := range dirs {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err != nil {
				continue
			}
			classifier := gocv.NewCascadeClassifier()
			if classifier.Load(path) {
				return &classifier, nil
			}
			classifier.Close()
		}
	}
	return nil, types.NewResourceInitError(fmt.Sprintf("could not load cascade %s", names[0]), nil)
}
