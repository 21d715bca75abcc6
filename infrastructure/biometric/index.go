package biometric

import (
	"context"
	"time"

	"biointake.io/infrastructure/biometric/types"
	"golang.org/x/sync/errgroup"
)

// Engine wires the detectors to a worker pool. It holds no per-request
// state; the models it shares are never written after loading.
type Engine struct {
	detector    *RegionDetector
	liveness    *LivenessScorer
	forensic    *ForensicAnalyzer
	fingerprint *FingerprintValidator
	pool        *WorkerPool
}

func NewEngine(models *Models, pool *WorkerPool, maxCaptureAge time.Duration) *Engine {
	return &Engine{
		detector:    NewRegionDetector(models),
		liveness:    NewLivenessScorer(models),
		forensic:    NewForensicAnalyzer(maxCaptureAge),
		fingerprint: NewFingerprintValidator(),
		pool:        pool,
	}
}

// AnalyzeImage decodes a colour image and runs face analysis and forensics
// side by side. The context is checked after decoding and after region
// detection.
func (e *Engine) AnalyzeImage(ctx context.Context, raw []byte) (*types.ImageAnalysis, error) {
	return runOnPool(ctx, e.pool, func(ctx context.Context) (*types.ImageAnalysis, error) {
		decoded, err := Decode(raw, DecodeColor)
		if err != nil {
			return nil, err
		}
		defer decoded.Close()
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		result := &types.ImageAnalysis{
			Width:  decoded.Width,
			Height: decoded.Height,
			Format: decoded.Format,
		}
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			faces := e.detector.Detect(decoded.Mat)
			if err := gctx.Err(); err != nil {
				return err
			}
			result.Faces = faces
			result.Liveness = e.liveness.Score(decoded.Mat, faces)
			result.Selfie = ClassifySelfie(decoded.Width, decoded.Height, faces, result.Liveness)
			result.Fraud = DecideFraud(faces, decoded.Width, decoded.Height)
			result.Description = Describe(decoded.Width, decoded.Height, faces)
			return nil
		})
		g.Go(func() error {
			result.Forensic = e.forensic.Analyze(raw, decoded.Format, decoded.Mat)
			return nil
		})
		if err := g.Wait(); err != nil {
			return nil, err
		}
		return result, nil
	})
}

type fingerprintInspection struct {
	validation types.FingerprintValidation
	digest     types.FingerprintDigest
}

// InspectFingerprint validates the scan and computes its digest from a
// single grayscale decode. The digest is empty when the scan is invalid.
func (e *Engine) InspectFingerprint(ctx context.Context, raw []byte) (types.FingerprintValidation, types.FingerprintDigest, error) {
	inspection, err := runOnPool(ctx, e.pool, func(ctx context.Context) (fingerprintInspection, error) {
		decoded, err := Decode(raw, DecodeGrayscale)
		if err != nil {
			return fingerprintInspection{}, err
		}
		defer decoded.Close()
		if err := ctx.Err(); err != nil {
			return fingerprintInspection{}, err
		}
		var out fingerprintInspection
		out.validation = validateRidges(decoded.Mat)
		if out.validation.Valid {
			out.digest = digestGray(decoded.Mat)
		}
		return out, nil
	})
	if err != nil {
		return types.FingerprintValidation{}, types.FingerprintDigest{}, err
	}
	return inspection.validation, inspection.digest, nil
}
