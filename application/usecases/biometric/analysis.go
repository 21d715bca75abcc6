package biometric_usecases

import (
	"context"

	"biointake.io/application/controller/dto"
	"biointake.io/entities"
	"biointake.io/infrastructure/biometric"
	"biointake.io/infrastructure/biometric/types"
)

func (uc *BiometricUseCase) analyze(ctx context.Context, payload dto.ImageRequest) (types.RawImage, *types.ImageAnalysis, error) {
	raw, err := uc.source.Resolve(ctx, payload.ImageURL, payload.ImageBase64)
	if err != nil {
		return raw, nil, err
	}
	analysis, err := uc.analyzer.AnalyzeImage(ctx, raw.Bytes)
	if err != nil {
		return raw, nil, err
	}
	return raw, analysis, nil
}

func imageType(raw types.RawImage, analysis *types.ImageAnalysis) string {
	if analysis != nil && analysis.Format != "" && analysis.Format != types.FormatUnknown {
		return string(analysis.Format)
	}
	if raw.ContentType != "" {
		return string(biometric.ImageTypeFromReference("data:" + raw.ContentType))
	}
	return string(biometric.ImageTypeFromReference(raw.Reference))
}

func faceSummaries(faces []types.DetectedFace) []entities.FaceSummary {
	summaries := make([]entities.FaceSummary, 0, len(faces))
	for _, f := range faces {
		summaries = append(summaries, entities.FaceSummary{
			X:         f.X,
			Y:         f.Y,
			Width:     f.Width,
			Height:    f.Height,
			HasEyes:   f.HasEyes,
			IsFrontal: f.IsFrontal,
		})
	}
	return summaries
}

func newRecord(caller Caller, kind entities.AnalysisKind, raw types.RawImage, analysis *types.ImageAnalysis) entities.AnalysisRecord {
	return entities.AnalysisRecord{
		UserID:         caller.user(),
		ImageReference: raw.Reference,
		Kind:           kind,
		Description:    analysis.Description,
		ImageType:      imageType(raw, analysis),
		ImageWidth:     analysis.Width,
		ImageHeight:    analysis.Height,
		FaceCount:      len(analysis.Faces),
		Faces:          faceSummaries(analysis.Faces),
		IsFraud:        analysis.Fraud.IsFraud(),
		FraudReason:    string(analysis.Fraud.Reason),
	}
}

func analysisResponse(record *entities.AnalysisRecord) *dto.AnalysisResponse {
	return &dto.AnalysisResponse{
		AnalysisID:    record.ID,
		Description:   record.Description,
		ContainsFaces: record.FaceCount > 0,
		FaceCount:     record.FaceCount,
		Faces:         record.Faces,
		ImageType:     record.ImageType,
		ImageWidth:    record.ImageWidth,
		ImageHeight:   record.ImageHeight,
		IsFraud:       record.IsFraud,
		FraudReason:   record.FraudReason,
		CreatedAt:     record.CreatedAt,
	}
}

// AnalyzeFraud runs the fraud rules on one image and stores the outcome.
func (uc *BiometricUseCase) AnalyzeFraud(ctx context.Context, caller Caller, payload dto.ImageRequest) (*dto.AnalysisResponse, error) {
	raw, analysis, err := uc.analyze(ctx, payload)
	if err != nil {
		return nil, err
	}
	saved, err := uc.store.SaveAnalysisRecord(ctx, newRecord(caller, entities.FraudAnalysis, raw, analysis))
	if err != nil {
		return nil, err
	}
	return analysisResponse(saved), nil
}

// Describe returns the English description of an image without storing it.
func (uc *BiometricUseCase) Describe(ctx context.Context, payload dto.ImageRequest) (*dto.DescriptionResponse, error) {
	raw, analysis, err := uc.analyze(ctx, payload)
	if err != nil {
		return nil, err
	}
	return &dto.DescriptionResponse{
		Description: analysis.Description,
		ImageType:   imageType(raw, analysis),
		ImageWidth:  analysis.Width,
		ImageHeight: analysis.Height,
		FaceCount:   len(analysis.Faces),
	}, nil
}

// VerifySelfie combines the selfie decision with the forensic verdict.
func (uc *BiometricUseCase) VerifySelfie(ctx context.Context, caller Caller, payload dto.ImageRequest) (*dto.SelfieResponse, error) {
	raw, analysis, err := uc.analyze(ctx, payload)
	if err != nil {
		return nil, err
	}
	status := biometric.ClassifyVerification(analysis.Selfie, analysis.Forensic.Passed)
	record := newRecord(caller, entities.SelfieAnalysis, raw, analysis)
	record.VerificationStatus = string(status)
	saved, err := uc.store.SaveAnalysisRecord(ctx, record)
	if err != nil {
		return nil, err
	}
	return &dto.SelfieResponse{
		AnalysisID:  saved.ID,
		Status:      status,
		Selfie:      analysis.Selfie,
		Liveness:    analysis.Liveness,
		Forensic:    analysis.Forensic,
		Description: analysis.Description,
	}, nil
}

// History lists the caller's stored analyses, newest first.
func (uc *BiometricUseCase) History(ctx context.Context, caller Caller) ([]dto.AnalysisResponse, error) {
	if !caller.authenticated() {
		return nil, ErrAuthenticationRequired
	}
	records, err := uc.store.ListAnalysisRecords(ctx, caller.UserID, uc.historyLimit)
	if err != nil {
		return nil, err
	}
	responses := make([]dto.AnalysisResponse, 0, len(records))
	for i := range records {
		responses = append(responses, *analysisResponse(&records[i]))
	}
	return responses, nil
}

// GetAnalysis returns one stored analysis owned by the caller.
func (uc *BiometricUseCase) GetAnalysis(ctx context.Context, caller Caller, id string) (*dto.AnalysisResponse, error) {
	if !caller.authenticated() {
		return nil, ErrAuthenticationRequired
	}
	record, err := uc.store.FindAnalysisRecord(ctx, id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, ErrAnalysisNotFound
	}
	if record.UserID != caller.UserID {
		return nil, ErrForbidden
	}
	return analysisResponse(record), nil
}
