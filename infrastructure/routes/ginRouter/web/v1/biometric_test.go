package routev1

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"biointake.io/application/constants"
	biometric_usecases "biointake.io/application/usecases/biometric"
	"biointake.io/entities"
	"biointake.io/infrastructure/auth"
	"biointake.io/infrastructure/biometric/types"
	middlewares "biointake.io/infrastructure/middleware"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const signingKey = "route-test-key"

type stubSource struct {
	err error
}

func (s *stubSource) Resolve(ctx context.Context, imageURL, imageBase64 string) (types.RawImage, error) {
	if s.err != nil {
		return types.RawImage{}, s.err
	}
	return types.RawImage{Bytes: []byte{0xff, 0xd8, 0xff}, Reference: imageURL}, nil
}

type stubAnalyzer struct {
	err error
}

func (a *stubAnalyzer) AnalyzeImage(ctx context.Context, raw []byte) (*types.ImageAnalysis, error) {
	if a.err != nil {
		return nil, a.err
	}
	return &types.ImageAnalysis{
		Width:       320,
		Height:      240,
		Format:      types.FormatJPEG,
		Faces:       []types.DetectedFace{{Rectangle: types.Rectangle{X: 100, Y: 60, Width: 120, Height: 120}, HasEyes: true, IsFrontal: true}},
		Forensic:    types.ForensicVerdict{Passed: true},
		Description: "Image of 320x240 pixels. Detected 1 face in the image. ",
	}, nil
}

func (a *stubAnalyzer) InspectFingerprint(ctx context.Context, raw []byte) (types.FingerprintValidation, types.FingerprintDigest, error) {
	return types.FingerprintValidation{}, types.FingerprintDigest{}, a.err
}

type stubStore struct {
	records map[string]entities.AnalysisRecord
}

func (s *stubStore) SaveAnalysisRecord(ctx context.Context, record entities.AnalysisRecord) (*entities.AnalysisRecord, error) {
	parsed := record.ParseModel().(*entities.AnalysisRecord)
	s.records[parsed.ID] = *parsed
	return parsed, nil
}

func (s *stubStore) ListAnalysisRecords(ctx context.Context, userID string, limit int64) ([]entities.AnalysisRecord, error) {
	out := []entities.AnalysisRecord{}
	for _, r := range s.records {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *stubStore) FindAnalysisRecord(ctx context.Context, id string) (*entities.AnalysisRecord, error) {
	if r, ok := s.records[id]; ok {
		return &r, nil
	}
	return nil, nil
}

func (s *stubStore) SaveFingerprintDigest(ctx context.Context, record entities.FingerprintRecord) (*entities.FingerprintRecord, error) {
	return record.ParseModel().(*entities.FingerprintRecord), nil
}

func (s *stubStore) LoadFingerprintDigest(ctx context.Context, userID string) (*entities.FingerprintRecord, error) {
	return nil, nil
}

func (s *stubStore) HasFingerprintReference(ctx context.Context, userID string, imageReference string) (bool, error) {
	return false, nil
}

type stubNotifier struct{}

func (stubNotifier) Publish(ctx context.Context, event entities.FraudNotification) (string, error) {
	return "tx-1", nil
}

type envelope struct {
	Message      string         `json:"message"`
	Body         map[string]any `json:"body"`
	ResponseCode *uint          `json:"response_code"`
	Errors       []string       `json:"errors"`
}

func newTestRouter(source *stubSource, analyzer *stubAnalyzer, store *stubStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	api := router.Group("/api")
	api.Use(middlewares.DeviceHeaderMiddleware())
	api.Use(middlewares.UserIdentityMiddleware(signingKey))
	usecase := biometric_usecases.NewBiometricUseCase(analyzer, source, store, stubNotifier{}, 0.1)
	BiometricRouter(api.Group("/v1"), usecase)
	return router
}

func tokenFor(t *testing.T, userID string) string {
	t.Helper()
	now := time.Now()
	token, err := auth.GenerateAuthToken(auth.ClaimsData{
		UserID:    userID,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(time.Hour).Unix(),
	}, signingKey)
	require.NoError(t, err)
	return *token
}

func perform(t *testing.T, router *gin.Engine, method, path, body, token string) (int, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Device-Id", "device-1")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	var resp envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec.Code, resp
}

func TestAnalysisRoute(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		source *stubSource
		code   int
		check  func(t *testing.T, resp envelope)
	}{
		{
			name:   "analyses an image url",
			body:   `{"imageUrl":"https://cdn.example.com/face.jpg"}`,
			source: &stubSource{},
			code:   http.StatusOK,
			check: func(t *testing.T, resp envelope) {
				assert.Equal(t, true, resp.Body["containsFaces"])
				assert.Equal(t, "JPEG", resp.Body["imageType"])
				assert.NotEmpty(t, resp.Body["analysisId"])
			},
		},
		{
			name:   "rejects malformed json",
			body:   `{"imageUrl":`,
			source: &stubSource{},
			code:   http.StatusBadRequest,
		},
		{
			name:   "rejects both image inputs",
			body:   `{"imageUrl":"https://cdn.example.com/face.jpg","imageBase64":"aGVsbG8="}`,
			source: &stubSource{},
			code:   http.StatusUnprocessableEntity,
			check: func(t *testing.T, resp envelope) {
				assert.Contains(t, resp.Errors, "provide exactly one of imageUrl or imageBase64")
			},
		},
		{
			name:   "rejects a missing image",
			body:   `{}`,
			source: &stubSource{},
			code:   http.StatusUnprocessableEntity,
		},
		{
			name:   "marks fetch failures retryable",
			body:   `{"imageUrl":"https://cdn.example.com/face.jpg"}`,
			source: &stubSource{err: types.NewNetworkError("could not fetch image", errors.New("connection reset"))},
			code:   http.StatusBadGateway,
			check: func(t *testing.T, resp envelope) {
				assert.Equal(t, true, resp.Body["retryable"])
				require.NotNil(t, resp.ResponseCode)
				assert.Equal(t, constants.RETRYABLE_FETCH_FAILURE, *resp.ResponseCode)
			},
		},
		{
			name:   "echoes input errors",
			body:   `{"imageBase64":"aGVsbG8="}`,
			source: &stubSource{err: types.NewInputError("image payload is empty")},
			code:   http.StatusBadRequest,
			check: func(t *testing.T, resp envelope) {
				assert.Equal(t, "image payload is empty", resp.Message)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(tt.source, &stubAnalyzer{}, &stubStore{records: map[string]entities.AnalysisRecord{}})
			code, resp := perform(t, router, http.MethodPost, "/api/v1/biometric/analysis", tt.body, "")
			assert.Equal(t, tt.code, code)
			if tt.check != nil {
				tt.check(t, resp)
			}
		})
	}
}

func TestAnalysisRouteSaturatedPool(t *testing.T) {
	router := newTestRouter(&stubSource{}, &stubAnalyzer{err: types.ErrPoolSaturated}, &stubStore{records: map[string]entities.AnalysisRecord{}})

	code, resp := perform(t, router, http.MethodPost, "/api/v1/biometric/analysis", `{"imageUrl":"https://cdn.example.com/face.jpg"}`, "")

	assert.Equal(t, http.StatusServiceUnavailable, code)
	require.NotNil(t, resp.ResponseCode)
	assert.Equal(t, constants.ANALYSIS_CAPACITY_REACHED, *resp.ResponseCode)
}

func TestFetchAnalysisOwnership(t *testing.T) {
	store := &stubStore{records: map[string]entities.AnalysisRecord{
		"01J0000000000000000000000A": {ID: "01J0000000000000000000000A", UserID: "owner", FaceCount: 1},
	}}
	router := newTestRouter(&stubSource{}, &stubAnalyzer{}, store)

	tests := []struct {
		name  string
		path  string
		token string
		code  int
	}{
		{"owner reads the record", "/api/v1/biometric/analysis/01J0000000000000000000000A", tokenFor(t, "owner"), http.StatusOK},
		{"other user is forbidden", "/api/v1/biometric/analysis/01J0000000000000000000000A", tokenFor(t, "intruder"), http.StatusForbidden},
		{"unknown id", "/api/v1/biometric/analysis/01J0000000000000000000000B", tokenFor(t, "owner"), http.StatusNotFound},
		{"anonymous caller must sign in", "/api/v1/biometric/analysis/01J0000000000000000000000A", "", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _ := perform(t, router, http.MethodGet, tt.path, "", tt.token)
			assert.Equal(t, tt.code, code)
		})
	}
}

func TestHistoryRequiresValidToken(t *testing.T) {
	store := &stubStore{records: map[string]entities.AnalysisRecord{
		"a": {ID: "a", UserID: "owner"},
		"b": {ID: "b", UserID: "someone-else"},
	}}
	router := newTestRouter(&stubSource{}, &stubAnalyzer{}, store)

	code, resp := perform(t, router, http.MethodGet, "/api/v1/biometric/analysis/history", "", "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, code)
	require.NotNil(t, resp.ResponseCode)
	assert.Equal(t, constants.SIGN_IN_REQUIRED, *resp.ResponseCode)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/biometric/analysis/history", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, "owner"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var listed struct {
		Body []map[string]any `json:"body"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listed))
	require.Len(t, listed.Body, 1)
	assert.Equal(t, "a", listed.Body[0]["analysisId"])
}

func TestDeviceHeaderRejectsOversizedID(t *testing.T) {
	router := newTestRouter(&stubSource{}, &stubAnalyzer{}, &stubStore{records: map[string]entities.AnalysisRecord{}})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/biometric/describe", bytes.NewBufferString(`{"imageUrl":"https://cdn.example.com/face.jpg"}`))
	req.Header.Set("X-Device-Id", string(bytes.Repeat([]byte("d"), 101)))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
