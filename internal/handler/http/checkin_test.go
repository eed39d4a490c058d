package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/servicepro/fieldsync-go/internal/domain/checkin"
	"github.com/servicepro/fieldsync-go/internal/pkg/geo"
	"github.com/servicepro/fieldsync-go/internal/pkg/jwt"
	"github.com/servicepro/fieldsync-go/internal/pkg/sse"
)

type fakeCheckInService struct {
	submitResp checkin.CheckInResponse
	submitErr  error
	gotTech    string
	gotReq     checkin.SubmitRequest
}

func (f *fakeCheckInService) Submit(ctx context.Context, technicianID string, req checkin.SubmitRequest) (checkin.CheckInResponse, error) {
	f.gotTech = technicianID
	f.gotReq = req
	return f.submitResp, f.submitErr
}

func (f *fakeCheckInService) ListByJob(ctx context.Context, filter checkin.ListByJobFilter) (checkin.ListCheckInsResponse, error) {
	return checkin.ListCheckInsResponse{}, nil
}

func testRouter(t *testing.T, svc checkin.CheckInService) (jwt.Service, http.Handler) {
	t.Helper()
	jwtService := jwt.NewJWTService("test-secret-key-for-jwt", "1h")

	router := NewRouter(
		jwtService,
		&noopJobHandler{},
		NewCheckInHandler(svc),
		NewEventsHandler(sse.NewHub(), jwtService),
		"test",
	)
	return jwtService, router
}

type noopJobHandler struct{}

func (noopJobHandler) List(w http.ResponseWriter, r *http.Request)   {}
func (noopJobHandler) Get(w http.ResponseWriter, r *http.Request)    {}
func (noopJobHandler) Update(w http.ResponseWriter, r *http.Request) {}

func submitBody(t *testing.T) *bytes.Buffer {
	t.Helper()
	body, err := json.Marshal(checkin.SubmitRequest{
		EntryID: "123e4567-e89b-42d3-a456-426614174000",
		JobID:   "job-1",
		Event:   checkin.EventCheckIn,
		Location: geo.Fix{
			Latitude:  24.7136,
			Longitude: 46.6753,
			Accuracy:  8,
			Timestamp: time.Now().UTC(),
		},
	})
	require.NoError(t, err)
	return bytes.NewBuffer(body)
}

func TestSubmitCheckInRequiresAuth(t *testing.T) {
	_, router := testRouter(t, &fakeCheckInService{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/check-ins", submitBody(t))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSubmitCheckInCreated(t *testing.T) {
	svc := &fakeCheckInService{
		submitResp: checkin.CheckInResponse{ID: "ci-1", JobID: "job-1", Event: checkin.EventCheckIn},
	}
	jwtService, router := testRouter(t, svc)

	token, _, err := jwtService.GenerateAccessToken("tech-1", "technician")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/check-ins", submitBody(t))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "tech-1", svc.gotTech, "technician id comes from the token, not the payload")

	var resp struct {
		Success bool                    `json:"success"`
		Data    checkin.CheckInResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "ci-1", resp.Data.ID)
}

func TestSubmitCheckInDuplicateReturnsOK(t *testing.T) {
	svc := &fakeCheckInService{
		submitResp: checkin.CheckInResponse{ID: "ci-1", Duplicate: true},
	}
	jwtService, router := testRouter(t, svc)

	token, _, err := jwtService.GenerateAccessToken("tech-1", "technician")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/check-ins", submitBody(t))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code, "collapsed duplicate is not a new resource")
}

func TestSubmitCheckInOutsideRadius(t *testing.T) {
	svc := &fakeCheckInService{submitErr: checkin.ErrOutsideAllowedRadius}
	jwtService, router := testRouter(t, svc)

	token, _, err := jwtService.GenerateAccessToken("tech-1", "technician")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/check-ins", submitBody(t))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
