package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/doanhtu07/web-slinger-dispatch/internal/announce"
	"github.com/doanhtu07/web-slinger-dispatch/internal/config"
	"github.com/doanhtu07/web-slinger-dispatch/internal/models"
	"github.com/doanhtu07/web-slinger-dispatch/internal/service"
	"github.com/doanhtu07/web-slinger-dispatch/internal/service/mocks"
	"github.com/doanhtu07/web-slinger-dispatch/internal/speech"
	"github.com/doanhtu07/web-slinger-dispatch/internal/voice"
	"github.com/gin-gonic/gin"
	openai "github.com/sashabaranov/go-openai"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// newTestHandler builds a Handler wired to mocks and a test router.
func newTestHandler(t *testing.T) (*mocks.MockIncidentService, *mocks.MockReportService, *announce.Announcer, *gin.Engine) {
	return newTestHandlerWithAudio(t, nil)
}

func newTestHandlerWithAudio(t *testing.T, audioClient voice.AudioClient) (*mocks.MockIncidentService, *mocks.MockReportService, *announce.Announcer, *gin.Engine) {
	ctrl := gomock.NewController(t)
	incidentMock := mocks.NewMockIncidentService(ctrl)
	reportMock := mocks.NewMockReportService(ctrl)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})

	cfg := &config.Config{
		APIKeys:                []string{"test-api-key"},
		StatsTimeWindowMinutes: 60,
		SpeechLanguage:         "en-US",
		SpeechTimeout:          5 * time.Second,
	}

	announcer := announce.NewAnnouncer(speech.NewBuiltin(logger), nil, 3.0, logger)
	transcriber := voice.NewTranscriber(audioClient, logger)
	handler := NewHandler(incidentMock, reportMock, announcer, transcriber, logger, cfg)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	api := router.Group("/api/v1")
	handler.RegisterRoutes(api)

	return incidentMock, reportMock, announcer, router
}

// makeRequest performs an HTTP request against the test router.
func makeRequest(router *gin.Engine, method, url string, body io.Reader, headers ...map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, url, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, h := range headers {
		for key, value := range h {
			req.Header.Set(key, value)
		}
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func identityHeaders() map[string]string {
	return map[string]string{
		"X-User-Id":   "user-1",
		"X-User-Name": "Peter",
	}
}

func TestPrepareVoiceReport_Success(t *testing.T) {
	_, reportMock, _, router := newTestHandler(t)
	lat, lng := 32.7357, -97.1081
	reqBody := VoiceReportRequest{
		Transcript: "there is a fire on Cooper Street",
		Latitude:   &lat,
		Longitude:  &lng,
	}

	reportMock.EXPECT().
		PrepareVoiceReport(gomock.Any(), reqBody.Transcript, &models.LatLng{Lat: lat, Lng: lng}).
		Return(&models.ReportDraft{
			IncidentType: models.TypeFire,
			Description:  "there is a fire on Cooper Street",
			Severity:     models.SeverityCritical,
			Latitude:     32.7301,
			Longitude:    -97.1120,
			LocationName: "Cooper Street, Arlington",
			Confidence:   0.9,
		}, nil).
		Times(1)

	body, _ := json.Marshal(reqBody)
	w := makeRequest(router, http.MethodPost, "/api/v1/reports/voice", bytes.NewReader(body))

	require.Equal(t, http.StatusOK, w.Code)

	var resp ReportDraftResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "fire", resp.IncidentType)
	assert.Equal(t, "Cooper Street, Arlington", resp.LocationName)
	assert.False(t, resp.LowConfidence)
}

func TestPrepareVoiceReport_UnresolvableLocation(t *testing.T) {
	_, reportMock, _, router := newTestHandler(t)

	reportMock.EXPECT().
		PrepareVoiceReport(gomock.Any(), gomock.Any(), gomock.Nil()).
		Return(nil, service.ErrLocationRequired).
		Times(1)

	body, _ := json.Marshal(VoiceReportRequest{Transcript: "tree down somewhere"})
	w := makeRequest(router, http.MethodPost, "/api/v1/reports/voice", bytes.NewReader(body))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestPrepareVoiceReport_EmptyTranscriptRejected(t *testing.T) {
	_, _, _, router := newTestHandler(t)

	body, _ := json.Marshal(VoiceReportRequest{Transcript: ""})
	w := makeRequest(router, http.MethodPost, "/api/v1/reports/voice", bytes.NewReader(body))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateIncident_Success(t *testing.T) {
	_, reportMock, _, router := newTestHandler(t)
	incidentID := uuid.New()
	reqBody := CreateIncidentRequest{
		IncidentType: "accident",
		Description:  "two cars collided",
		Latitude:     32.73,
		Longitude:    -97.11,
		LocationName: "Cooper Street, Arlington",
	}

	reportMock.EXPECT().
		SubmitReport(gomock.Any(), "user-1", "Peter", gomock.Any()).
		DoAndReturn(func(_ context.Context, userID, reporterName string, draft *models.ReportDraft) (*models.Incident, error) {
			assert.Equal(t, models.TypeAccident, draft.IncidentType)
			return &models.Incident{
				ID:           incidentID,
				UserID:       userID,
				IncidentType: draft.IncidentType,
				Description:  draft.Description,
				Status:       models.StatusActive,
				ReporterName: reporterName,
			}, nil
		}).
		Times(1)

	body, _ := json.Marshal(reqBody)
	w := makeRequest(router, http.MethodPost, "/api/v1/incidents", bytes.NewReader(body), identityHeaders())

	require.Equal(t, http.StatusCreated, w.Code)

	var resp IncidentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, incidentID, resp.ID)
	assert.Equal(t, "active", resp.Status)
}

func TestCreateIncident_MissingIdentity(t *testing.T) {
	_, _, _, router := newTestHandler(t)

	body, _ := json.Marshal(CreateIncidentRequest{
		IncidentType: "fire",
		Description:  "fire",
		Latitude:     1,
		Longitude:    2,
		LocationName: "somewhere",
	})
	w := makeRequest(router, http.MethodPost, "/api/v1/incidents", bytes.NewReader(body))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateIncident_InvalidType(t *testing.T) {
	_, _, _, router := newTestHandler(t)

	body, _ := json.Marshal(CreateIncidentRequest{
		IncidentType: "ufo",
		Description:  "something strange",
		Latitude:     1,
		Longitude:    2,
		LocationName: "somewhere",
	})
	w := makeRequest(router, http.MethodPost, "/api/v1/incidents", bytes.NewReader(body), identityHeaders())

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetIncident_Success(t *testing.T) {
	incidentMock, _, _, router := newTestHandler(t)
	incidentID := uuid.New()

	incidentMock.EXPECT().
		GetIncident(gomock.Any(), incidentID).
		Return(&models.Incident{ID: incidentID, Status: models.StatusActive}, nil).
		Times(1)

	w := makeRequest(router, http.MethodGet, "/api/v1/incidents/"+incidentID.String(), nil)

	require.Equal(t, http.StatusOK, w.Code)
}

func TestGetIncident_NotFound(t *testing.T) {
	incidentMock, _, _, router := newTestHandler(t)
	incidentID := uuid.New()

	incidentMock.EXPECT().
		GetIncident(gomock.Any(), incidentID).
		Return(nil, fmt.Errorf("not found")).
		Times(1)

	w := makeRequest(router, http.MethodGet, "/api/v1/incidents/"+incidentID.String(), nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetIncident_InvalidID(t *testing.T) {
	_, _, _, router := newTestHandler(t)

	w := makeRequest(router, http.MethodGet, "/api/v1/incidents/not-a-uuid", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateIncidentStatus_RequiresAPIKey(t *testing.T) {
	_, _, _, router := newTestHandler(t)
	incidentID := uuid.New()

	body, _ := json.Marshal(UpdateStatusRequest{Status: "responding"})
	w := makeRequest(router, http.MethodPatch, "/api/v1/incidents/"+incidentID.String()+"/status", bytes.NewReader(body))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUpdateIncidentStatus_Success(t *testing.T) {
	incidentMock, _, _, router := newTestHandler(t)
	incidentID := uuid.New()

	incidentMock.EXPECT().
		UpdateIncidentStatus(gomock.Any(), incidentID, models.StatusResponding).
		Return(&models.Incident{ID: incidentID, Status: models.StatusResponding}, nil).
		Times(1)

	body, _ := json.Marshal(UpdateStatusRequest{Status: "responding"})
	w := makeRequest(router, http.MethodPatch, "/api/v1/incidents/"+incidentID.String()+"/status", bytes.NewReader(body),
		map[string]string{"X-API-Key": "test-api-key"})

	require.Equal(t, http.StatusOK, w.Code)

	var resp IncidentResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "responding", resp.Status)
}

func TestDeleteIncident_Forbidden(t *testing.T) {
	incidentMock, _, _, router := newTestHandler(t)
	incidentID := uuid.New()

	incidentMock.EXPECT().
		DeleteIncident(gomock.Any(), incidentID, "user-1").
		Return(fmt.Errorf("service: %w: only the reporter may delete an incident", service.ErrForbidden)).
		Times(1)

	w := makeRequest(router, http.MethodDelete, "/api/v1/incidents/"+incidentID.String(), nil, identityHeaders())

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestDeleteIncident_Success(t *testing.T) {
	incidentMock, _, _, router := newTestHandler(t)
	incidentID := uuid.New()

	incidentMock.EXPECT().
		DeleteIncident(gomock.Any(), incidentID, "user-1").
		Return(nil).
		Times(1)

	w := makeRequest(router, http.MethodDelete, "/api/v1/incidents/"+incidentID.String(), nil, identityHeaders())

	assert.Equal(t, http.StatusNoContent, w.Code)
}

func TestCheckLocation_Success(t *testing.T) {
	incidentMock, _, _, router := newTestHandler(t)

	incidentMock.EXPECT().
		CheckLocation(gomock.Any(), "user-1", 32.73, -97.11).
		Return(true, []*models.Incident{{ID: uuid.New(), Status: models.StatusActive}}, nil).
		Times(1)

	body, _ := json.Marshal(LocationCheckRequest{Latitude: 32.73, Longitude: -97.11})
	w := makeRequest(router, http.MethodPost, "/api/v1/location/check", bytes.NewReader(body), identityHeaders())

	require.Equal(t, http.StatusOK, w.Code)

	var resp LocationCheckResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.InDanger)
	assert.Len(t, resp.Incidents, 1)
}

func TestGetStats_Success(t *testing.T) {
	incidentMock, _, _, router := newTestHandler(t)

	incidentMock.EXPECT().
		GetLocationCheckStats(gomock.Any(), 60).
		Return(7, nil).
		Times(1)

	w := makeRequest(router, http.MethodGet, "/api/v1/incidents/stats", nil,
		map[string]string{"Authorization": "Bearer test-api-key"})

	require.Equal(t, http.StatusOK, w.Code)

	var resp StatsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 7, resp.UserCount)
}

func TestMonitorUserPosition_RegistersPoint(t *testing.T) {
	_, _, announcer, router := newTestHandler(t)

	body, _ := json.Marshal(MonitorPointRequest{Latitude: 32.73, Longitude: -97.11})
	w := makeRequest(router, http.MethodPost, "/api/v1/monitor/user", bytes.NewReader(body), identityHeaders())

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, announcer.Points(), 1)
	assert.Equal(t, "user:user-1", announcer.Points()[0].Key)
}

func TestMonitorUserPosition_MissingIdentity(t *testing.T) {
	_, _, _, router := newTestHandler(t)

	body, _ := json.Marshal(MonitorPointRequest{Latitude: 32.73, Longitude: -97.11})
	w := makeRequest(router, http.MethodPost, "/api/v1/monitor/user", bytes.NewReader(body))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUnmonitorUserPosition_RemovesPoint(t *testing.T) {
	_, _, announcer, router := newTestHandler(t)

	body, _ := json.Marshal(MonitorPointRequest{Latitude: 32.73, Longitude: -97.11})
	makeRequest(router, http.MethodPost, "/api/v1/monitor/user", bytes.NewReader(body), identityHeaders())
	require.Len(t, announcer.Points(), 1)

	w := makeRequest(router, http.MethodDelete, "/api/v1/monitor/user", nil, identityHeaders())

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, announcer.Points())
}

func TestPinLocation_Lifecycle(t *testing.T) {
	_, _, announcer, router := newTestHandler(t)

	body, _ := json.Marshal(MonitorPointRequest{Latitude: 32.75, Longitude: -97.12, Label: "Home"})
	w := makeRequest(router, http.MethodPost, "/api/v1/monitor/pin", bytes.NewReader(body))

	require.Equal(t, http.StatusCreated, w.Code)

	var resp MonitoredPointResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Home", resp.Label)
	assert.Equal(t, "pinned", resp.Kind)
	require.Len(t, announcer.Points(), 1)

	// The key returned by the pin endpoint deletes the point verbatim.
	w = makeRequest(router, http.MethodDelete, "/api/v1/monitor/pin/"+resp.Key, nil)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, announcer.Points())
}

func TestUnpinLocation_UnknownKeyNotFound(t *testing.T) {
	_, _, announcer, router := newTestHandler(t)

	w := makeRequest(router, http.MethodDelete, "/api/v1/monitor/pin/pin:no-such-point", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, announcer.Points())
}

type fakeAudioClient struct {
	text string
	err  error
}

func (f *fakeAudioClient) CreateTranscription(_ context.Context, _ openai.AudioRequest) (openai.AudioResponse, error) {
	if f.err != nil {
		return openai.AudioResponse{}, f.err
	}
	return openai.AudioResponse{Text: f.text}, nil
}

func makeAudioRequest(t *testing.T, router *gin.Engine, fields map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("audio", "report.wav")
	require.NoError(t, err)
	_, err = part.Write([]byte("fake-audio-bytes"))
	require.NoError(t, err)
	for key, value := range fields {
		require.NoError(t, mw.WriteField(key, value))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/reports/voice/audio", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestPrepareAudioReport_Success(t *testing.T) {
	_, reportMock, _, router := newTestHandlerWithAudio(t, &fakeAudioClient{text: "there is a fire on Cooper Street"})

	reportMock.EXPECT().
		PrepareVoiceReport(gomock.Any(), "there is a fire on Cooper Street", &models.LatLng{Lat: 32.7357, Lng: -97.1081}).
		Return(&models.ReportDraft{
			IncidentType: models.TypeFire,
			Description:  "there is a fire on Cooper Street",
			LocationName: "Cooper Street, Arlington",
			Confidence:   0.9,
		}, nil).
		Times(1)

	w := makeAudioRequest(t, router, map[string]string{
		"latitude":  "32.7357",
		"longitude": "-97.1081",
	})

	require.Equal(t, http.StatusOK, w.Code)

	var resp VoiceTranscriptResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "there is a fire on Cooper Street", resp.Transcript)
	require.NotNil(t, resp.Draft)
	assert.Equal(t, "fire", resp.Draft.IncidentType)
}

func TestPrepareAudioReport_NoSpeech(t *testing.T) {
	_, _, _, router := newTestHandlerWithAudio(t, &fakeAudioClient{text: "   "})

	w := makeAudioRequest(t, router, nil)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestPrepareAudioReport_NotConfigured(t *testing.T) {
	_, _, _, router := newTestHandler(t)

	w := makeAudioRequest(t, router, nil)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestPrepareAudioReport_MissingFile(t *testing.T) {
	_, _, _, router := newTestHandlerWithAudio(t, &fakeAudioClient{text: "hello"})

	w := makeRequest(router, http.MethodPost, "/api/v1/reports/voice/audio", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealthCheck(t *testing.T) {
	_, _, _, router := newTestHandler(t)

	w := makeRequest(router, http.MethodGet, "/api/v1/system/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}
