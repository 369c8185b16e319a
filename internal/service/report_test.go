package service

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/doanhtu07/web-slinger-dispatch/internal/geocode"
	"github.com/doanhtu07/web-slinger-dispatch/internal/models"
	"github.com/doanhtu07/web-slinger-dispatch/internal/service/mocks"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestReportService(t *testing.T) (ReportService, *mocks.MockTranscriptExtractor, *mocks.MockLocationResolver, *mocks.MockIncidentService) {
	ctrl := gomock.NewController(t)
	extractorMock := mocks.NewMockTranscriptExtractor(ctrl)
	resolverMock := mocks.NewMockLocationResolver(ctrl)
	incidentsMock := mocks.NewMockIncidentService(ctrl)

	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})

	return NewReportService(extractorMock, resolverMock, incidentsMock, logger), extractorMock, resolverMock, incidentsMock
}

func TestPrepareVoiceReport_Success(t *testing.T) {
	svc, extractorMock, resolverMock, _ := newTestReportService(t)
	ctx := context.Background()
	caller := &models.LatLng{Lat: 32.7357, Lng: -97.1081}

	extractorMock.EXPECT().
		Extract(ctx, "there is a fire on Cooper Street", caller).
		Return(models.ParsedIncident{
			IncidentType: models.TypeFire,
			Description:  "there is a fire on Cooper Street",
			LocationName: "Cooper Street",
			Severity:     models.SeverityCritical,
			Confidence:   0.9,
		}).
		Times(1)
	resolverMock.EXPECT().
		Resolve(ctx, "Cooper Street", caller).
		Return(&models.ResolvedLocation{
			Lat:          32.7301,
			Lng:          -97.1120,
			LocationName: "Cooper Street, Arlington",
		}, nil).
		Times(1)

	draft, err := svc.PrepareVoiceReport(ctx, "there is a fire on Cooper Street", caller)

	require.NoError(t, err)
	assert.Equal(t, models.TypeFire, draft.IncidentType)
	assert.Equal(t, "Cooper Street, Arlington", draft.LocationName)
	assert.InDelta(t, 32.7301, draft.Latitude, 1e-9)
	assert.False(t, draft.LowConfidence)
}

func TestPrepareVoiceReport_LowConfidenceFlagged(t *testing.T) {
	svc, extractorMock, resolverMock, _ := newTestReportService(t)
	ctx := context.Background()

	extractorMock.EXPECT().
		Extract(ctx, gomock.Any(), gomock.Nil()).
		Return(models.ParsedIncident{
			IncidentType: models.TypeOther,
			Description:  "something happened",
			LocationName: "Main Street",
			Severity:     models.SeverityMedium,
			Confidence:   0.5,
		}).
		Times(1)
	resolverMock.EXPECT().
		Resolve(ctx, "Main Street", gomock.Nil()).
		Return(&models.ResolvedLocation{Lat: 1, Lng: 2, LocationName: "Main Street"}, nil).
		Times(1)

	draft, err := svc.PrepareVoiceReport(ctx, "something happened", nil)

	require.NoError(t, err)
	assert.True(t, draft.LowConfidence)
}

func TestPrepareVoiceReport_ConfidenceAtThresholdNotFlagged(t *testing.T) {
	svc, extractorMock, resolverMock, _ := newTestReportService(t)
	ctx := context.Background()

	extractorMock.EXPECT().
		Extract(ctx, gomock.Any(), gomock.Nil()).
		Return(models.ParsedIncident{
			IncidentType: models.TypeCrime,
			Description:  "robbery downtown",
			LocationName: "downtown",
			Severity:     models.SeverityHigh,
			Confidence:   0.7,
		}).
		Times(1)
	resolverMock.EXPECT().
		Resolve(ctx, "downtown", gomock.Nil()).
		Return(&models.ResolvedLocation{Lat: 1, Lng: 2, LocationName: "Downtown"}, nil).
		Times(1)

	draft, err := svc.PrepareVoiceReport(ctx, "robbery downtown", nil)

	require.NoError(t, err)
	assert.False(t, draft.LowConfidence)
}

func TestPrepareVoiceReport_UnresolvableLocation(t *testing.T) {
	svc, extractorMock, resolverMock, _ := newTestReportService(t)
	ctx := context.Background()

	extractorMock.EXPECT().
		Extract(ctx, gomock.Any(), gomock.Nil()).
		Return(models.ParsedIncident{
			IncidentType: models.TypeHazard,
			Description:  "tree down somewhere",
			LocationName: "somewhere",
			Severity:     models.SeverityMedium,
			Confidence:   0.6,
		}).
		Times(1)
	resolverMock.EXPECT().
		Resolve(ctx, "somewhere", gomock.Nil()).
		Return(nil, geocode.ErrLocationUnresolvable).
		Times(1)

	draft, err := svc.PrepareVoiceReport(ctx, "tree down somewhere", nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLocationRequired)
	assert.Nil(t, draft)
}

func TestPrepareVoiceReport_EmptyTranscript(t *testing.T) {
	svc, _, _, _ := newTestReportService(t)

	_, err := svc.PrepareVoiceReport(context.Background(), "", nil)
	require.Error(t, err)
}

func TestSubmitReport_Success(t *testing.T) {
	svc, _, _, incidentsMock := newTestReportService(t)
	ctx := context.Background()
	draft := &models.ReportDraft{
		IncidentType: models.TypeAccident,
		Description:  "two cars collided",
		Latitude:     32.73,
		Longitude:    -97.11,
		LocationName: "Cooper Street, Arlington",
	}

	incidentsMock.EXPECT().
		CreateIncident(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, in *models.Incident) error {
			assert.Equal(t, "user-1", in.UserID)
			assert.Equal(t, "Peter", in.ReporterName)
			assert.Equal(t, models.TypeAccident, in.IncidentType)
			return nil
		}).
		Times(1)

	incident, err := svc.SubmitReport(ctx, "user-1", "Peter", draft)

	require.NoError(t, err)
	assert.Equal(t, "two cars collided", incident.Description)
}

func TestSubmitReport_AnonymousReporterName(t *testing.T) {
	svc, _, _, incidentsMock := newTestReportService(t)
	ctx := context.Background()

	incidentsMock.EXPECT().
		CreateIncident(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, in *models.Incident) error {
			assert.Equal(t, "Anonymous", in.ReporterName)
			return nil
		}).
		Times(1)

	_, err := svc.SubmitReport(ctx, "user-1", "", &models.ReportDraft{
		IncidentType: models.TypeOther,
		Description:  "something",
	})
	require.NoError(t, err)
}

func TestSubmitReport_Validation(t *testing.T) {
	svc, _, _, _ := newTestReportService(t)
	ctx := context.Background()

	_, err := svc.SubmitReport(ctx, "user-1", "Peter", nil)
	require.Error(t, err)

	_, err = svc.SubmitReport(ctx, "user-1", "Peter", &models.ReportDraft{IncidentType: models.TypeOther})
	require.Error(t, err)

	_, err = svc.SubmitReport(ctx, "", "Peter", &models.ReportDraft{IncidentType: models.TypeOther, Description: "x"})
	require.Error(t, err)
}

func TestSubmitReport_PersistFailure(t *testing.T) {
	svc, _, _, incidentsMock := newTestReportService(t)
	ctx := context.Background()

	incidentsMock.EXPECT().
		CreateIncident(ctx, gomock.Any()).
		Return(fmt.Errorf("db down")).
		Times(1)

	_, err := svc.SubmitReport(ctx, "user-1", "Peter", &models.ReportDraft{
		IncidentType: models.TypeFire,
		Description:  "fire",
	})
	require.Error(t, err)
}
