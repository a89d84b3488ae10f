package booking_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"pxltravel/config"
	"pxltravel/infras/otel/mocks"
	"pxltravel/internal/domains/booking/model/dto"
	"pxltravel/internal/domains/booking/service"
	serviceMocks "pxltravel/internal/domains/booking/service/mocks"
	"pxltravel/internal/handlers/booking"
	"pxltravel/shared/access"
	gDto "pxltravel/shared/dto"
	"pxltravel/shared/failure"
)

var passenger = &access.Session{UserID: "u-1", Role: access.RoleRegular, ExpiresAt: time.Now().Add(time.Hour)}

type fixture struct {
	router  *chi.Mux
	service *serviceMocks.MockBooking
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	svc := serviceMocks.NewMockBooking(ctrl)

	cfg := &config.Config{}
	cfg.App.Upload.MaxDocumentBytes = 5 << 20

	handler := booking.New(svc, cfg, mocks.NewOtel())

	router := chi.NewRouter()
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(access.WithSession(r.Context(), passenger)))
		})
	})
	handler.Router(router)

	return fixture{router: router, service: svc}
}

func (f fixture) do(req *http.Request) (*httptest.ResponseRecorder, map[string]any) {
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	body := map[string]any{}
	_ = json.Unmarshal(rec.Body.Bytes(), &body)

	return rec, body
}

type document struct {
	name        string
	contentType string
	body        []byte
}

func multipartRequest(t *testing.T, fields map[string]string, doc *document) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}

	if doc != nil {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="document"; filename=%q`, doc.name))
		header.Set("Content-Type", doc.contentType)

		part, err := writer.CreatePart(header)
		require.NoError(t, err)

		_, err = part.Write(doc.body)
		require.NoError(t, err)
	}

	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/bookings", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	return req
}

func completeForm() map[string]string {
	return map[string]string{
		"flight_origin":      "JFK",
		"flight_destination": "LHR",
		"flight_date":        "2026-12-01",
		"passenger_name":     "Ana Silva",
		"phone_number":       "+15550001111",
		"transaction_number": "TXN-20261201",
	}
}

func TestSubmitBooking_Created(t *testing.T) {
	f := newFixture(t)

	image := bytes.Repeat([]byte{0xFF}, 2048)

	f.service.EXPECT().Submit(gomock.Any(), passenger, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *access.Session, draft dto.BookingDraft) (dto.BookingResponse, error) {
			assert.Equal(t, "JFK", draft.FlightOrigin)
			assert.Equal(t, "LHR", draft.FlightDestination)
			assert.Equal(t, "2026-12-01", draft.FlightDate)
			assert.Equal(t, "TXN-20261201", draft.TransactionNumber)

			require.NotNil(t, draft.Document)
			assert.Equal(t, "passport.jpg", draft.Document.FileName)
			assert.Equal(t, "image/jpeg", draft.Document.ContentType)
			assert.Equal(t, int64(len(image)), draft.Document.Size)

			read, err := io.ReadAll(draft.Document.Body)
			require.NoError(t, err)
			assert.Equal(t, image, read)

			return dto.BookingResponse{ID: "b-1", Status: "pending"}, nil
		})

	rec, body := f.do(multipartRequest(t, completeForm(), &document{name: "passport.jpg", contentType: "image/jpeg", body: image}))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, map[string]any{"id": "b-1", "status": "pending"}, pick(body["data"], "id", "status"))
}

func TestSubmitBooking_WithoutDocumentReachesService(t *testing.T) {
	f := newFixture(t)

	f.service.EXPECT().Submit(gomock.Any(), passenger, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *access.Session, draft dto.BookingDraft) (dto.BookingResponse, error) {
			assert.Nil(t, draft.Document)

			return dto.BookingResponse{}, &service.StageError{Stage: service.StageEditing, Err: failure.BadRequestFromString("document is required")}
		})

	rec, body := f.do(multipartRequest(t, completeForm(), nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "document is required", body["error"])
	assert.Equal(t, "editing", body["stage"])
}

func TestSubmitBooking_StageFailures(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
		wantStg  string
	}{
		{
			name:     "validating",
			err:      &service.StageError{Stage: service.StageValidating, Err: failure.BadRequestFromString("phone_number must be at least 10 characters")},
			wantCode: http.StatusBadRequest,
			wantMsg:  "phone_number must be at least 10 characters",
			wantStg:  "validating",
		},
		{
			name:     "uploading",
			err:      &service.StageError{Stage: service.StageUploading, Err: failure.UpstreamUnavailable(errors.New("s3: 500"))},
			wantCode: http.StatusServiceUnavailable,
			wantMsg:  "service temporarily unavailable, please try again",
			wantStg:  "uploading",
		},
		{
			name:     "persisting",
			err:      &service.StageError{Stage: service.StagePersisting, Err: failure.UpstreamUnavailable(errors.New("pq: deadlock"))},
			wantCode: http.StatusServiceUnavailable,
			wantMsg:  "service temporarily unavailable, please try again",
			wantStg:  "persisting",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			f.service.EXPECT().Submit(gomock.Any(), passenger, gomock.Any()).Return(dto.BookingResponse{}, tt.err)

			rec, body := f.do(multipartRequest(t, completeForm(), &document{name: "p.png", contentType: "image/png", body: []byte("png")}))

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantMsg, body["error"])
			assert.Equal(t, tt.wantStg, body["stage"])
		})
	}
}

func TestSubmitBooking_NotMultipart(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/bookings", strings.NewReader(`{"flight_origin":"JFK"}`))
	req.Header.Set("Content-Type", "application/json")

	rec, body := f.do(req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "editing", body["stage"])
}

func TestGetBookings_FiltersByStatus(t *testing.T) {
	f := newFixture(t)

	f.service.EXPECT().GetAll(gomock.Any(), passenger, gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *access.Session, params gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error) {
			assert.Equal(t, 2, params.Page)

			where, args := filter.GetWhereClause()
			assert.Equal(t, "(bookings.status = :status)", where)
			assert.Equal(t, map[string]any{"status": "pending"}, args)

			return dto.GetBookingsResponse{Bookings: []dto.BookingResponse{}}, nil
		})

	rec, _ := f.do(httptest.NewRequest(http.MethodGet, "/bookings?status=pending&page=2", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetBookingByID_Forbidden(t *testing.T) {
	f := newFixture(t)

	f.service.EXPECT().Get(gomock.Any(), passenger, "b-9").Return(dto.BookingResponse{}, failure.ResourceRestrictedError)

	rec, body := f.do(httptest.NewRequest(http.MethodGet, "/bookings/b-9", nil))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, failure.ResourceRestrictedError.Message, body["error"])
}

func TestReviewBooking(t *testing.T) {
	f := newFixture(t)

	f.service.EXPECT().Review(gomock.Any(), passenger, "b-1", dto.ReviewRequest{Status: "confirmed"}).
		Return(dto.BookingResponse{ID: "b-1", Status: "confirmed"}, nil)

	rec, _ := f.do(httptest.NewRequest(http.MethodPatch, "/bookings/b-1/status", strings.NewReader(`{"status":"confirmed"}`)))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, body := f.do(httptest.NewRequest(http.MethodPatch, "/bookings/b-1/status", strings.NewReader(`{"status":"cancelled"}`)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "status must be one of confirmed, rejected", body["error"])
}

func pick(data any, keys ...string) map[string]any {
	source, _ := data.(map[string]any)
	out := map[string]any{}

	for _, key := range keys {
		out[key] = source[key]
	}

	return out
}
