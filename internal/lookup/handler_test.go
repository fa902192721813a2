// internal/lookup/handler_test.go
package lookup

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"doctrack/internal/common/logger"
	"doctrack/internal/models"
)

// ==========================
// Classification Tests
// ==========================

func TestClassify(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	docs := []models.Document{
		{FormNumber: "240415123456789012", Status: models.StatusReceived, DocumentTypeID: 2},
	}

	tests := []struct {
		name       string
		formNumber string
		docs       []models.Document
		expected   string
	}{
		{name: "rows exist", formNumber: "240415123456789012", docs: docs, expected: ResultFound},
		{name: "too short", formNumber: "2405010000001", expected: ResultMalformed},
		{name: "not digits", formNumber: "24041512345678901x", expected: ResultMalformed},
		{name: "year before 2024", formNumber: "230415123456789012", expected: ResultMalformed},
		{name: "submitted today, no rows yet", formNumber: "240501123456789012", expected: ResultNotYetRegistered},
		{name: "older prefix, no rows", formNumber: "240415123456789012", expected: ResultPresumedWithdrawn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Classify(tt.formNumber, tt.docs, now)
			assert.Equal(t, tt.expected, res.Result)
		})
	}
}

func TestClassifyDeliveryDates(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	docs := []models.Document{
		{FormNumber: "240415123456789012", Status: models.StatusReceived, DocumentTypeID: 2},
	}

	res := Classify("240415123456789012", docs, now)

	assert.Equal(t, ResultFound, res.Result)
	assert.Equal(t, "2024-04-29", res.ExpectedDeliveryDate)
	assert.Equal(t, "2024-04-18", res.ExpectedFastDeliveryDate)
	assert.False(t, res.BarcodeEligible)
}

func TestClassifyBarcodeEligibleWhenShipped(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	docs := []models.Document{
		{FormNumber: "240415123456789012", Status: models.StatusReceived, DocumentTypeID: 2},
		{FormNumber: "240415123456789012", Status: models.StatusShipped, DocumentTypeID: 3},
	}

	res := Classify("240415123456789012", docs, now)

	assert.True(t, res.BarcodeEligible)
}

// ==========================
// Handler Tests
// ==========================

func setupHandler(t *testing.T) (*Handler, sqlmock.Sqlmock, *chi.Mux) {
	db, mock := setupRepoDB(t)

	h := NewHandler(NewRepository(db, logger.NewNoOpLogger()), logger.NewNoOpLogger())
	h.now = func() time.Time { return time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC) }

	router := chi.NewRouter()
	h.Routes(router)
	return h, mock, router
}

func TestHandleLookupFound(t *testing.T) {
	_, mock, router := setupHandler(t)

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE form_number = $1")).
		WithArgs("240415123456789012").
		WillReturnRows(sqlmock.NewRows(documentColumns()).
			AddRow("240415123456789012", "shipped", 2, nil, now, now))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/lookup?id=240415123456789012", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var res Result
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, ResultFound, res.Result)
	assert.Len(t, res.Documents, 1)
	assert.True(t, res.BarcodeEligible)
	assert.Equal(t, "2024-04-29", res.ExpectedDeliveryDate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandleLookupMalformed(t *testing.T) {
	_, mock, router := setupHandler(t)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE form_number = $1")).
		WithArgs("2405010000001").
		WillReturnRows(sqlmock.NewRows(documentColumns()))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/lookup?id=2405010000001", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var res Result
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, ResultMalformed, res.Result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandleLookupNotYetRegistered(t *testing.T) {
	_, mock, router := setupHandler(t)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE form_number = $1")).
		WithArgs("240501123456789012").
		WillReturnRows(sqlmock.NewRows(documentColumns()))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/lookup?id=240501123456789012", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var res Result
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	assert.Equal(t, ResultNotYetRegistered, res.Result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandleLookupMissingID(t *testing.T) {
	_, _, router := setupHandler(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/lookup", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleLookupQueryFailure(t *testing.T) {
	_, mock, router := setupHandler(t)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE form_number = $1")).
		WillReturnError(assert.AnError)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/lookup?id=240501123456789012", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
