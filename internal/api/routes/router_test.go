package routes_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/screeningscheduler/backend/internal/adapters/memory"
	"github.com/zatekoja/screeningscheduler/backend/internal/api/handlers"
	"github.com/zatekoja/screeningscheduler/backend/internal/api/routes"
	"github.com/zatekoja/screeningscheduler/backend/internal/application/services"
)

var monday = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

type slotJSON struct {
	ID                string    `json:"id"`
	ExaminationTypeID string    `json:"examinationTypeId"`
	StartDateTime     time.Time `json:"startDateTime"`
	DurationMinutes   int       `json:"durationMinutes"`
}

type scheduleJSON struct {
	Examinations []struct {
		Key   string     `json:"key"`
		Slots []slotJSON `json:"slots"`
	} `json:"examinations"`
	TotalExaminations     int      `json:"totalExaminations"`
	ScheduledExaminations int      `json:"scheduledExaminations"`
	UnknownExaminations   []string `json:"unknownExaminations"`
}

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	store := memory.NewSeededSlotStore(monday, 1)
	bus := memory.NewEventBus()
	t.Cleanup(func() { bus.Close() })

	service := services.NewSchedulingService(store, store, bus, nil, 30).
		WithClock(func() time.Time { return monday })
	router := routes.NewRouter(
		handlers.NewScheduleHandler(service),
		handlers.NewSlotEventsHandler(bus),
		nil,
		nil,
	)
	return router.SetupRoutes()
}

func do(t *testing.T, handler http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func startTimes(slots []slotJSON) []string {
	out := make([]string, 0, len(slots))
	for _, slot := range slots {
		out = append(out, slot.StartDateTime.Format("15:04"))
	}
	return out
}

func TestRouter_Health(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestRouter_ScheduleBookAndRebook(t *testing.T) {
	server := newTestServer(t)

	rec := do(t, server, http.MethodPost, "/api/schedules",
		`{"mandatory":{"chestXray":{"order":true,"priority":1},"bloodCount":{"order":true,"priority":2}},"optional":{"aromatherapy":{"order":true,"priority":9}}}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var schedule scheduleJSON
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &schedule))
	require.Len(t, schedule.Examinations, 3)

	assert.Equal(t, "bloodCount", schedule.Examinations[0].Key)
	assert.Equal(t, []string{"08:00", "08:10", "08:20"}, startTimes(schedule.Examinations[0].Slots))
	assert.Equal(t, "chestXray", schedule.Examinations[1].Key)
	assert.Equal(t, []string{"08:30", "09:00", "09:30"}, startTimes(schedule.Examinations[1].Slots))
	assert.Equal(t, "aromatherapy", schedule.Examinations[2].Key)
	assert.Empty(t, schedule.Examinations[2].Slots)
	assert.Equal(t, 3, schedule.TotalExaminations)
	assert.Equal(t, 2, schedule.ScheduledExaminations)
	assert.Equal(t, []string{"aromatherapy"}, schedule.UnknownExaminations)

	lab := schedule.Examinations[0].Slots[0]
	xray := schedule.Examinations[1].Slots[0]

	t.Run("booking commits once", func(t *testing.T) {
		rec := do(t, server, http.MethodPost, "/api/slots/"+lab.ID+"/book", "")
		require.Equal(t, http.StatusCreated, rec.Code)

		rec = do(t, server, http.MethodPost, "/api/slots/"+lab.ID+"/book", "")
		assert.Equal(t, http.StatusConflict, rec.Code)

		rec = do(t, server, http.MethodPost, "/api/slots/missing/book", "")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("alternatives keep the buffer to the lab slot", func(t *testing.T) {
		rec := do(t, server, http.MethodPost, "/api/schedules/alternatives",
			`{"examinationKey":"chestXray","committedSlotIds":["`+lab.ID+`","`+xray.ID+`"],"to":"2026-03-02T10:00:00Z"}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var body struct {
			Slots []slotJSON `json:"slots"`
			Count int        `json:"count"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		// lab 08:00-08:10 plus 30 minutes blocks anything starting before 08:40
		assert.Equal(t, []string{"09:00", "09:30"}, startTimes(body.Slots))
		assert.Equal(t, 2, body.Count)
	})
}

func TestRouter_Errors(t *testing.T) {
	server := newTestServer(t)

	t.Run("no ordered examinations", func(t *testing.T) {
		rec := do(t, server, http.MethodPost, "/api/schedules", `{"mandatory":{"ekg":{"order":false}}}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("only unknown examinations", func(t *testing.T) {
		rec := do(t, server, http.MethodPost, "/api/schedules", `{"mandatory":{"aromatherapy":{"order":true}}}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var schedule scheduleJSON
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &schedule))
		require.Len(t, schedule.Examinations, 1)
		assert.Empty(t, schedule.Examinations[0].Slots)
		assert.Equal(t, 0, schedule.ScheduledExaminations)
		assert.Equal(t, []string{"aromatherapy"}, schedule.UnknownExaminations)
	})

	t.Run("wrong method", func(t *testing.T) {
		rec := do(t, server, http.MethodGet, "/api/schedules", "")
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestRouter_ScheduleKeepsFreeFormUnknownKeys(t *testing.T) {
	server := newTestServer(t)

	for _, key := range []string{"hpv-test", "Hepatitis B", "x.ray"} {
		t.Run(key, func(t *testing.T) {
			rec := do(t, server, http.MethodPost, "/api/schedules",
				`{"mandatory":{"chestXray":{"order":true,"priority":1},"`+key+`":{"order":true,"priority":1}}}`)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			var schedule scheduleJSON
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &schedule))
			require.Len(t, schedule.Examinations, 2)
			assert.Equal(t, "chestXray", schedule.Examinations[0].Key)
			assert.NotEmpty(t, schedule.Examinations[0].Slots)
			assert.Equal(t, key, schedule.Examinations[1].Key)
			assert.Empty(t, schedule.Examinations[1].Slots)
			assert.Equal(t, []string{key}, schedule.UnknownExaminations)
		})
	}
}

func TestRouter_ListExaminationTypes(t *testing.T) {
	rec := do(t, newTestServer(t), http.MethodGet, "/api/examination-types", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, len(memory.CatalogTypes()), body.Count)
}
