package contributions

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/de-tools/contriview/pkg/adapters"
	"github.com/de-tools/contriview/pkg/models/api"
	"github.com/de-tools/contriview/pkg/models/domain"
	"github.com/de-tools/contriview/pkg/models/store"
	"github.com/de-tools/contriview/pkg/services/contributions"
	"github.com/de-tools/contriview/pkg/services/fetcher"
	"github.com/de-tools/contriview/pkg/services/registry"
	"github.com/de-tools/contriview/pkg/services/report"
	"github.com/de-tools/contriview/pkg/store/duckdb/snapshot"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

const (
	defaultSnapshotLimit = 30
)

type Handler struct {
	reports   report.Service
	snapshots snapshot.Store
	registry  registry.Registry
	now       func() time.Time
}

// NewHandler wires the contributions endpoints. snapshots may be nil, in which
// case views are not recorded and the snapshot listing is unavailable.
func NewHandler(
	reports report.Service,
	snapshots snapshot.Store,
	reg registry.Registry,
	now func() time.Time,
) *Handler {
	if now == nil {
		now = time.Now
	}
	if reg == nil {
		reg = registry.NewEmptyRegistry()
	}
	return &Handler{
		reports:   reports,
		snapshots: snapshots,
		registry:  reg,
		now:       now,
	}
}

func (h *Handler) GetContributions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)
	username := chi.URLParam(r, "username")

	ref := h.today()
	if value := r.URL.Query().Get("date"); value != "" {
		parsed, err := time.Parse(contributions.DateLayout, value)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, "invalid 'date' format. Expected format: YYYY-MM-DD")
			return
		}
		ref = parsed
	}

	rep, err := h.reports.GetReport(ctx, username, ref)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	if h.snapshots != nil {
		err := h.snapshots.Save(ctx, adapters.MapSnapshotDomainToStore(domain.Snapshot{
			Username:      rep.Username,
			ReferenceDate: rep.ReferenceDate,
			View:          rep.View,
			CreatedAt:     h.now().UTC(),
		}))
		if err != nil {
			logger.Warn().Err(err).Str("username", username).Msg("failed to record snapshot")
		}
	}

	writeJSON(w, r, http.StatusOK, adapters.MapContributionViewDomainToApi(rep.Username, rep.ReferenceDate, rep.View))
}

func (h *Handler) GetDayContributions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	username := chi.URLParam(r, "username")

	date, err := time.Parse(contributions.DateLayout, chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid date format. Expected format: YYYY-MM-DD")
		return
	}

	day, err := h.reports.GetDay(ctx, username, date)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, adapters.MapDayReportDomainToApi(*day))
}

func (h *Handler) ListSnapshots(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)
	username := chi.URLParam(r, "username")

	if h.snapshots == nil {
		writeError(w, r, http.StatusNotImplemented, "snapshot storage is not configured")
		return
	}

	records, err := h.snapshots.List(ctx, username, defaultSnapshotLimit)
	if err != nil {
		logger.Error().Err(err).Str("username", username).Msg("failed to list snapshots")
		writeError(w, r, http.StatusInternalServerError, "failed to list snapshots")
		return
	}

	response := make([]api.Snapshot, 0, len(records))
	for _, record := range records {
		response = append(response, adapters.MapSnapshotDomainToApi(adapters.MapSnapshotStoreToDomain(record)))
	}

	writeJSON(w, r, http.StatusOK, response)
}

func (h *Handler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)
	username := chi.URLParam(r, "username")

	if h.snapshots == nil {
		writeError(w, r, http.StatusNotImplemented, "snapshot storage is not configured")
		return
	}

	date, err := time.Parse(contributions.DateLayout, chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid date format. Expected format: YYYY-MM-DD")
		return
	}

	record, err := h.snapshots.Get(ctx, store.SnapshotIdentity{Username: username, ReferenceDate: date})
	if errors.Is(err, snapshot.ErrNotFound) {
		writeError(w, r, http.StatusNotFound, "snapshot not found")
		return
	}
	if err != nil {
		logger.Error().Err(err).Str("username", username).Msg("failed to get snapshot")
		writeError(w, r, http.StatusInternalServerError, "failed to get snapshot")
		return
	}

	writeJSON(w, r, http.StatusOK, adapters.MapSnapshotDomainToApi(adapters.MapSnapshotStoreToDomain(*record)))
}

func (h *Handler) GetAccount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)
	name := chi.URLParam(r, "name")

	account, err := h.registry.GetAccount(ctx, name)
	if errors.Is(err, registry.ErrAccountNotFound) {
		writeError(w, r, http.StatusNotFound, "account not found")
		return
	}
	if err != nil {
		logger.Error().Err(err).Str("account", name).Msg("failed to get account")
		writeError(w, r, http.StatusInternalServerError, "failed to get account")
		return
	}

	writeJSON(w, r, http.StatusOK, adapters.MapTrackedAccountDomainToApi(account))
}

func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := zerolog.Ctx(ctx)

	accounts, err := h.registry.ListAccounts(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("failed to list accounts")
		writeError(w, r, http.StatusInternalServerError, "failed to list accounts")
		return
	}

	response := make([]api.TrackedAccount, 0, len(accounts))
	for _, account := range accounts {
		response = append(response, adapters.MapTrackedAccountDomainToApi(account))
	}

	writeJSON(w, r, http.StatusOK, response)
}

func (h *Handler) today() time.Time {
	y, m, d := h.now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (h *Handler) handleServiceError(w http.ResponseWriter, r *http.Request, err error) {
	logger := zerolog.Ctx(r.Context())

	switch {
	case errors.Is(err, fetcher.ErrEmptyUsername):
		writeError(w, r, http.StatusBadRequest, "username is required")
	case errors.Is(err, fetcher.ErrUserNotFound):
		writeError(w, r, http.StatusNotFound, "user not found")
	case errors.Is(err, contributions.ErrMissingRequiredField):
		logger.Warn().Err(err).Msg("malformed contributions document")
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
	default:
		logger.Error().Err(err).Msg("failed to fetch contributions")
		writeError(w, r, http.StatusBadGateway, "failed to fetch contributions")
	}
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zerolog.Ctx(r.Context()).Error().
			Err(err).
			Msg("failed to encode response")
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	writeJSON(w, r, status, api.Error{Message: message})
}
