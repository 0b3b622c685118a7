package httpapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/hockey-analytics/internal/domain/entity"
	"github.com/riskibarqy/hockey-analytics/internal/domain/shot"
	"github.com/riskibarqy/hockey-analytics/internal/domain/situation"
	"github.com/riskibarqy/hockey-analytics/internal/platform/logging"
	"github.com/riskibarqy/hockey-analytics/internal/usecase"
)

const maxRequestBodyBytes = 1 << 20

type Handler struct {
	statsService   *usecase.StatsService
	careerService  *usecase.CareerService
	cardService    *usecase.PlayerCardService
	gameLogService *usecase.GameLogService
	logger         *logging.Logger
	validator      *validator.Validate
}

func NewHandler(
	statsService *usecase.StatsService,
	careerService *usecase.CareerService,
	cardService *usecase.PlayerCardService,
	gameLogService *usecase.GameLogService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		statsService:   statsService,
		careerService:  careerService,
		cardService:    cardService,
		gameLogService: gameLogService,
		logger:         logger,
		validator:      validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) QueryStat(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.QueryStat")
	defer span.End()

	var req statQueryRequest
	if err := h.decodeRequest(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	query, err := req.toQuery()
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	kinds := req.kinds()
	if len(kinds) == 0 {
		writeError(ctx, w, fmt.Errorf("%w: stat or stats is required", usecase.ErrInvalidInput))
		return
	}

	results, err := h.statsService.QueryMany(ctx, query, kinds)
	if err != nil {
		h.logQueryError(ctx, "stat query failed", err, "entity", query.Entity.Label(), "stats", kinds)
		writeError(ctx, w, err)
		return
	}

	if len(results) == 1 && req.Stats == nil {
		writeSuccess(ctx, w, http.StatusOK, resultToDTO(results[0]))
		return
	}
	writeSuccess(ctx, w, http.StatusOK, resultsToDTO(results))
}

func (h *Handler) AggregateCareer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AggregateCareer")
	defer span.End()

	var req careerRequest
	if err := h.decodeRequest(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	query := req.toQuery()
	summary, err := h.careerService.Aggregate(ctx, query)
	if err != nil {
		h.logQueryError(ctx, "career aggregation failed", err, "entity", query.Entity.Label(), "seasons", query.Seasons)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, careerToDTO(summary))
}

func (h *Handler) ListMilestones(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMilestones")
	defer span.End()

	var req milestoneRequest
	if err := h.decodeRequest(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	win, err := req.Window.toWindow()
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.statsService.Milestones(ctx, usecase.MilestoneQuery{
		Player:     req.Player,
		Window:     win,
		SeasonType: shot.SeasonType(req.SeasonType),
		MinGoals:   req.MinGoals,
	})
	if err != nil {
		h.logQueryError(ctx, "milestone query failed", err, "player", req.Player, "min_goals", req.MinGoals)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, milestonesToDTO(items))
}

func (h *Handler) TeamRecord(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.TeamRecord")
	defer span.End()

	var req recordRequest
	if err := h.decodeRequest(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	win, err := req.Window.toWindow()
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	record, err := h.statsService.Record(ctx, usecase.RecordQuery{
		Team:       strings.ToUpper(req.Team),
		Window:     win,
		SeasonType: shot.SeasonType(req.SeasonType),
		Situation:  situation.Situation(req.Situation),
		Mode:       situation.StrengthMode(req.StrengthMode),
		Scorer:     req.Scorer,
	})
	if err != nil {
		h.logQueryError(ctx, "team record query failed", err, "team", req.Team, "situation", req.Situation)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, recordToDTO(&record))
}

func (h *Handler) ResolveWindow(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ResolveWindow")
	defer span.End()

	var req resolveWindowRequest
	if err := h.decodeRequest(ctx, w, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	win, err := req.Window.toWindow()
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	subject := req.Entity.toEntity()
	resolved, err := h.statsService.ResolveWindow(ctx, subject, win, shot.SeasonType(req.SeasonType))
	if err != nil {
		h.logQueryError(ctx, "resolve window failed", err, "entity", subject.Label(), "window", req.Window.Kind)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, resolvedToDTO(resolved))
}

func (h *Handler) GetPlayerCard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPlayerCard")
	defer span.End()

	player := strings.TrimSpace(r.PathValue("name"))
	query := r.URL.Query()
	season := 0
	if raw := strings.TrimSpace(query.Get("season")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(ctx, w, fmt.Errorf("%w: season must be a positive integer", usecase.ErrInvalidInput))
			return
		}
		season = parsed
	}

	card, err := h.cardService.Card(ctx, usecase.CardQuery{
		Player:     player,
		Season:     season,
		SeasonType: shot.SeasonType(strings.TrimSpace(query.Get("season_type"))),
		Mode:       situation.StrengthMode(strings.TrimSpace(query.Get("strength_mode"))),
	})
	if err != nil {
		h.logQueryError(ctx, "player card failed", err, "player", player, "season", season)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playerCardToDTO(card))
}

func (h *Handler) ListGameLogs(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListGameLogs")
	defer span.End()

	query := r.URL.Query()
	ids, err := parseGameIDs(query.Get("ids"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	logs, err := h.gameLogService.List(ctx, ids,
		entity.Kind(strings.TrimSpace(query.Get("kind"))),
		situation.Situation(strings.TrimSpace(query.Get("situation"))),
	)
	if err != nil {
		h.logQueryError(ctx, "list game logs failed", err, "game_ids", len(ids))
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, gameLogsToDTO(logs))
}

func parseGameIDs(raw string) ([]int64, error) {
	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		value, err := strconv.ParseInt(part, 10, 64)
		if err != nil || value <= 0 {
			return nil, fmt.Errorf("%w: invalid game id %q", usecase.ErrInvalidInput, part)
		}
		ids = append(ids, value)
	}
	return ids, nil
}

// decodeRequest reads a JSON body into dst and validates it.
func (h *Handler) decodeRequest(ctx context.Context, w http.ResponseWriter, r *http.Request, dst any) error {
	decoder := sonic.ConfigDefault.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: request body is required", usecase.ErrInvalidInput)
		}
		return fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	return h.validateRequest(ctx, dst)
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

// logQueryError logs caller mistakes at warn and everything else at error.
func (h *Handler) logQueryError(ctx context.Context, msg string, err error, args ...any) {
	args = append(args, "error", err)
	switch {
	case errors.Is(err, usecase.ErrInvalidInput),
		errors.Is(err, usecase.ErrUnresolvedEntity),
		errors.Is(err, usecase.ErrNotFound),
		mapError(err).HTTPStatus == http.StatusBadRequest:
		h.logger.WarnContext(ctx, msg, args...)
	default:
		h.logger.ErrorContext(ctx, msg, args...)
	}
}
