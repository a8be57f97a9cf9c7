package httpserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	usersettings "spotted/contexts/community-experience/user-settings"
	warnservice "spotted/contexts/community-experience/warn-service"
	warnapp "spotted/contexts/community-experience/warn-service/application"
	approvalengine "spotted/contexts/post-moderation/approval-engine"
	approvalentities "spotted/contexts/post-moderation/approval-engine/domain/entities"
	approvalerrors "spotted/contexts/post-moderation/approval-engine/domain/errors"
	callbackrouter "spotted/contexts/post-moderation/callback-router"
	routerentities "spotted/contexts/post-moderation/callback-router/domain/entities"
	reactiontally "spotted/contexts/post-moderation/reaction-tally"
	tallyentities "spotted/contexts/post-moderation/reaction-tally/domain/entities"
	tallyerrors "spotted/contexts/post-moderation/reaction-tally/domain/errors"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "spotted/internal/platform/httpserver/docs"
)

// Options carries the typed configuration the read endpoints thread into
// each engine call.
type Options struct {
	Addr               string
	ReactionCategories []string
	MaxWarns           int
	WarnExpirationDays int
}

type Server struct {
	mux      *http.ServeMux
	logger   *slog.Logger
	opts     Options
	router   *callbackrouter.Module
	approval approvalengine.Module
	tally    reactiontally.Module
	settings usersettings.Module
	warns    warnservice.Module
}

func New(
	router *callbackrouter.Module,
	approval approvalengine.Module,
	tally reactiontally.Module,
	settings usersettings.Module,
	warns warnservice.Module,
	logger *slog.Logger,
	opts Options,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Addr == "" {
		opts.Addr = ":8080"
	}

	s := &Server{
		mux:      http.NewServeMux(),
		logger:   logger,
		opts:     opts,
		router:   router,
		approval: approval,
		tally:    tally,
		settings: settings,
		warns:    warns,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.opts.Addr,
	)
	return http.ListenAndServe(s.opts.Addr, s.mux)
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	s.mux.HandleFunc("POST /telegram/webhook", s.handleWebhook)

	s.mux.HandleFunc("GET /api/moderation/v1/posts/{group_id}/{message_id}/votes", s.handleAdminVotes)
	s.mux.HandleFunc("GET /api/tally/v1/posts/{channel_id}/{message_id}", s.handleTally)
	s.mux.HandleFunc("GET /api/community/v1/users/{user_id}/warns", s.handleActiveWarns)
	s.mux.HandleFunc("POST /api/community/v1/users/{user_id}/warns", s.handleWarnUser)
	s.mux.HandleFunc("GET /api/community/v1/users/{user_id}/settings", s.handleUserSettings)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// webhookUpdate is the subset of the Bot API update object the bot consumes.
type webhookUpdate struct {
	UpdateID      int64 `json:"update_id"`
	CallbackQuery *struct {
		ID   string `json:"id"`
		From struct {
			ID       int64  `json:"id"`
			Username string `json:"username"`
		} `json:"from"`
		Message *struct {
			MessageID int64 `json:"message_id"`
			Chat      struct {
				ID int64 `json:"id"`
			} `json:"chat"`
			ReplyToMessage *struct {
				MessageID int64 `json:"message_id"`
			} `json:"reply_to_message"`
		} `json:"message"`
		Data string `json:"data"`
	} `json:"callback_query"`
}

func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	var update webhookUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	// Updates without a callback query are other conversation traffic the
	// host dialog layer consumes; the moderation surface acknowledges them.
	if update.CallbackQuery == nil || update.CallbackQuery.Message == nil {
		writeJSON(w, http.StatusOK, webhookResponse{State: string(routerentities.StateNone)})
		return
	}

	query := update.CallbackQuery
	cb := routerentities.Callback{
		QueryID:        query.ID,
		SenderID:       query.From.ID,
		SenderUsername: query.From.Username,
		ChatID:         query.Message.Chat.ID,
		MessageID:      query.Message.MessageID,
		Data:           query.Data,
	}
	if query.Message.ReplyToMessage != nil {
		cb.ReplyToMessageID = query.Message.ReplyToMessage.MessageID
	}

	state := s.router.Router.Dispatch(r.Context(), cb)
	writeJSON(w, http.StatusOK, webhookResponse{State: string(state)})
}

type webhookResponse struct {
	State string `json:"state"`
}

type adminVoteResponse struct {
	AdminID  int64 `json:"admin_id"`
	Approved bool  `json:"approved"`
}

func (s *Server) handleAdminVotes(w http.ResponseWriter, r *http.Request) {
	groupID, ok := pathInt64(w, r, "group_id")
	if !ok {
		return
	}
	messageID, ok := pathInt64(w, r, "message_id")
	if !ok {
		return
	}

	votes, err := s.approval.Recap.List(r.Context(), approvalentities.PostID{
		GroupID:   groupID,
		MessageID: messageID,
	})
	if err != nil {
		if errors.Is(err, approvalerrors.ErrPostNotFound) {
			writeError(w, http.StatusNotFound, "post_not_found", err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	resp := make([]adminVoteResponse, 0, len(votes))
	for _, vote := range votes {
		resp = append(resp, adminVoteResponse{AdminID: vote.AdminID, Approved: vote.Approved})
	}
	writeJSON(w, http.StatusOK, resp)
}

type categoryCountResponse struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

func (s *Server) handleTally(w http.ResponseWriter, r *http.Request) {
	channelID, ok := pathInt64(w, r, "channel_id")
	if !ok {
		return
	}
	messageID, ok := pathInt64(w, r, "message_id")
	if !ok {
		return
	}

	counts, err := s.tally.Tally.Counts(r.Context(), tallyentities.PostID{
		ChannelID: channelID,
		MessageID: messageID,
	}, s.opts.ReactionCategories)
	if err != nil {
		if errors.Is(err, tallyerrors.ErrPostNotFound) {
			writeError(w, http.StatusNotFound, "post_not_found", err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
		return
	}

	resp := make([]categoryCountResponse, 0, len(counts))
	for _, count := range counts {
		resp = append(resp, categoryCountResponse{Category: count.Category, Count: count.Count})
	}
	writeJSON(w, http.StatusOK, resp)
}

type activeWarnsResponse struct {
	UserID      int64 `json:"user_id"`
	ActiveWarns int   `json:"active_warns"`
}

func (s *Server) handleActiveWarns(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathInt64(w, r, "user_id")
	if !ok {
		return
	}

	count, err := s.warns.Warns.ActiveWarns(r.Context(), userID, s.opts.WarnExpirationDays)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, activeWarnsResponse{UserID: userID, ActiveWarns: count})
}

type warnRequest struct {
	AdminID int64  `json:"admin_id"`
	Reason  string `json:"reason"`
}

type warnResponse struct {
	UserID int64 `json:"user_id"`
	Count  int   `json:"count"`
	Banned bool  `json:"banned"`
}

func (s *Server) handleWarnUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathInt64(w, r, "user_id")
	if !ok {
		return
	}

	var req warnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	result, err := s.warns.Warns.Warn(r.Context(), warnapp.WarnCommand{
		UserID:         userID,
		AdminID:        req.AdminID,
		Reason:         req.Reason,
		MaxWarns:       s.opts.MaxWarns,
		ExpirationDays: s.opts.WarnExpirationDays,
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, warnResponse{UserID: userID, Count: result.Count, Banned: result.Banned})
}

type userSettingsResponse struct {
	UserID    int64 `json:"user_id"`
	Anonymous bool  `json:"anonymous"`
}

func (s *Server) handleUserSettings(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathInt64(w, r, "user_id")
	if !ok {
		return
	}

	anonymous, err := s.settings.Settings.IsAnonymous(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, userSettingsResponse{UserID: userID, Anonymous: anonymous})
}

func pathInt64(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	value, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_"+name, name+" must be an integer")
		return 0, false
	}
	return value, true
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, errorResponse{Code: code, Message: message})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
