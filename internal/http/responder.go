package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/learning-center-scheduler/internal/application"
	"github.com/example/learning-center-scheduler/internal/logging"
	"github.com/example/learning-center-scheduler/internal/scheduler"
)

var (
	errBadRequestBody   = errors.New("無効なリクエスト形式です。")
	errInvalidSessionID = errors.New("無効なセッション ID です。")
	errInvalidDate      = errors.New("日付は YYYY-MM-DD 形式で指定してください。")
	errInvalidPaging    = errors.New("ページ番号とページサイズは整数で指定してください。")
)

type responder struct {
	logger *slog.Logger
}

func newResponder(logger *slog.Logger) responder {
	if logger == nil {
		logger = slog.Default()
	}
	return responder{logger: logger}
}

func (r responder) writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}

	if status == http.StatusNoContent || payload == nil {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		r.loggerFor(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

func (r responder) writeError(ctx context.Context, w http.ResponseWriter, status int, err error) {
	message := localizedStatusMessage(status)
	if err != nil {
		if msg := strings.TrimSpace(err.Error()); msg != "" {
			message = msg
		}
		r.loggerFor(ctx).WarnContext(ctx, "request failed", "status", status, "error", err)
	}

	r.writeJSON(ctx, w, status, errorResponse{Message: message})
}

// writeRequestError reports a decoding or tag validation failure.
func (r responder) writeRequestError(ctx context.Context, w http.ResponseWriter, err error) {
	var reqErr *requestError
	if !errors.As(err, &reqErr) {
		r.writeError(ctx, w, http.StatusBadRequest, errBadRequestBody)
		return
	}
	if reqErr.status == http.StatusBadRequest {
		r.writeError(ctx, w, http.StatusBadRequest, errBadRequestBody)
		return
	}
	r.writeJSON(ctx, w, reqErr.status, errorResponse{
		Message: localizedStatusMessage(reqErr.status),
		Errors:  reqErr.fields,
	})
}

func (r responder) handleServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	if err == nil {
		r.writeError(ctx, w, http.StatusInternalServerError, errors.New("unknown error"))
		return
	}

	switch {
	case errors.Is(err, application.ErrNotFound):
		r.writeJSON(ctx, w, http.StatusNotFound, errorResponse{Message: "指定されたリソースが見つかりません。"})
	case errors.Is(err, application.ErrConflict):
		var cErr *application.ConflictError
		var conflicts []conflictDTO
		if errors.As(err, &cErr) {
			conflicts = toConflictDTOs(cErr.Conflicts)
		}
		r.writeJSON(ctx, w, http.StatusConflict, errorResponse{
			ErrorCode: "ROOM_CONFLICT",
			Message:   "指定された教室は同じ時間帯に既に予約されています。",
			Conflicts: conflicts,
		})
	case errors.Is(err, application.ErrAlreadyExists):
		r.writeJSON(ctx, w, http.StatusConflict, errorResponse{
			ErrorCode: "ALREADY_EXISTS",
			Message:   "同じ名前のリソースが既に存在します。",
		})
	default:
		var vErr *application.ValidationError
		if errors.As(err, &vErr) {
			details := localizeValidationErrors(vErr)
			r.writeJSON(ctx, w, http.StatusUnprocessableEntity, errorResponse{
				Message: "入力内容に誤りがあります。",
				Errors:  details,
			})
			return
		}

		r.loggerFor(ctx).ErrorContext(ctx, "unexpected service error", "error", err)
		r.writeJSON(ctx, w, http.StatusInternalServerError, errorResponse{Message: "サーバー内部でエラーが発生しました。"})
	}
}

func (r responder) loggerFor(ctx context.Context) *slog.Logger {
	return logging.FromContextOr(ctx, r.logger)
}

func localizedStatusMessage(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "リクエスト内容が正しくありません。"
	case http.StatusNotFound:
		return "指定されたリソースが見つかりません。"
	case http.StatusConflict:
		return "要求はリソースの現在の状態と競合しています。"
	case http.StatusUnprocessableEntity:
		return "入力内容に誤りがあります。"
	default:
		return "サーバー内部でエラーが発生しました。"
	}
}

func localizeValidationErrors(vErr *application.ValidationError) map[string]string {
	if vErr == nil || len(vErr.FieldErrors) == 0 {
		return nil
	}

	translated := make(map[string]string, len(vErr.FieldErrors))
	for field, msg := range vErr.FieldErrors {
		translated[field] = translateValidationMessage(msg)
	}
	return translated
}

func translateValidationMessage(message string) string {
	switch message {
	case "name is required":
		return "名前は必須です。"
	case "name is invalid":
		return "名前が不正です。"
	case "capacity must not be negative":
		return "定員は 0 以上で指定してください。"
	case "date is required":
		return "日付は必須です。"
	case "date is invalid":
		return "日付の形式が不正です。"
	case "time is required":
		return "時刻は必須です。"
	case "room is required":
		return "教室は必須です。"
	case "teacher is required":
		return "講師は必須です。"
	case "class is required":
		return "クラスは必須です。"
	case "status is invalid":
		return "ステータスが不正です。"
	case "room does not exist":
		return "指定された教室は存在しません。"
	case "teacher does not exist":
		return "指定された講師は存在しません。"
	case "class does not exist":
		return "指定されたクラスは存在しません。"
	case "teacher or class is required":
		return "講師またはクラスを指定してください。"
	case "specify either teacher or class":
		return "講師とクラスはどちらか一方のみ指定してください。"
	case "page must be positive":
		return "ページ番号は 1 以上で指定してください。"
	case "related records are missing":
		return "関連するデータが存在しません。"
	case "session is invalid":
		return "セッションの内容が不正です。"
	case scheduler.MsgWeekdayRequired:
		return "曜日を 1 つ以上指定してください。"
	case scheduler.MsgWeekdayRange:
		return "曜日は 0 (日曜) から 6 (土曜) で指定してください。"
	case scheduler.MsgDateRangeInvalid:
		return "終了日は開始日以降である必要があります。"
	case scheduler.MsgEndBeforeStart:
		return "終了時刻は開始時刻より後である必要があります。"
	case scheduler.MsgMalformedTime:
		return "時刻は HH:MM 形式で指定してください。"
	default:
		if strings.HasPrefix(message, "recurrence range must not exceed") {
			return "繰り返し期間が長すぎます: " + strings.TrimSpace(strings.TrimPrefix(message, "recurrence range must not exceed"))
		}
		if strings.HasPrefix(message, "page size must be between") {
			return "ページサイズが範囲外です: " + strings.TrimSpace(strings.TrimPrefix(message, "page size must be between"))
		}
		return message
	}
}

type errorResponse struct {
	ErrorCode string            `json:"error_code,omitempty"`
	Message   string            `json:"message"`
	Errors    map[string]string `json:"errors,omitempty"`
	Conflicts []conflictDTO     `json:"conflicts,omitempty"`
}
