package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/iudanet/usersvc/internal/models"
	"github.com/iudanet/usersvc/internal/server/apierr"
	"github.com/iudanet/usersvc/pkg/api"
)

// maxBodySize ограничивает размер тела запроса
const maxBodySize = 1 << 20

// sendJSON отправляет JSON ответ
func sendJSON(logger *slog.Logger, w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", slog.Any("error", err))
	}
}

// decodeJSON читает тело запроса в v. Ошибки разбора возвращаются как 400,
// а не как запись таксономии.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return apierr.NewStatusError(http.StatusRequestEntityTooLarge, "Request body too large")
		case errors.Is(err, io.EOF):
			return apierr.NewStatusError(http.StatusBadRequest, "Request body is empty")
		default:
			return apierr.NewStatusError(http.StatusBadRequest, "Request body deserialize error: "+err.Error())
		}
	}

	return nil
}

// pathID извлекает числовой {id} из пути (Go 1.22+)
func pathID(r *http.Request) (int64, error) {
	raw := r.PathValue("id")

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apierr.NewStatusError(http.StatusBadRequest, "Invalid user id: "+strconv.Quote(raw))
	}

	return id, nil
}

func toUserResponse(u *models.User) api.UserResponse {
	return api.UserResponse{ID: u.ID, Email: u.Email}
}
