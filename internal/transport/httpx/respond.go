package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/fekuna/omnipos-warehouse-service/internal/apperr"
	"github.com/fekuna/omnipos-warehouse-service/pkg/i18n"
	"github.com/fekuna/omnipos-warehouse-service/pkg/logger"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

type ErrorBody struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

type ListBody struct {
	Items interface{} `json:"items"`
	Total int         `json:"total"`
	Page  int         `json:"page"`
	Size  int         `json:"page_size"`
}

// Responder writes JSON bodies and maps application errors to HTTP responses.
type Responder struct {
	translator *i18n.Translator
	logger     logger.ZapLogger
}

func NewResponder(t *i18n.Translator, log logger.ZapLogger) *Responder {
	return &Responder{translator: t, logger: log}
}

func (rs *Responder) JSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		rs.logger.Error("failed to encode response", zap.Error(err))
	}
}

func (rs *Responder) List(w http.ResponseWriter, items interface{}, total int, p Page) {
	rs.JSON(w, http.StatusOK, ListBody{Items: items, Total: total, Page: p.Page, Size: p.Size})
}

func (rs *Responder) Error(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := apperr.As(err)
	if !ok {
		appErr = apperr.Internal(err)
	}

	status := StatusFor(appErr.Kind)
	if status >= http.StatusInternalServerError {
		rs.logger.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}

	details := appErr.Data
	if appErr.Kind == apperr.KindInternal {
		details = nil
	}
	lang := r.Header.Get("Accept-Language")
	rs.JSON(w, status, ErrorBody{
		Code:    appErr.Code,
		Message: rs.translator.Translate(lang, appErr.Code, appErr.Data, appErr.Message),
		Details: details,
	})
}

func StatusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConflict:
		return http.StatusConflict
	case apperr.KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Decode reads a JSON body into dst, rejecting unknown fields.
func Decode(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperr.Validation(apperr.CodeRequiredField, map[string]interface{}{"Field": "body"}, "request body is required")
		}
		e := apperr.Validation(apperr.CodeInvalidValue, map[string]interface{}{"Field": "body"}, "malformed request body")
		e.Err = err
		return e
	}
	return nil
}

type Page struct {
	Page int
	Size int
}

// ParsePage reads page and page_size query parameters with defaults 1 and 20, capping size at 200.
func ParsePage(r *http.Request) Page {
	q := r.URL.Query()
	p := Page{Page: 1, Size: 20}
	if v, err := strconv.Atoi(q.Get("page")); err == nil && v > 0 {
		p.Page = v
	}
	if v, err := strconv.Atoi(q.Get("page_size")); err == nil && v > 0 {
		p.Size = min(v, 200)
	}
	return p
}

// OptionalBool parses a tri-state boolean query parameter.
func OptionalBool(r *http.Request, key string) *bool {
	v := r.URL.Query().Get(key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil
	}
	return &b
}
