package handlers

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"runtime/debug"

	"github.com/LavaJover/shvark-payment-service/internal/domain"
	"github.com/LavaJover/shvark-payment-service/internal/infrastructure/wxpay"
	"github.com/LavaJover/shvark-payment-service/internal/usecase/payment"
)

const DefaultMaxBodyBytes = 64 << 10

// NotifyHandler receives gateway payment notifications. It always answers
// 200 with an XML acknowledgement; the gateway reads SUCCESS/FAIL from the body.
type NotifyHandler struct {
	usecase      payment.PaymentNotifyUsecase
	maxBodyBytes int64
	logger       *slog.Logger
}

func NewNotifyHandler(usecase payment.PaymentNotifyUsecase, maxBodyBytes int64, logger *slog.Logger) *NotifyHandler {
	if maxBodyBytes <= 0 {
		maxBodyBytes = DefaultMaxBodyBytes
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &NotifyHandler{
		usecase:      usecase,
		maxBodyBytes: maxBodyBytes,
		logger:       logger,
	}
}

func (h *NotifyHandler) Notify(w http.ResponseWriter, r *http.Request) {
	ack := h.handle(w, r)

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(wxpay.EncodeAck(ack)); err != nil {
		h.logger.Warn("failed to write notification ack", "error", err)
	}
}

func (h *NotifyHandler) handle(w http.ResponseWriter, r *http.Request) (ack domain.Ack) {
	defer func() {
		if rec := recover(); rec != nil {
			h.logger.Error("panic while handling payment notification",
				"panic", rec,
				"stack", string(debug.Stack()),
			)
			ack = payment.Fail(fmt.Errorf("panic: %v", rec))
		}
	}()

	if !isXMLContentType(r.Header.Get("Content-Type")) {
		h.logger.Warn("payment notification with unsupported content type",
			"content_type", r.Header.Get("Content-Type"),
			"remote_addr", r.RemoteAddr,
		)
		return payment.Fail(domain.ErrUnsupportedMediaType)
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.logger.Warn("payment notification body too large", "limit", tooLarge.Limit)
		} else {
			h.logger.Warn("failed to read payment notification body", "error", err)
		}
		return payment.Fail(fmt.Errorf("%w: %v", domain.ErrMalformedNotification, err))
	}

	res := h.usecase.HandleNotification(r.Context(), body)
	return payment.Acknowledge(res)
}

func isXMLContentType(header string) bool {
	mediaType, _, err := mime.ParseMediaType(header)
	if err != nil {
		return false
	}
	return mediaType == "application/xml" || mediaType == "text/xml"
}
