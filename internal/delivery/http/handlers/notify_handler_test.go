package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LavaJover/shvark-payment-service/internal/domain"
	"github.com/LavaJover/shvark-payment-service/internal/usecase/payment"
)

type stubNotifyUsecase struct {
	res   payment.NotifyResult
	panic bool
	calls int
	body  []byte
}

func (s *stubNotifyUsecase) HandleNotification(ctx context.Context, raw []byte) payment.NotifyResult {
	s.calls++
	s.body = raw
	if s.panic {
		panic("boom")
	}
	return s.res
}

func postNotify(h *NotifyHandler, contentType, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/notify", strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	h.Notify(rec, req)
	return rec
}

const successAck = "<xml><return_code><![CDATA[SUCCESS]]></return_code><return_msg><![CDATA[OK]]></return_msg></xml>"

func TestNotifyHandler_Success(t *testing.T) {
	uc := &stubNotifyUsecase{res: payment.NotifyResult{Result: domain.ResultApplied}}
	h := NewNotifyHandler(uc, 0, nil)

	rec := postNotify(h, "text/xml; charset=utf-8", "<xml></xml>")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/xml; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, successAck, rec.Body.String())
	assert.Equal(t, "<xml></xml>", string(uc.body))
}

func TestNotifyHandler_FailAck(t *testing.T) {
	uc := &stubNotifyUsecase{res: payment.NotifyResult{Result: domain.ResultAmountMismatch}}
	h := NewNotifyHandler(uc, 0, nil)

	rec := postNotify(h, "application/xml", "<xml></xml>")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<return_code><![CDATA[FAIL]]></return_code>")
	assert.Contains(t, rec.Body.String(), "amount mismatch")
}

func TestNotifyHandler_UnsupportedMediaType(t *testing.T) {
	for _, ct := range []string{"", "application/json", "text/plain", "application/xml-dtd", "not a media type;;"} {
		t.Run(ct, func(t *testing.T) {
			uc := &stubNotifyUsecase{}
			h := NewNotifyHandler(uc, 0, nil)

			rec := postNotify(h, ct, "<xml></xml>")

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Body.String(), "unsupported media type")
			assert.Zero(t, uc.calls)
		})
	}
}

func TestNotifyHandler_BodyTooLarge(t *testing.T) {
	uc := &stubNotifyUsecase{}
	h := NewNotifyHandler(uc, 16, nil)

	rec := postNotify(h, "application/xml", "<xml>"+strings.Repeat("a", 64)+"</xml>")

	assert.Contains(t, rec.Body.String(), "malformed notification")
	assert.Zero(t, uc.calls)
}

func TestNotifyHandler_PanicBecomesFail(t *testing.T) {
	uc := &stubNotifyUsecase{panic: true}
	h := NewNotifyHandler(uc, 0, nil)

	var rec *httptest.ResponseRecorder
	require.NotPanics(t, func() {
		rec = postNotify(h, "application/xml", "<xml></xml>")
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<return_code><![CDATA[FAIL]]></return_code>")
	assert.Contains(t, rec.Body.String(), "internal error")
	assert.NotContains(t, rec.Body.String(), "boom")
}
