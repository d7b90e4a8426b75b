package captcha

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msb418/contractpulse/pkg"
)

func TestVerify_EmptyTokenFailsWithoutNetwork(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer srv.Close()

	v := NewHCaptchaVerifier("secret", srv.URL)

	for _, token := range []string{"", "   "} {
		err := v.Verify(context.Background(), token)
		assert.ErrorIs(t, err, pkg.ErrBadRequest)
	}
	assert.False(t, called, "empty token must not reach the verify endpoint")
}

func TestVerify_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "my-secret", r.PostFormValue("secret"))
		assert.Equal(t, "client-token", r.PostFormValue("response"))
		w.Write([]byte(`{"success": true}`))
	}))
	defer srv.Close()

	v := NewHCaptchaVerifier("my-secret", srv.URL)
	assert.NoError(t, v.Verify(context.Background(), "client-token"))
}

func TestVerify_Rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success": false, "error-codes": ["invalid-input-response"]}`))
	}))
	defer srv.Close()

	v := NewHCaptchaVerifier("secret", srv.URL)
	err := v.Verify(context.Background(), "bad-token")
	require.ErrorIs(t, err, pkg.ErrBadRequest)
	// Sağlayıcı detayı istemciye sızmaz
	assert.Contains(t, err.Error(), "captcha verification failed")
	assert.NotContains(t, err.Error(), "invalid-input-response")
}

func TestVerify_GarbageResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`this is not json`))
	}))
	defer srv.Close()

	v := NewHCaptchaVerifier("secret", srv.URL)
	err := v.Verify(context.Background(), "token")
	assert.ErrorIs(t, err, pkg.ErrBadRequest)
}

func TestVerify_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // kapalı sunucu → connection refused

	v := NewHCaptchaVerifier("secret", srv.URL)
	err := v.Verify(context.Background(), "token")
	// Transport hatası da olumsuz verdict gibi davranır — retry yok
	assert.ErrorIs(t, err, pkg.ErrBadRequest)
	assert.Contains(t, err.Error(), "captcha verification failed")
}
