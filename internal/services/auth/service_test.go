package auth

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fgeck/wol-server/internal/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() zerolog.Logger {
	return zerolog.New(io.Discard)
}

func newTestService(key, value string) *Impl {
	return New(testLogger(), models.AuthConfig{SecretKey: key, SecretValue: value})
}

func TestSign_KnownVector(t *testing.T) {
	// RFC 4231 test case 2.
	assert.Equal(t,
		"5bdcc146bf60754e6a042426089575c75a003f089d2739839dec58b964ec3843",
		Sign("Jefe", "what do ya want for nothing?"))
}

func TestVerify_KeyK_ValueV(t *testing.T) {
	svc := newTestService("k", "v")

	assert.True(t, svc.Verify("v."+Sign("k", "v")))
	assert.False(t, svc.Verify("v."+Sign("k", "x")))
}

func TestVerify_Rejections(t *testing.T) {
	svc := newTestService("secret-key", "secret-value")
	valid := "secret-value." + Sign("secret-key", "secret-value")

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{name: "empty", token: "", wantErr: ErrNoToken},
		{name: "no separator", token: "secret-value", wantErr: ErrMalformedToken},
		{name: "three parts", token: "a.b.c", wantErr: ErrMalformedToken},
		{name: "trailing separator", token: valid + ".", wantErr: ErrMalformedToken},
		{name: "wrong signature", token: "secret-value." + Sign("other-key", "secret-value"), wantErr: ErrSignatureMismatch},
		{name: "empty signature", token: "secret-value.", wantErr: ErrSignatureMismatch},
		{name: "right signature wrong value", token: "other-value." + Sign("secret-key", "secret-value"), wantErr: ErrValueMismatch},
		{name: "value signed with right key", token: "other-value." + Sign("secret-key", "other-value"), wantErr: ErrSignatureMismatch},
		{name: "uppercase signature", token: "secret-value." + string(bytes.ToUpper([]byte(Sign("secret-key", "secret-value")))), wantErr: ErrSignatureMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.Check(tt.token)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.False(t, svc.Verify(tt.token))
		})
	}
}

func TestVerify_ValidToken(t *testing.T) {
	svc := newTestService("secret-key", "secret-value")

	assert.NoError(t, svc.Check("secret-value."+Sign("secret-key", "secret-value")))
}

func TestVerify_TrimsWhitespace(t *testing.T) {
	svc := newTestService("  secret-key\n", "\tsecret-value ")
	signature := Sign("secret-key", "secret-value")

	assert.True(t, svc.Verify("secret-value."+signature))
	assert.True(t, svc.Verify(" secret-value . "+signature+" "))
}

func TestVerify_SignatureMutations(t *testing.T) {
	svc := newTestService("k", "v")
	signature := Sign("k", "v")
	require.True(t, svc.Verify("v."+signature))

	for i := range signature {
		mutated := []byte(signature)
		if mutated[i] == '0' {
			mutated[i] = '1'
		} else {
			mutated[i] = '0'
		}
		assert.False(t, svc.Verify("v."+string(mutated)), "mutation at %d accepted", i)
	}
}

func TestVerify_NotConfigured(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "no key", key: "", value: "v"},
		{name: "no value", key: "k", value: ""},
		{name: "whitespace only", key: "  ", value: "v"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestService(tt.key, tt.value)

			assert.ErrorIs(t, svc.Check("v."+Sign(tt.key, tt.value)), ErrNotConfigured)
			assert.NotPanics(t, func() { svc.Verify("a.b") })
		})
	}
}

func TestToken(t *testing.T) {
	svc := newTestService("k", "v")

	token, err := svc.Token()

	require.NoError(t, err)
	assert.Equal(t, "v."+Sign("k", "v"), token)
	assert.True(t, svc.Verify(token))
}

func TestToken_NotConfigured(t *testing.T) {
	_, err := newTestService("", "").Token()

	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestVerifyRequest(t *testing.T) {
	svc := newTestService("k", "v")
	token, err := svc.Token()
	require.NoError(t, err)

	tests := []struct {
		name    string
		cookie  *http.Cookie
		wantErr error
	}{
		{name: "valid cookie", cookie: &http.Cookie{Name: DefaultCookieName, Value: token}},
		{name: "no cookie", cookie: nil, wantErr: ErrNoToken},
		{name: "other cookie", cookie: &http.Cookie{Name: "session", Value: token}, wantErr: ErrNoToken},
		{name: "empty cookie", cookie: &http.Cookie{Name: DefaultCookieName, Value: ""}, wantErr: ErrNoToken},
		{name: "bad cookie", cookie: &http.Cookie{Name: DefaultCookieName, Value: "v.deadbeef"}, wantErr: ErrSignatureMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/wol", nil)
			if tt.cookie != nil {
				req.AddCookie(tt.cookie)
			}

			err := svc.CheckRequest(req)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				assert.True(t, svc.VerifyRequest(req))
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
			assert.False(t, svc.VerifyRequest(req))
		})
	}
}

func TestVerifyRequest_CustomCookieName(t *testing.T) {
	svc := New(testLogger(), models.AuthConfig{SecretKey: "k", SecretValue: "v", CookieName: "wake"})
	token, err := svc.Token()
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/wol", nil)
	req.AddCookie(&http.Cookie{Name: "wake", Value: token})

	assert.Equal(t, "wake", svc.CookieName())
	assert.True(t, svc.VerifyRequest(req))
}

func TestCheck_DoesNotLogSecrets(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.InfoLevel)
	svc := New(logger, models.AuthConfig{SecretKey: "super-secret-key", SecretValue: "super-secret-value"})

	svc.Check("")
	svc.Check("a.b.c")
	svc.Check("super-secret-value.00")
	svc.Check("guess." + Sign("super-secret-key", "super-secret-value"))

	out := buf.String()
	assert.NotEmpty(t, out)
	assert.NotContains(t, out, "super-secret-key")
	assert.NotContains(t, out, "super-secret-value")
	assert.NotContains(t, out, Sign("super-secret-key", "super-secret-value"))
}
