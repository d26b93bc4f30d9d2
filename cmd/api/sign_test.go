package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairyhunter13/checkout-service/internal/gateway"
)

func runSign(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := signWebhookCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{}, args...))
	err := cmd.Execute()
	return strings.TrimSpace(out.String()), err
}

func TestSignWebhook_Stdin(t *testing.T) {
	payload := `{"event":"payment.captured"}`

	out, err := runSign(t, payload, "--secret", "whsec")

	require.NoError(t, err)
	assert.Equal(t, gateway.Sign([]byte(payload), "whsec"), out)
	assert.True(t, gateway.VerifyWebhookSignature([]byte(payload), out, "whsec"))
}

func TestSignWebhook_FileAndEnvSecret(t *testing.T) {
	t.Setenv("RAZORPAY_WEBHOOK_SECRET", "from-env")
	path := filepath.Join(t.TempDir(), "event.json")
	payload := []byte("{\"event\":\"payment.captured\"}\n")
	require.NoError(t, os.WriteFile(path, payload, 0o600))

	out, err := runSign(t, "", path)

	require.NoError(t, err)
	assert.Equal(t, gateway.Sign(payload, "from-env"), out)
}

func TestSignWebhook_NoSecret(t *testing.T) {
	t.Setenv("RAZORPAY_WEBHOOK_SECRET", "")

	_, err := runSign(t, "{}")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no secret")
}
