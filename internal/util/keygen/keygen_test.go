package keygen

import (
	"encoding/pem"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/ssh"
)

func TestGenerateRSAKeyPair(t *testing.T) {
	kp, err := GenerateRSAKeyPair(2048)
	require.NoError(t, err)

	block, _ := pem.Decode(kp.PrivateKey)
	require.NotNil(t, block)
	assert.Equal(t, "RSA PRIVATE KEY", block.Type)

	assert.True(t, strings.HasPrefix(string(kp.PublicKey), "ssh-rsa "))

	_, _, _, _, err = ssh.ParseAuthorizedKey(kp.PublicKey)
	require.NoError(t, err)
}

func TestWritePrivateKey(t *testing.T) {
	kp, err := GenerateRSAKeyPair(2048)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "keys", "demo.pem")
	require.NoError(t, kp.WritePrivateKey(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}
