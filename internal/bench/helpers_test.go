package bench

import (
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func mustReadAll(t *testing.T, r *http.Request) []byte {
	t.Helper()
	data, err := io.ReadAll(r.Body)
	assert.NoError(t, err)
	return data
}
