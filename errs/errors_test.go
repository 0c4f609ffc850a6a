package errs

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorsAs(t *testing.T) {
	var err error = fmt.Errorf("dial: %w", &ConnectionError{Addr: "127.0.0.1:6379", Err: io.EOF})
	var connErr *ConnectionError
	assert.True(t, errors.As(err, &connErr))
	assert.True(t, errors.Is(err, io.EOF))
	assert.Contains(t, err.Error(), "127.0.0.1:6379")

	var domainErr *DomainError
	assert.True(t, errors.As(KeyNotFound("GET"), &domainErr))
	assert.Equal(t, "GET: key not found", domainErr.Error())
}

func TestArityMessage(t *testing.T) {
	bounded := &ArityError{Command: "get", Got: 2, Min: 1, Max: 0}
	assert.Contains(t, bounded.Error(), "[1, 1]")
	unbounded := &ArityError{Command: "del", Got: 0, Min: 1, Max: -1}
	assert.Contains(t, unbounded.Error(), "unbounded")
}

func TestAuthError(t *testing.T) {
	rejected := &AuthError{Command: "AUTH", Err: errors.New("WRONGPASS")}
	assert.Contains(t, rejected.Error(), "WRONGPASS")
	gated := &AuthError{Command: "SET"}
	assert.Contains(t, gated.Error(), "requires an authenticated connection")
}
