package errors

import (
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsMatchesKindThroughWrapping(t *testing.T) {
	err := fmt.Errorf("send: %w", As(io.ErrUnexpectedEOF, ErrTransport, "relay hung up"))

	assert.True(t, Is(err, ErrTransport))
	assert.False(t, Is(err, ErrTransportAuth))
	assert.False(t, Is(nil, ErrTransport))
}

func TestIsFindsNestedKind(t *testing.T) {
	inner := Clone(ErrValidation, "recipient required")
	outer := Wrap(inner, ErrInternal.Code, ErrInternal.Status, "mail")

	assert.True(t, Is(outer, ErrInternal))
	assert.True(t, Is(outer, ErrValidation))
}

func TestFromErrorDefaultsToInternal(t *testing.T) {
	appErr := FromError(io.EOF)

	assert.Equal(t, ErrInternal.Code, appErr.Code)
	assert.Equal(t, http.StatusInternalServerError, appErr.Status)
	assert.ErrorIs(t, appErr, io.EOF)
}

func TestAsKeepsKindMessage(t *testing.T) {
	err := As(io.EOF, ErrExport, "")

	assert.Equal(t, ErrExport.Message, err.Message)
	assert.Equal(t, "failed to export data: EOF", err.Error())
}

func TestDetailExposesCauseForOperatorKinds(t *testing.T) {
	relay := As(fmt.Errorf("550 5.1.1 mailbox unavailable"), ErrTransport, "smtp recipient rejected")
	store := As(fmt.Errorf("database is locked"), ErrPersistence, "failed to save student")
	auth := As(fmt.Errorf("crypto/bcrypt: hashedPassword is not the hash"), ErrInvalidCredentials, "")

	assert.Equal(t, "550 5.1.1 mailbox unavailable", Detail(relay))
	assert.Equal(t, "database is locked", Detail(store))
	assert.Empty(t, Detail(auth))
	assert.Empty(t, Detail(Clone(ErrTransport, "no cause")))
	assert.Empty(t, Detail(nil))
}
