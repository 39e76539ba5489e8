package helper

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// GivenUniqueID returns a fresh time-ordered UUID.
func GivenUniqueID(t testing.TB) uuid.UUID {
	id, err := uuid.NewV7()
	require.NoError(t, err, "error in arranging test data")

	return id
}

// GivenUniqueTableName returns a table name no other test run uses.
func GivenUniqueTableName(t testing.TB) string {
	return "things_" + strings.ReplaceAll(GivenUniqueID(t).String(), "-", "")
}
