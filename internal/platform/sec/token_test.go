// Copyright (c) 2026 Longbox. All rights reserved.
// Author: dev@longbox.app

package sec_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/longboxhq/longbox/internal/platform/sec"
)

const testSecret = "0123456789abcdef0123456789abcdef"

/*
TestTokenService_RoundTrip verifies that a signed token verifies back to the
same claims.
*/
func TestTokenService_RoundTrip(t *testing.T) {
	service, err := sec.NewTokenService(testSecret, "longbox.test")
	require.NoError(t, err)

	token, err := service.Sign("session-1", "issue-1", time.Minute)
	require.NoError(t, err)

	claims, err := service.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "session-1", claims.SessionID)
	assert.Equal(t, "issue-1", claims.IssueID)
}

/*
TestTokenService_Expired verifies that an expired token is rejected.
*/
func TestTokenService_Expired(t *testing.T) {
	service, err := sec.NewTokenService(testSecret, "longbox.test")
	require.NoError(t, err)

	token, err := service.Sign("session-1", "issue-1", -time.Minute)
	require.NoError(t, err)

	_, err = service.Verify(token)
	assert.Error(t, err)
}

/*
TestTokenService_ShortSecret verifies that weak secrets are refused at startup.
*/
func TestTokenService_ShortSecret(t *testing.T) {
	_, err := sec.NewTokenService("tooshort", "longbox.test")
	assert.Error(t, err)
}
